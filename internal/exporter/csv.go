package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"salespipe/internal/config"
	"salespipe/pkg/contracts/domain"
)

// CSVWriter writes the row-level and summary CSV artifacts.
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at the configured directories.
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteCleaned writes the cleaned order rows to cleaned_sales.csv.
func (w *CSVWriter) WriteCleaned(records []domain.OrderRecord) error {
	headers := []string{
		"order_id", "product_name", "category", "quantity", "unit_price",
		"total_amount", "customer_id", "order_date", "region", "month", "year",
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.OrderID, r.ProductName, r.Category, formatInt(r.Quantity),
			formatMoney(r.UnitPrice), formatMoney(r.TotalAmount),
			r.CustomerID, formatDate(r.OrderDate), r.Region,
			formatInt(r.Month), formatInt(r.Year),
		})
	}
	return w.write(w.paths.CleanedCSV(), headers, rows)
}

// WriteEnriched writes the fully enriched rows to transformed_sales.csv.
func (w *CSVWriter) WriteEnriched(records []domain.EnrichedOrder) error {
	headers := []string{
		"order_id", "product_name", "category", "quantity", "unit_price",
		"total_amount", "customer_id", "order_date", "region", "month", "year",
		"day_of_week", "quarter", "is_weekend", "revenue_segment", "quantity_segment",
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.OrderID, r.ProductName, r.Category, formatInt(r.Quantity),
			formatMoney(r.UnitPrice), formatMoney(r.TotalAmount),
			r.CustomerID, formatDate(r.OrderDate), r.Region,
			formatInt(r.Month), formatInt(r.Year),
			r.DayOfWeek, formatInt(r.Quarter), formatBool(r.IsWeekend),
			string(r.RevenueSegment), string(r.QuantitySegment),
		})
	}
	return w.write(w.paths.EnrichedCSV(), headers, rows)
}

// WriteSummaries writes one CSV per summary dimension.
func (w *CSVWriter) WriteSummaries(set domain.SummarySet) error {
	if err := w.writeProducts(set.Products); err != nil {
		return err
	}
	if err := w.writeCategories(set.Categories); err != nil {
		return err
	}
	if err := w.writeMonthly(set.Monthly); err != nil {
		return err
	}
	if err := w.writeRegions(set.Regions); err != nil {
		return err
	}
	return w.writeCustomers(set.Customers)
}

func (w *CSVWriter) writeProducts(summaries []domain.ProductSummary) error {
	headers := []string{
		"product_name", "total_quantity_sold", "total_revenue",
		"order_count", "avg_unit_price", "avg_order_value",
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ProductName, formatInt(s.TotalQuantitySold), formatMoney(s.TotalRevenue),
			formatInt(s.OrderCount), formatMoney(s.AvgUnitPrice), formatMoney(s.AvgOrderValue),
		})
	}
	return w.write(w.paths.SummaryCSV("products"), headers, rows)
}

func (w *CSVWriter) writeCategories(summaries []domain.CategorySummary) error {
	headers := []string{
		"category", "total_quantity_sold", "total_revenue",
		"order_count", "unique_products", "avg_order_value",
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Category, formatInt(s.TotalQuantitySold), formatMoney(s.TotalRevenue),
			formatInt(s.OrderCount), formatInt(s.UniqueProducts), formatMoney(s.AvgOrderValue),
		})
	}
	return w.write(w.paths.SummaryCSV("categories"), headers, rows)
}

func (w *CSVWriter) writeMonthly(summaries []domain.MonthlySummary) error {
	headers := []string{
		"year", "month", "monthly_revenue", "monthly_quantity",
		"monthly_orders", "unique_customers", "avg_order_value",
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			formatInt(s.Year), formatInt(s.Month), formatMoney(s.MonthlyRevenue),
			formatInt(s.MonthlyQuantity), formatInt(s.MonthlyOrders),
			formatInt(s.UniqueCustomers), formatMoney(s.AvgOrderValue),
		})
	}
	return w.write(w.paths.SummaryCSV("monthly"), headers, rows)
}

func (w *CSVWriter) writeRegions(summaries []domain.RegionSummary) error {
	headers := []string{
		"region", "total_revenue", "total_quantity", "total_orders",
		"unique_customers", "unique_products", "avg_order_value",
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Region, formatMoney(s.TotalRevenue), formatInt(s.TotalQuantity),
			formatInt(s.TotalOrders), formatInt(s.UniqueCustomers),
			formatInt(s.UniqueProducts), formatMoney(s.AvgOrderValue),
		})
	}
	return w.write(w.paths.SummaryCSV("regions"), headers, rows)
}

func (w *CSVWriter) writeCustomers(summaries []domain.CustomerSummary) error {
	headers := []string{
		"customer_id", "total_spent", "total_quantity", "total_orders",
		"unique_products", "unique_categories", "avg_order_value",
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.CustomerID, formatMoney(s.TotalSpent), formatInt(s.TotalQuantity),
			formatInt(s.TotalOrders), formatInt(s.UniqueProducts),
			formatInt(s.UniqueCategories), formatMoney(s.AvgOrderValue),
		})
	}
	return w.write(w.paths.SummaryCSV("customers"), headers, rows)
}

// write creates the file, writes headers and rows, and reports any writer
// error before the file handle closes.
func (w *CSVWriter) write(path string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers to %s: %w", path, err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d to %s: %w", i, path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	w.logger.Info("wrote CSV artifact",
		slog.String("path", path),
		slog.Int("rows", len(rows)))
	return nil
}
