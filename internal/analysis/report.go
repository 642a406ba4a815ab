package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"salespipe/internal/config"
)

// OverallStatistics is the single-row rollup queried from sales_data.
type OverallStatistics struct {
	TotalOrders      int     `json:"total_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalQuantity    int     `json:"total_quantity"`
	UniqueCustomers  int     `json:"unique_customers"`
	UniqueProducts   int     `json:"unique_products"`
	UniqueCategories int     `json:"unique_categories"`
	AvgOrderValue    float64 `json:"avg_order_value"`
	FirstOrderDate   string  `json:"first_order_date"`
	LastOrderDate    string  `json:"last_order_date"`
}

// ProductRevenue is one top-products entry.
type ProductRevenue struct {
	ProductName string  `json:"product_name"`
	Revenue     float64 `json:"revenue"`
}

// CategoryRevenue is one top-categories entry.
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

// RegionRevenue is one top-regions entry.
type RegionRevenue struct {
	Region  string  `json:"region"`
	Revenue float64 `json:"revenue"`
}

// Report is the shape of analysis_report.json.
type Report struct {
	OverallStatistics OverallStatistics `json:"overall_statistics"`
	TopProducts       []ProductRevenue  `json:"top_products"`
	TopCategories     []CategoryRevenue `json:"top_categories"`
	TopRegions        []RegionRevenue   `json:"top_regions"`
	AnalysisDate      string            `json:"analysis_date"`
}

const (
	overallStatsQuery = `
		SELECT
			COUNT(*) AS total_orders,
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COUNT(DISTINCT customer_id) AS unique_customers,
			COUNT(DISTINCT product_name) AS unique_products,
			COUNT(DISTINCT category) AS unique_categories,
			COALESCE(AVG(total_amount), 0) AS avg_order_value,
			COALESCE(MIN(order_date), '') AS first_order_date,
			COALESCE(MAX(order_date), '') AS last_order_date
		FROM sales_data`

	topProductsQuery = `
		SELECT product_name, SUM(total_amount) AS revenue
		FROM sales_data
		GROUP BY product_name
		ORDER BY revenue DESC, product_name ASC
		LIMIT 5`

	topCategoriesQuery = `
		SELECT category, SUM(total_amount) AS revenue
		FROM sales_data
		GROUP BY category
		ORDER BY revenue DESC, category ASC
		LIMIT 5`

	topRegionsQuery = `
		SELECT region, SUM(total_amount) AS revenue
		FROM sales_data
		GROUP BY region
		ORDER BY revenue DESC, region ASC
		LIMIT 5`
)

// ReportBuilder queries the analysis database and writes
// analysis_report.json.
type ReportBuilder struct {
	db     *gorm.DB
	paths  *config.Paths
	logger *slog.Logger
	now    func() time.Time
}

// NewReportBuilder creates a builder over an open database handle.
func NewReportBuilder(db *gorm.DB, paths *config.Paths, logger *slog.Logger) *ReportBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportBuilder{db: db, paths: paths, logger: logger, now: time.Now}
}

// Build assembles the report from the loaded tables and writes it to disk.
func (b *ReportBuilder) Build(ctx context.Context) (*Report, error) {
	report := &Report{AnalysisDate: b.now().Format(time.RFC3339)}

	if err := b.db.WithContext(ctx).Raw(overallStatsQuery).Scan(&report.OverallStatistics).Error; err != nil {
		return nil, fmt.Errorf("failed to query overall statistics: %w", err)
	}
	if err := b.db.WithContext(ctx).Raw(topProductsQuery).Scan(&report.TopProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	if err := b.db.WithContext(ctx).Raw(topCategoriesQuery).Scan(&report.TopCategories).Error; err != nil {
		return nil, fmt.Errorf("failed to query top categories: %w", err)
	}
	if err := b.db.WithContext(ctx).Raw(topRegionsQuery).Scan(&report.TopRegions).Error; err != nil {
		return nil, fmt.Errorf("failed to query top regions: %w", err)
	}

	path := b.paths.ReportFile()
	if err := writeJSON(path, report); err != nil {
		return nil, err
	}
	b.logger.Info("wrote analysis report", slog.String("path", path))
	return report, nil
}

// WriteSummary renders the report as a human-readable console block.
func (r *Report) WriteSummary(w io.Writer) {
	line := "============================================================"
	stats := r.OverallStatistics

	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "E-COMMERCE SALES DATA ANALYSIS REPORT")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Analysis Date: %s\n", r.AnalysisDate)
	fmt.Fprintf(w, "Date Range: %s to %s\n", stats.FirstOrderDate, stats.LastOrderDate)
	fmt.Fprintf(w, "Total Revenue: $%.2f\n", stats.TotalRevenue)
	fmt.Fprintf(w, "Total Orders: %d\n", stats.TotalOrders)
	fmt.Fprintf(w, "Total Quantity Sold: %d\n", stats.TotalQuantity)
	fmt.Fprintf(w, "Unique Customers: %d\n", stats.UniqueCustomers)
	fmt.Fprintf(w, "Unique Products: %d\n", stats.UniqueProducts)
	fmt.Fprintf(w, "Average Order Value: $%.2f\n", stats.AvgOrderValue)

	fmt.Fprintln(w, "\nTOP 5 PRODUCTS BY REVENUE:")
	for i, p := range r.TopProducts {
		fmt.Fprintf(w, "%d. %s: $%.2f\n", i+1, p.ProductName, p.Revenue)
	}
	fmt.Fprintln(w, "\nTOP 5 CATEGORIES BY REVENUE:")
	for i, c := range r.TopCategories {
		fmt.Fprintf(w, "%d. %s: $%.2f\n", i+1, c.Category, c.Revenue)
	}
	fmt.Fprintln(w, "\nTOP 5 REGIONS BY REVENUE:")
	for i, rg := range r.TopRegions {
		fmt.Fprintf(w, "%d. %s: $%.2f\n", i+1, rg.Region, rg.Revenue)
	}
	fmt.Fprintln(w, line)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
