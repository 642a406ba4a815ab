package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"salespipe/internal/config"
	"salespipe/pkg/contracts/domain"
)

// JSONWriter writes the document-oriented export consumed by web frontends.
type JSONWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewJSONWriter creates a JSON writer rooted at the configured directories.
func NewJSONWriter(paths *config.Paths, logger *slog.Logger) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{paths: paths, logger: logger}
}

// documentRecord is the wire shape of one enriched row in sales_data.json.
// Dates are ISO-8601 strings rather than timestamps.
type documentRecord struct {
	OrderID         string          `json:"order_id"`
	ProductName     string          `json:"product_name"`
	Category        string          `json:"category"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CustomerID      string          `json:"customer_id"`
	OrderDate       string          `json:"order_date"`
	Region          string          `json:"region"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	DayOfWeek       string          `json:"day_of_week"`
	Quarter         int             `json:"quarter"`
	IsWeekend       bool            `json:"is_weekend"`
	RevenueSegment  string          `json:"revenue_segment"`
	QuantitySegment string          `json:"quantity_segment"`
}

// WriteDocuments writes every enriched row as one JSON object to
// sales_data.json. The array preserves row order.
func (w *JSONWriter) WriteDocuments(records []domain.EnrichedOrder) error {
	docs := make([]documentRecord, 0, len(records))
	for _, r := range records {
		docs = append(docs, documentRecord{
			OrderID:         r.OrderID,
			ProductName:     r.ProductName,
			Category:        r.Category,
			Quantity:        r.Quantity,
			UnitPrice:       r.UnitPrice,
			TotalAmount:     r.TotalAmount,
			CustomerID:      r.CustomerID,
			OrderDate:       formatDate(r.OrderDate),
			Region:          r.Region,
			Month:           r.Month,
			Year:            r.Year,
			DayOfWeek:       r.DayOfWeek,
			Quarter:         r.Quarter,
			IsWeekend:       r.IsWeekend,
			RevenueSegment:  string(r.RevenueSegment),
			QuantitySegment: string(r.QuantitySegment),
		})
	}

	path := w.paths.DocumentJSON()
	if err := writeJSONFile(path, docs); err != nil {
		return err
	}
	w.logger.Info("wrote JSON document export",
		slog.String("path", path),
		slog.Int("records", len(docs)))
	return nil
}

// writeJSONFile marshals v with two-space indentation and writes it whole.
func writeJSONFile(path string, v any) error {
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
