package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"salespipe/pkg/contracts/domain"
)

// Extractor reads raw order rows from a source file. CSV is the primary
// format; XLSX workbooks are accepted as well, using the first sheet that
// carries the required header.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With(slog.String("component", "extractor"))}
}

// Extract loads the source file into raw order rows. A missing or
// unreadable file is fatal before any output is written, as is a source
// missing any required column.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.RawOrder, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file %s not found: %w", path, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input file %s is empty", path)
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	raws := make([]domain.RawOrder, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raws = append(raws, rawFromRow(row, columns))
	}

	e.logger.InfoContext(ctx, "extracted raw rows",
		slog.String("file", path),
		slog.Int("rows", len(raws)))

	return raws, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	// Strip a UTF-8 BOM if the writer added one.
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		if _, err := mapColumns(rows[0]); err == nil {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("no sheet with the required order columns")
}

// mapColumns resolves header names to column positions. Every required
// column must be present; extra columns are ignored.
func mapColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := positions[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns missing from input: %s", strings.Join(missing, ", "))
	}
	return positions, nil
}

func rawFromRow(row []string, columns map[string]int) domain.RawOrder {
	cell := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}
	return domain.RawOrder{
		OrderID:     cell("order_id"),
		ProductName: cell("product_name"),
		Category:    cell("category"),
		Quantity:    cell("quantity"),
		UnitPrice:   cell("unit_price"),
		TotalAmount: cell("total_amount"),
		CustomerID:  cell("customer_id"),
		OrderDate:   cell("order_date"),
		Region:      cell("region"),
	}
}
