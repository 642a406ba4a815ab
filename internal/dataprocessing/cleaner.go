package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salespipe/pkg/contracts/domain"
)

// dateLayouts are tried in order when coercing order_date values.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// CleanReport counts what cleaning did to the row set.
type CleanReport struct {
	InputRows            int `json:"input_rows"`
	MissingFilled        int `json:"missing_filled"`
	DuplicatesRemoved    int `json:"duplicates_removed"`
	InconsistentRepaired int `json:"inconsistent_repaired"`
	NegativesRemoved     int `json:"negatives_removed"`
	OutputRows           int `json:"output_rows"`
}

// Cleaner validates and repairs raw order rows. All steps are deterministic
// and preserve input order; deduplication keeps the first occurrence.
type Cleaner struct {
	logger    *slog.Logger
	tolerance decimal.Decimal
}

// NewCleaner creates a cleaner with the given total-amount tolerance.
func NewCleaner(logger *slog.Logger, tolerance float64) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if tolerance <= 0 {
		tolerance = 0.01
	}
	return &Cleaner{
		logger:    logger.With(slog.String("component", "cleaner")),
		tolerance: decimal.NewFromFloat(tolerance),
	}
}

// Clean runs the full cleaning sequence over the raw row set:
// missing-value imputation, deduplication, type coercion, consistency
// repair, negative-value filtering, text normalization, and calendar
// derivation. Coercion failure on any row aborts the whole batch.
func (c *Cleaner) Clean(ctx context.Context, raws []domain.RawOrder) ([]domain.OrderRecord, CleanReport, error) {
	report := CleanReport{InputRows: len(raws)}

	rows := make([]domain.RawOrder, len(raws))
	copy(rows, raws)

	report.MissingFilled = c.imputeMissing(ctx, rows)

	rows, report.DuplicatesRemoved = dropDuplicates(rows)

	records, err := coerceTypes(rows)
	if err != nil {
		return nil, report, err
	}

	report.InconsistentRepaired = c.repairTotals(ctx, records)

	records, report.NegativesRemoved = dropNegatives(records)

	for i := range records {
		records[i].ProductName = strings.TrimSpace(records[i].ProductName)
		records[i].Category = strings.TrimSpace(records[i].Category)
		records[i].Region = strings.TrimSpace(records[i].Region)
		records[i].Month = int(records[i].OrderDate.Month())
		records[i].Year = records[i].OrderDate.Year()
	}

	report.OutputRows = len(records)
	c.logger.InfoContext(ctx, "cleaning completed",
		slog.Int("input_rows", report.InputRows),
		slog.Int("missing_filled", report.MissingFilled),
		slog.Int("duplicates_removed", report.DuplicatesRemoved),
		slog.Int("inconsistent_repaired", report.InconsistentRepaired),
		slog.Int("negatives_removed", report.NegativesRemoved),
		slog.Int("output_rows", report.OutputRows))

	return records, report, nil
}

// isMissing reports whether a cell counts as a missing value.
func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "n/a", "nan", "null", "none":
		return true
	}
	return false
}

// imputeMissing fills missing numeric cells with the column median and
// missing text cells with the column mode, both computed from the
// non-missing values of this run. A text column with no values at all is
// filled with "Unknown". Returns the number of cells filled.
func (c *Cleaner) imputeMissing(ctx context.Context, rows []domain.RawOrder) int {
	filled := 0

	numeric := []struct {
		name string
		get  func(*domain.RawOrder) *string
		// integral truncates the median, matching integer column dtype.
		integral bool
	}{
		{"quantity", func(r *domain.RawOrder) *string { return &r.Quantity }, true},
		{"unit_price", func(r *domain.RawOrder) *string { return &r.UnitPrice }, false},
		{"total_amount", func(r *domain.RawOrder) *string { return &r.TotalAmount }, false},
	}
	for _, col := range numeric {
		var values []decimal.Decimal
		missing := 0
		for i := range rows {
			cell := *col.get(&rows[i])
			if isMissing(cell) {
				missing++
				continue
			}
			if v, err := decimal.NewFromString(strings.TrimSpace(cell)); err == nil {
				values = append(values, v)
			}
		}
		if missing == 0 || len(values) == 0 {
			continue
		}

		med := median(values)
		fill := med.String()
		if col.integral {
			fill = strconv.FormatInt(med.IntPart(), 10)
		}
		for i := range rows {
			cell := col.get(&rows[i])
			if isMissing(*cell) {
				*cell = fill
				filled++
			}
		}
		c.logger.InfoContext(ctx, "filled missing numeric values",
			slog.String("column", col.name),
			slog.String("median", fill),
			slog.Int("count", missing))
	}

	text := []struct {
		name string
		get  func(*domain.RawOrder) *string
	}{
		{"order_id", func(r *domain.RawOrder) *string { return &r.OrderID }},
		{"product_name", func(r *domain.RawOrder) *string { return &r.ProductName }},
		{"category", func(r *domain.RawOrder) *string { return &r.Category }},
		{"customer_id", func(r *domain.RawOrder) *string { return &r.CustomerID }},
		{"order_date", func(r *domain.RawOrder) *string { return &r.OrderDate }},
		{"region", func(r *domain.RawOrder) *string { return &r.Region }},
	}
	for _, col := range text {
		counts := make(map[string]int)
		missing := 0
		for i := range rows {
			cell := *col.get(&rows[i])
			if isMissing(cell) {
				missing++
				continue
			}
			counts[cell]++
		}
		if missing == 0 {
			continue
		}

		fill := mode(counts)
		for i := range rows {
			cell := col.get(&rows[i])
			if isMissing(*cell) {
				*cell = fill
				filled++
			}
		}
		c.logger.InfoContext(ctx, "filled missing text values",
			slog.String("column", col.name),
			slog.String("mode", fill),
			slog.Int("count", missing))
	}

	return filled
}

// median returns the middle value, or the mean of the two middle values for
// an even count. The input slice is not modified.
func median(values []decimal.Decimal) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

// mode returns the most frequent value, breaking frequency ties by the
// lexicographically smallest value. An empty count map yields "Unknown".
func mode(counts map[string]int) string {
	best, bestCount := "Unknown", 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// dropDuplicates removes rows that are exact duplicates across all columns,
// keeping the first occurrence.
func dropDuplicates(rows []domain.RawOrder) ([]domain.RawOrder, int) {
	seen := make(map[domain.RawOrder]struct{}, len(rows))
	out := rows[:0]
	removed := 0
	for _, row := range rows {
		if _, ok := seen[row]; ok {
			removed++
			continue
		}
		seen[row] = struct{}{}
		out = append(out, row)
	}
	return out, removed
}

// coerceTypes converts raw string cells into their required types. Any
// failure is fatal for the whole batch.
func coerceTypes(rows []domain.RawOrder) ([]domain.OrderRecord, error) {
	records := make([]domain.OrderRecord, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(row.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("row %d: cannot coerce order_date %q: %w", i, row.OrderDate, err)
		}
		quantity, err := parseQuantity(row.Quantity)
		if err != nil {
			return nil, fmt.Errorf("row %d: cannot coerce quantity %q: %w", i, row.Quantity, err)
		}
		unitPrice, err := decimal.NewFromString(strings.TrimSpace(row.UnitPrice))
		if err != nil {
			return nil, fmt.Errorf("row %d: cannot coerce unit_price %q: %w", i, row.UnitPrice, err)
		}
		totalAmount, err := decimal.NewFromString(strings.TrimSpace(row.TotalAmount))
		if err != nil {
			return nil, fmt.Errorf("row %d: cannot coerce total_amount %q: %w", i, row.TotalAmount, err)
		}

		records = append(records, domain.OrderRecord{
			OrderID:     row.OrderID,
			ProductName: row.ProductName,
			Category:    row.Category,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			TotalAmount: totalAmount,
			CustomerID:  row.CustomerID,
			OrderDate:   date,
			Region:      row.Region,
		})
	}
	return records, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// parseQuantity accepts integers and integral-valued floats; the latter
// appear when an upstream writer serialized the column as float.
func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(math.Trunc(f)), nil
}

// repairTotals overwrites total_amount with quantity*unit_price wherever
// the stated value deviates by more than the tolerance. Returns the number
// of rows repaired.
func (c *Cleaner) repairTotals(ctx context.Context, records []domain.OrderRecord) int {
	repaired := 0
	for i := range records {
		expected := records[i].UnitPrice.Mul(decimal.NewFromInt(int64(records[i].Quantity)))
		if records[i].TotalAmount.Sub(expected).Abs().GreaterThan(c.tolerance) {
			records[i].TotalAmount = expected
			repaired++
		}
	}
	if repaired > 0 {
		c.logger.WarnContext(ctx, "corrected inconsistent total_amount values",
			slog.Int("count", repaired))
	}
	return repaired
}

// dropNegatives removes rows with a negative quantity, unit price, or total
// amount.
func dropNegatives(records []domain.OrderRecord) ([]domain.OrderRecord, int) {
	out := records[:0]
	removed := 0
	for _, rec := range records {
		if rec.Quantity < 0 || rec.UnitPrice.IsNegative() || rec.TotalAmount.IsNegative() {
			removed++
			continue
		}
		out = append(out, rec)
	}
	return out, removed
}
