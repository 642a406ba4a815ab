package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"salespipe/pkg/contracts/domain"
)

// Transformer derives segment and calendar features per row and computes
// the five grouped summaries plus the global statistics.
type Transformer struct {
	logger *slog.Logger
}

// NewTransformer creates a new transformer.
func NewTransformer(logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{logger: logger.With(slog.String("component", "transformer"))}
}

// Transform enriches the clean rows and computes summaries and global
// statistics. The five summaries are independent of each other and run
// concurrently; each sorts its output ascending by group key, so the result
// is deterministic regardless of scheduling.
func (t *Transformer) Transform(ctx context.Context, rows []domain.OrderRecord) ([]domain.EnrichedOrder, domain.SummarySet, domain.GlobalStats, error) {
	if len(rows) == 0 {
		return nil, domain.SummarySet{}, domain.GlobalStats{}, fmt.Errorf("no rows to transform")
	}

	enriched := make([]domain.EnrichedOrder, len(rows))
	for i, row := range rows {
		enriched[i] = enrich(row)
	}

	var set domain.SummarySet
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { set.Products = productSummaries(enriched); return nil })
	g.Go(func() error { set.Categories = categorySummaries(enriched); return nil })
	g.Go(func() error { set.Monthly = monthlySummaries(enriched); return nil })
	g.Go(func() error { set.Regions = regionSummaries(enriched); return nil })
	g.Go(func() error { set.Customers = customerSummaries(enriched); return nil })
	if err := g.Wait(); err != nil {
		return nil, domain.SummarySet{}, domain.GlobalStats{}, err
	}

	stats := globalStats(enriched)

	t.logger.InfoContext(ctx, "transformation completed",
		slog.Int("rows", len(enriched)),
		slog.Int("products", len(set.Products)),
		slog.Int("categories", len(set.Categories)),
		slog.Int("months", len(set.Monthly)),
		slog.Int("regions", len(set.Regions)),
		slog.Int("customers", len(set.Customers)),
		slog.String("total_revenue", stats.TotalRevenue.String()))

	return enriched, set, stats, nil
}

// enrich attaches the derived calendar and segment fields to a clean row.
func enrich(row domain.OrderRecord) domain.EnrichedOrder {
	weekday := row.OrderDate.Weekday()
	return domain.EnrichedOrder{
		OrderRecord:     row,
		DayOfWeek:       weekday.String(),
		Quarter:         (int(row.OrderDate.Month())-1)/3 + 1,
		IsWeekend:       weekday == time.Saturday || weekday == time.Sunday,
		RevenueSegment:  domain.SegmentForRevenue(row.TotalAmount),
		QuantitySegment: domain.SegmentForQuantity(row.Quantity),
	}
}

// accumulator collects the per-group running totals shared by all five
// summaries.
type accumulator struct {
	revenue    decimal.Decimal
	unitPrices decimal.Decimal
	quantity   int
	orders     int
	products   map[string]struct{}
	categories map[string]struct{}
	customers  map[string]struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{
		products:   make(map[string]struct{}),
		categories: make(map[string]struct{}),
		customers:  make(map[string]struct{}),
	}
}

func (a *accumulator) add(row domain.EnrichedOrder) {
	a.revenue = a.revenue.Add(row.TotalAmount)
	a.unitPrices = a.unitPrices.Add(row.UnitPrice)
	a.quantity += row.Quantity
	a.orders++
	a.products[row.ProductName] = struct{}{}
	a.categories[row.Category] = struct{}{}
	a.customers[row.CustomerID] = struct{}{}
}

// avgOver divides a monetary total by a count, rounded to 2 decimal places.
// Counts are always positive here because every group comes from at least
// one existing row.
func avgOver(total decimal.Decimal, count int) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}

func groupBy[K comparable](rows []domain.EnrichedOrder, key func(domain.EnrichedOrder) K) map[K]*accumulator {
	groups := make(map[K]*accumulator)
	for _, row := range rows {
		k := key(row)
		acc, ok := groups[k]
		if !ok {
			acc = newAccumulator()
			groups[k] = acc
		}
		acc.add(row)
	}
	return groups
}

func productSummaries(rows []domain.EnrichedOrder) []domain.ProductSummary {
	groups := groupBy(rows, func(r domain.EnrichedOrder) string { return r.ProductName })
	out := make([]domain.ProductSummary, 0, len(groups))
	for name, acc := range groups {
		out = append(out, domain.ProductSummary{
			ProductName:       name,
			TotalQuantitySold: acc.quantity,
			TotalRevenue:      acc.revenue.Round(2),
			OrderCount:        acc.orders,
			AvgUnitPrice:      avgOver(acc.unitPrices, acc.orders),
			AvgOrderValue:     avgOver(acc.revenue, acc.orders),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out
}

func categorySummaries(rows []domain.EnrichedOrder) []domain.CategorySummary {
	groups := groupBy(rows, func(r domain.EnrichedOrder) string { return r.Category })
	out := make([]domain.CategorySummary, 0, len(groups))
	for name, acc := range groups {
		out = append(out, domain.CategorySummary{
			Category:          name,
			TotalQuantitySold: acc.quantity,
			TotalRevenue:      acc.revenue.Round(2),
			OrderCount:        acc.orders,
			UniqueProducts:    len(acc.products),
			AvgOrderValue:     avgOver(acc.revenue, acc.orders),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

type yearMonth struct {
	year  int
	month int
}

func monthlySummaries(rows []domain.EnrichedOrder) []domain.MonthlySummary {
	groups := groupBy(rows, func(r domain.EnrichedOrder) yearMonth {
		return yearMonth{year: r.Year, month: r.Month}
	})
	out := make([]domain.MonthlySummary, 0, len(groups))
	for ym, acc := range groups {
		out = append(out, domain.MonthlySummary{
			Year:            ym.year,
			Month:           ym.month,
			MonthlyRevenue:  acc.revenue.Round(2),
			MonthlyQuantity: acc.quantity,
			MonthlyOrders:   acc.orders,
			UniqueCustomers: len(acc.customers),
			AvgOrderValue:   avgOver(acc.revenue, acc.orders),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

func regionSummaries(rows []domain.EnrichedOrder) []domain.RegionSummary {
	groups := groupBy(rows, func(r domain.EnrichedOrder) string { return r.Region })
	out := make([]domain.RegionSummary, 0, len(groups))
	for name, acc := range groups {
		out = append(out, domain.RegionSummary{
			Region:          name,
			TotalRevenue:    acc.revenue.Round(2),
			TotalQuantity:   acc.quantity,
			TotalOrders:     acc.orders,
			UniqueCustomers: len(acc.customers),
			UniqueProducts:  len(acc.products),
			AvgOrderValue:   avgOver(acc.revenue, acc.orders),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

func customerSummaries(rows []domain.EnrichedOrder) []domain.CustomerSummary {
	groups := groupBy(rows, func(r domain.EnrichedOrder) string { return r.CustomerID })
	out := make([]domain.CustomerSummary, 0, len(groups))
	for id, acc := range groups {
		out = append(out, domain.CustomerSummary{
			CustomerID:       id,
			TotalSpent:       acc.revenue.Round(2),
			TotalQuantity:    acc.quantity,
			TotalOrders:      acc.orders,
			UniqueProducts:   len(acc.products),
			UniqueCategories: len(acc.categories),
			AvgOrderValue:    avgOver(acc.revenue, acc.orders),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}

// globalStats computes the whole-set rollup. Ties for the most popular
// product and category and the top region are broken by the
// lexicographically smallest key among the maxima.
func globalStats(rows []domain.EnrichedOrder) domain.GlobalStats {
	var (
		revenue      decimal.Decimal
		quantity     int
		customers    = make(map[string]struct{})
		products     = make(map[string]struct{})
		categories   = make(map[string]struct{})
		productQty   = make(map[string]int)
		categoryQty  = make(map[string]int)
		regionAmount = make(map[string]decimal.Decimal)
		minDate      = rows[0].OrderDate
		maxDate      = rows[0].OrderDate
	)

	for _, row := range rows {
		revenue = revenue.Add(row.TotalAmount)
		quantity += row.Quantity
		customers[row.CustomerID] = struct{}{}
		products[row.ProductName] = struct{}{}
		categories[row.Category] = struct{}{}
		productQty[row.ProductName] += row.Quantity
		categoryQty[row.Category] += row.Quantity
		regionAmount[row.Region] = regionAmount[row.Region].Add(row.TotalAmount)
		if row.OrderDate.Before(minDate) {
			minDate = row.OrderDate
		}
		if row.OrderDate.After(maxDate) {
			maxDate = row.OrderDate
		}
	}

	return domain.GlobalStats{
		TotalRevenue:        revenue.Round(2),
		TotalOrders:         len(rows),
		TotalQuantity:       quantity,
		UniqueCustomers:     len(customers),
		UniqueProducts:      len(products),
		UniqueCategories:    len(categories),
		AvgOrderValue:       avgOver(revenue, len(rows)),
		DateRangeDays:       int(maxDate.Sub(minDate).Hours() / 24),
		MostPopularProduct:  maxByInt(productQty),
		MostPopularCategory: maxByInt(categoryQty),
		TopRegion:           maxByDecimal(regionAmount),
	}
}

func maxByInt(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestVal := "", 0
	for _, k := range keys {
		if best == "" || m[k] > bestVal {
			best, bestVal = k, m[k]
		}
	}
	return best
}

func maxByDecimal(m map[string]decimal.Decimal) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	var bestVal decimal.Decimal
	for _, k := range keys {
		if best == "" || m[k].GreaterThan(bestVal) {
			best, bestVal = k, m[k]
		}
	}
	return best
}
