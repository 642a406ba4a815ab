package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespipe/pkg/contracts/domain"
)

func orderRecord(id, product, category, customer, region string, qty int, price, total string, date time.Time) domain.OrderRecord {
	return domain.OrderRecord{
		OrderID:     id,
		ProductName: product,
		Category:    category,
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
		TotalAmount: decimal.RequireFromString(total),
		CustomerID:  customer,
		OrderDate:   date,
		Region:      region,
		Month:       int(date.Month()),
		Year:        date.Year(),
	}
}

func TestTransformer_Transform_EmptyInputFails(t *testing.T) {
	tr := NewTransformer(nil)
	_, _, _, err := tr.Transform(context.Background(), nil)
	require.Error(t, err)
}

func TestTransformer_Transform_EnrichesRows(t *testing.T) {
	tr := NewTransformer(nil)
	// 2024-01-13 is a Saturday, 2024-04-15 a Monday.
	rows := []domain.OrderRecord{
		orderRecord("ORD001", "Laptop", "Electronics", "C1", "North", 1, "750", "750", time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)),
		orderRecord("ORD002", "Mouse", "Electronics", "C2", "South", 4, "375", "1500", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)),
	}

	enriched, _, _, err := tr.Transform(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, enriched, 2)

	assert.Equal(t, "Saturday", enriched[0].DayOfWeek)
	assert.Equal(t, 1, enriched[0].Quarter)
	assert.True(t, enriched[0].IsWeekend)
	assert.Equal(t, domain.RevenueSegmentHigh, enriched[0].RevenueSegment)
	assert.Equal(t, domain.QuantitySegmentSingle, enriched[0].QuantitySegment)

	assert.Equal(t, "Monday", enriched[1].DayOfWeek)
	assert.Equal(t, 2, enriched[1].Quarter)
	assert.False(t, enriched[1].IsWeekend)
	assert.Equal(t, domain.RevenueSegmentVeryHigh, enriched[1].RevenueSegment)
	assert.Equal(t, domain.QuantitySegmentMedium, enriched[1].QuantitySegment)
}

func TestSegmentThresholds(t *testing.T) {
	tests := []struct {
		amount string
		want   domain.RevenueSegment
	}{
		{"0", domain.RevenueSegmentLow},
		{"100", domain.RevenueSegmentLow},
		{"100.01", domain.RevenueSegmentMedium},
		{"500", domain.RevenueSegmentMedium},
		{"750", domain.RevenueSegmentHigh},
		{"1000", domain.RevenueSegmentHigh},
		{"1500", domain.RevenueSegmentVeryHigh},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.SegmentForRevenue(decimal.RequireFromString(tt.amount)))
		})
	}

	quantities := []struct {
		quantity int
		want     domain.QuantitySegment
	}{
		{0, domain.QuantitySegmentSingle},
		{1, domain.QuantitySegmentSingle},
		{2, domain.QuantitySegmentSmall},
		{3, domain.QuantitySegmentSmall},
		{4, domain.QuantitySegmentMedium},
		{5, domain.QuantitySegmentMedium},
		{6, domain.QuantitySegmentLarge},
	}
	for _, tt := range quantities {
		assert.Equal(t, tt.want, domain.SegmentForQuantity(tt.quantity), "quantity %d", tt.quantity)
	}
}

func TestTransformer_Transform_ProductSummary(t *testing.T) {
	tr := NewTransformer(nil)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.OrderRecord{
		orderRecord("ORD001", "A", "Cat", "C1", "North", 1, "100", "100", day),
		orderRecord("ORD002", "A", "Cat", "C2", "North", 2, "100", "200", day.AddDate(0, 0, 1)),
		orderRecord("ORD003", "A", "Cat", "C1", "South", 3, "100", "300", day.AddDate(0, 0, 2)),
	}

	_, set, _, err := tr.Transform(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, set.Products, 1)

	p := set.Products[0]
	assert.Equal(t, "A", p.ProductName)
	assert.True(t, p.TotalRevenue.Equal(decimal.NewFromInt(600)), "got %s", p.TotalRevenue)
	assert.Equal(t, 3, p.OrderCount)
	assert.Equal(t, 6, p.TotalQuantitySold)
	assert.True(t, p.AvgUnitPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, p.AvgOrderValue.Equal(decimal.NewFromInt(200)))
}

func TestTransformer_Transform_SummaryRoundTrip(t *testing.T) {
	tr := NewTransformer(nil)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	rows := []domain.OrderRecord{
		orderRecord("ORD001", "A", "Alpha", "C1", "North", 1, "19.99", "19.99", day),
		orderRecord("ORD002", "B", "Alpha", "C2", "North", 2, "7.25", "14.50", day.AddDate(0, 1, 0)),
		orderRecord("ORD003", "C", "Beta", "C1", "South", 3, "3.10", "9.30", day.AddDate(0, 2, 0)),
		orderRecord("ORD004", "A", "Alpha", "C3", "South", 1, "19.99", "19.99", day.AddDate(0, 2, 5)),
	}

	enriched, set, _, err := tr.Transform(context.Background(), rows)
	require.NoError(t, err)

	// Summing a summary's revenue equals summing total_amount over the
	// matching rows.
	for _, cat := range set.Categories {
		var want decimal.Decimal
		for _, row := range enriched {
			if row.Category == cat.Category {
				want = want.Add(row.TotalAmount)
			}
		}
		assert.True(t, cat.TotalRevenue.Sub(want).Abs().LessThanOrEqual(decimal.RequireFromString("0.01")),
			"category %s: summary %s vs rows %s", cat.Category, cat.TotalRevenue, want)
	}

	var summaryTotal, rowTotal decimal.Decimal
	for _, reg := range set.Regions {
		summaryTotal = summaryTotal.Add(reg.TotalRevenue)
	}
	for _, row := range enriched {
		rowTotal = rowTotal.Add(row.TotalAmount)
	}
	assert.True(t, summaryTotal.Sub(rowTotal).Abs().LessThanOrEqual(decimal.RequireFromString("0.05")))
}

func TestTransformer_Transform_MonthlyOrderedChronologically(t *testing.T) {
	tr := NewTransformer(nil)
	rows := []domain.OrderRecord{
		orderRecord("ORD001", "A", "Cat", "C1", "North", 1, "10", "10", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		orderRecord("ORD002", "A", "Cat", "C1", "North", 1, "10", "10", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)),
		orderRecord("ORD003", "A", "Cat", "C2", "North", 1, "10", "10", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
	}

	_, set, _, err := tr.Transform(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, set.Monthly, 3)

	assert.Equal(t, 2023, set.Monthly[0].Year)
	assert.Equal(t, 12, set.Monthly[0].Month)
	assert.Equal(t, 2024, set.Monthly[1].Year)
	assert.Equal(t, 1, set.Monthly[1].Month)
	assert.Equal(t, 2, set.Monthly[2].Month)
}

func TestTransformer_Transform_CustomerSummary(t *testing.T) {
	tr := NewTransformer(nil)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.OrderRecord{
		orderRecord("ORD001", "A", "Alpha", "C1", "North", 2, "50", "100", day),
		orderRecord("ORD002", "B", "Beta", "C1", "North", 1, "30", "30", day.AddDate(0, 0, 1)),
		orderRecord("ORD003", "A", "Alpha", "C2", "South", 1, "50", "50", day.AddDate(0, 0, 2)),
	}

	_, set, _, err := tr.Transform(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, set.Customers, 2)

	c1 := set.Customers[0]
	assert.Equal(t, "C1", c1.CustomerID)
	assert.True(t, c1.TotalSpent.Equal(decimal.NewFromInt(130)))
	assert.Equal(t, 2, c1.TotalOrders)
	assert.Equal(t, 2, c1.UniqueProducts)
	assert.Equal(t, 2, c1.UniqueCategories)
	assert.True(t, c1.AvgOrderValue.Equal(decimal.NewFromInt(65)))
}

func TestTransformer_Transform_GlobalStats(t *testing.T) {
	tr := NewTransformer(nil)
	rows := []domain.OrderRecord{
		orderRecord("ORD001", "A", "Alpha", "C1", "North", 5, "10", "50", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		orderRecord("ORD002", "B", "Beta", "C2", "South", 2, "40", "80", time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)),
		orderRecord("ORD003", "B", "Beta", "C1", "South", 4, "40", "160", time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)),
	}

	_, _, stats, err := tr.Transform(context.Background(), rows)
	require.NoError(t, err)

	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(290)))
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 11, stats.TotalQuantity)
	assert.Equal(t, 2, stats.UniqueCustomers)
	assert.Equal(t, 2, stats.UniqueProducts)
	assert.Equal(t, 2, stats.UniqueCategories)
	assert.True(t, stats.AvgOrderValue.Equal(decimal.RequireFromString("96.67")), "got %s", stats.AvgOrderValue)
	assert.Equal(t, 20, stats.DateRangeDays)
	assert.Equal(t, "B", stats.MostPopularProduct)  // 6 vs 5 units
	assert.Equal(t, "Beta", stats.MostPopularCategory)
	assert.Equal(t, "South", stats.TopRegion)
}

func TestTransformer_Transform_TieBreaksLexicographically(t *testing.T) {
	tr := NewTransformer(nil)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.OrderRecord{
		orderRecord("ORD001", "Zebra", "Zeta", "C1", "West", 3, "10", "30", day),
		orderRecord("ORD002", "Apple", "Alpha", "C2", "East", 3, "10", "30", day),
	}

	_, _, stats, err := tr.Transform(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, "Apple", stats.MostPopularProduct)
	assert.Equal(t, "Alpha", stats.MostPopularCategory)
	assert.Equal(t, "East", stats.TopRegion)
}

func TestTransformer_Transform_Deterministic(t *testing.T) {
	tr := NewTransformer(nil)
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	var rows []domain.OrderRecord
	products := []string{"D", "B", "E", "A", "C"}
	for i, p := range products {
		rows = append(rows, orderRecord("ORD"+p, p, "Cat"+p, "C"+p, "R"+p, i+1, "10", "10", day.AddDate(0, 0, i)))
	}

	_, first, _, err := tr.Transform(context.Background(), rows)
	require.NoError(t, err)
	_, second, _, err := tr.Transform(context.Background(), rows)
	require.NoError(t, err)

	require.Equal(t, len(first.Products), len(second.Products))
	for i := range first.Products {
		assert.Equal(t, first.Products[i].ProductName, second.Products[i].ProductName)
	}
	// Sorted ascending by key.
	assert.Equal(t, "A", first.Products[0].ProductName)
	assert.Equal(t, "E", first.Products[4].ProductName)
}
