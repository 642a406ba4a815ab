package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"salespipe/internal/store"
)

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "sales_analysis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(db) })

	require.NoError(t, db.AutoMigrate(&store.SalesRow{}))
	rows := []store.SalesRow{
		{OrderID: "ORD001", ProductName: "Laptop", Category: "Electronics", Quantity: 1, UnitPrice: 900, TotalAmount: 900, CustomerID: "C1", OrderDate: "2024-01-05", Region: "North", Month: 1, Year: 2024},
		{OrderID: "ORD002", ProductName: "Mouse", Category: "Electronics", Quantity: 4, UnitPrice: 25, TotalAmount: 100, CustomerID: "C2", OrderDate: "2024-02-10", Region: "South", Month: 2, Year: 2024},
		{OrderID: "ORD003", ProductName: "Desk", Category: "Furniture", Quantity: 1, UnitPrice: 150, TotalAmount: 150, CustomerID: "C1", OrderDate: "2024-02-20", Region: "North", Month: 2, Year: 2024},
		{OrderID: "ORD004", ProductName: "Chair", Category: "Furniture", Quantity: 2, UnitPrice: 75, TotalAmount: 150, CustomerID: "C3", OrderDate: "2023-12-15", Region: "East", Month: 12, Year: 2023},
	}
	require.NoError(t, db.Create(&rows).Error)
	return db
}

func TestMetricsService_OverallStats(t *testing.T) {
	svc := NewMetricsService(seededDB(t), nil)

	stats, err := svc.OverallStats(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1300.0, stats.TotalRevenue, 0.001)
	assert.Equal(t, 4, stats.TotalOrders)
	assert.Equal(t, 8, stats.TotalQuantity)
	assert.Equal(t, 3, stats.UniqueCustomers)
	assert.Equal(t, 4, stats.UniqueProducts)
	assert.Equal(t, 2, stats.UniqueCategories)
	assert.InDelta(t, 325.0, stats.AvgOrderValue, 0.001)
	assert.Equal(t, "2023-12-15", stats.FirstOrderDate)
	assert.Equal(t, "2024-02-20", stats.LastOrderDate)
}

func TestMetricsService_MonthlyData(t *testing.T) {
	svc := NewMetricsService(seededDB(t), nil)

	rows, err := svc.MonthlyData(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Chronological order, zero-padded labels.
	assert.Equal(t, "2023-12", rows[0].MonthYear)
	assert.Equal(t, "2024-01", rows[1].MonthYear)
	assert.Equal(t, "2024-02", rows[2].MonthYear)
	assert.InDelta(t, 250.0, rows[2].MonthlyRevenue, 0.001)
	assert.Equal(t, 2, rows[2].MonthlyOrders)
	assert.Equal(t, 2, rows[2].UniqueCustomers)
}

func TestMetricsService_CategoryData(t *testing.T) {
	svc := NewMetricsService(seededDB(t), nil)

	rows, err := svc.CategoryData(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Electronics", rows[0].Category)
	assert.InDelta(t, 1000.0, rows[0].CategoryRevenue, 0.001)
	assert.Equal(t, 2, rows[0].UniqueProducts)
	assert.Equal(t, "Furniture", rows[1].Category)
}

func TestMetricsService_RegionData(t *testing.T) {
	svc := NewMetricsService(seededDB(t), nil)

	rows, err := svc.RegionData(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "North", rows[0].Region)
	assert.InDelta(t, 1050.0, rows[0].RegionRevenue, 0.001)
	assert.Equal(t, 1, rows[0].UniqueCustomers)
}

func TestMetricsService_TopProducts(t *testing.T) {
	svc := NewMetricsService(seededDB(t), nil)

	t.Run("respects limit", func(t *testing.T) {
		rows, err := svc.TopProducts(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Laptop", rows[0].ProductName)
	})

	t.Run("revenue tie breaks on name", func(t *testing.T) {
		rows, err := svc.TopProducts(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, rows, 4)
		// Chair and Desk both sum to 150.
		assert.Equal(t, "Chair", rows[2].ProductName)
		assert.Equal(t, "Desk", rows[3].ProductName)
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		rows, err := svc.TopProducts(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, rows, 4)
	})
}

func TestMetricsService_CustomerAnalysis(t *testing.T) {
	svc := NewMetricsService(seededDB(t), nil)

	rows, err := svc.CustomerAnalysis(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "C1", rows[0].CustomerID)
	assert.InDelta(t, 1050.0, rows[0].TotalSpent, 0.001)
	assert.Equal(t, 2, rows[0].UniqueProducts)
	assert.Equal(t, 2, rows[0].UniqueCategories)
}

func TestMetricsService_CompleteData(t *testing.T) {
	svc := NewMetricsService(seededDB(t), nil)
	svc.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}

	data, err := svc.CompleteData(context.Background())
	require.NoError(t, err)
	require.NotNil(t, data.Stats)
	assert.Equal(t, 4, data.Stats.TotalOrders)
	assert.Len(t, data.Monthly, 3)
	assert.Len(t, data.Categories, 2)
	assert.Len(t, data.Regions, 3)
	assert.Len(t, data.TopProducts, 4)
	assert.Len(t, data.Customers, 3)
	assert.Equal(t, "2024-06-01T12:00:00Z", data.Timestamp)
}

func TestMetricsService_EmptyDatabase(t *testing.T) {
	db := seededDB(t)
	require.NoError(t, db.Exec("DELETE FROM sales_data").Error)
	svc := NewMetricsService(db, nil)

	stats, err := svc.OverallStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRevenue)
	assert.Zero(t, stats.TotalOrders)

	monthly, err := svc.MonthlyData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, monthly)
}
