package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"salespipe/internal/config"
	"salespipe/internal/store"
	"salespipe/pkg/contracts/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seededDB(t *testing.T) (*gorm.DB, *config.Paths) {
	t.Helper()
	base := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{
		DataDir:      filepath.Join(base, "data"),
		WarehouseDir: filepath.Join(base, "data_warehouse"),
		DatabaseFile: filepath.Join(base, "sales_analysis.db"),
		ChartsDir:    filepath.Join(base, "charts"),
	})

	db, err := store.Open(paths.DatabaseFile())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(db) })

	require.NoError(t, db.AutoMigrate(&store.SalesRow{}))
	rows := []store.SalesRow{
		{OrderID: "ORD001", ProductName: "Laptop", Category: "Electronics", Quantity: 1, UnitPrice: 900, TotalAmount: 900, CustomerID: "C1", OrderDate: "2024-01-05", Region: "North", Month: 1, Year: 2024},
		{OrderID: "ORD002", ProductName: "Mouse", Category: "Electronics", Quantity: 2, UnitPrice: 25, TotalAmount: 50, CustomerID: "C2", OrderDate: "2024-02-10", Region: "South", Month: 2, Year: 2024},
		{OrderID: "ORD003", ProductName: "Desk", Category: "Furniture", Quantity: 1, UnitPrice: 150, TotalAmount: 150, CustomerID: "C1", OrderDate: "2024-02-20", Region: "North", Month: 2, Year: 2024},
	}
	require.NoError(t, db.Create(&rows).Error)
	return db, paths
}

func TestReportBuilder_Build(t *testing.T) {
	db, paths := seededDB(t)
	b := NewReportBuilder(db, paths, nil)
	b.now = func() time.Time {
		return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	}

	report, err := b.Build(context.Background())
	require.NoError(t, err)

	stats := report.OverallStatistics
	assert.Equal(t, 3, stats.TotalOrders)
	assert.InDelta(t, 1100.0, stats.TotalRevenue, 0.001)
	assert.Equal(t, 4, stats.TotalQuantity)
	assert.Equal(t, 2, stats.UniqueCustomers)
	assert.Equal(t, 3, stats.UniqueProducts)
	assert.Equal(t, 2, stats.UniqueCategories)
	assert.Equal(t, "2024-01-05", stats.FirstOrderDate)
	assert.Equal(t, "2024-02-20", stats.LastOrderDate)

	require.NotEmpty(t, report.TopProducts)
	assert.Equal(t, "Laptop", report.TopProducts[0].ProductName)
	require.Len(t, report.TopCategories, 2)
	assert.Equal(t, "Electronics", report.TopCategories[0].Category)
	require.Len(t, report.TopRegions, 2)
	assert.Equal(t, "North", report.TopRegions[0].Region)
	assert.Equal(t, "2024-06-01T00:00:00Z", report.AnalysisDate)

	data, err := os.ReadFile(paths.ReportFile())
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Contains(t, onDisk, "overall_statistics")
	assert.Contains(t, onDisk, "top_products")
}

func TestReportBuilder_Build_EmptyTable(t *testing.T) {
	db, paths := seededDB(t)
	require.NoError(t, db.Exec("DELETE FROM sales_data").Error)

	report, err := NewReportBuilder(db, paths, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.OverallStatistics.TotalOrders)
	assert.Zero(t, report.OverallStatistics.TotalRevenue)
	assert.Empty(t, report.TopProducts)
}

func TestReport_WriteSummary(t *testing.T) {
	report := &Report{
		OverallStatistics: OverallStatistics{
			TotalOrders:  3,
			TotalRevenue: 1100,
		},
		TopProducts:  []ProductRevenue{{ProductName: "Laptop", Revenue: 900}},
		AnalysisDate: "2024-06-01T00:00:00Z",
	}

	var buf bytes.Buffer
	report.WriteSummary(&buf)

	out := buf.String()
	assert.Contains(t, out, "E-COMMERCE SALES DATA ANALYSIS REPORT")
	assert.Contains(t, out, "Total Revenue: $1100.00")
	assert.Contains(t, out, "1. Laptop: $900.00")
}

func TestChartRenderer_RenderAll(t *testing.T) {
	_, paths := seededDB(t)
	r := NewChartRenderer(paths, nil)

	set := domain.SummarySet{
		Products:   []domain.ProductSummary{{ProductName: "Laptop", TotalRevenue: dec("900")}},
		Categories: []domain.CategorySummary{{Category: "Electronics", TotalRevenue: dec("950")}},
		Regions:    []domain.RegionSummary{{Region: "North", TotalRevenue: dec("1050")}},
		Monthly: []domain.MonthlySummary{
			{Year: 2024, Month: 1, MonthlyRevenue: dec("900")},
			{Year: 2024, Month: 2, MonthlyRevenue: dec("200")},
		},
	}
	require.NoError(t, r.RenderAll(set))

	for _, name := range []string{
		config.TopProductsChartName,
		config.RevenueChartName,
		config.MonthlyTrendsChartName,
	} {
		info, err := os.Stat(paths.ChartFile(name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestChartRenderer_EmptySummaries(t *testing.T) {
	_, paths := seededDB(t)
	r := NewChartRenderer(paths, nil)

	require.NoError(t, r.RenderAll(domain.SummarySet{}))
	_, err := os.Stat(paths.ChartFile(config.TopProductsChartName))
	assert.NoError(t, err)
}
