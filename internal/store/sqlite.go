// Package store persists enriched rows and summaries into the SQLite
// analysis database and hands out read connections for the query surface.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"salespipe/pkg/contracts/domain"
)

// insertBatchSize bounds the multi-row INSERT statements; SQLite limits the
// number of bound variables per statement.
const insertBatchSize = 50

// secondaryIndexes keep the query surface's filtered and grouped reads off
// full table scans. Names are stable so re-runs replace rather than
// accumulate.
var secondaryIndexes = map[string]string{
	"idx_order_date":   "order_date",
	"idx_product_name": "product_name",
	"idx_category":     "category",
	"idx_region":       "region",
	"idx_customer_id":  "customer_id",
}

// Open opens the SQLite database at the given path with a silenced gorm
// logger; the application logs through slog instead.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return db, nil
}

// Close closes the underlying connection of a gorm handle.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Loader writes the full enriched row set and all five summaries into the
// relational store, replacing whatever a prior run left behind.
type Loader struct {
	logger *slog.Logger
	dbPath string
}

// NewLoader creates a loader targeting the given database file.
func NewLoader(logger *slog.Logger, dbPath string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger.With(slog.String("component", "store_loader")),
		dbPath: dbPath,
	}
}

// Load replaces all tables and rebuilds the secondary indexes. Re-running
// with identical input produces an equivalent database.
func (l *Loader) Load(ctx context.Context, rows []domain.EnrichedOrder, set domain.SummarySet) error {
	db, err := Open(l.dbPath)
	if err != nil {
		return err
	}
	defer Close(db)

	models := []interface{}{
		&SalesRow{},
		&ProductSummaryRow{},
		&CategorySummaryRow{},
		&MonthlySummaryRow{},
		&RegionSummaryRow{},
		&CustomerSummaryRow{},
	}
	for _, model := range models {
		if err := db.Migrator().DropTable(model); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	salesRows := make([]SalesRow, len(rows))
	for i, row := range rows {
		salesRows[i] = salesRowFrom(row)
	}
	if len(salesRows) > 0 {
		if err := db.WithContext(ctx).CreateInBatches(salesRows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to load sales_data: %w", err)
		}
	}
	l.logger.InfoContext(ctx, "loaded sales_data table", slog.Int("rows", len(salesRows)))

	if err := l.loadSummaries(ctx, db, set); err != nil {
		return err
	}

	for name, column := range secondaryIndexes {
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON sales_data(%s)", name, column)
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
	}
	l.logger.InfoContext(ctx, "database loaded",
		slog.String("path", l.dbPath),
		slog.Int("indexes", len(secondaryIndexes)))

	return nil
}

func (l *Loader) loadSummaries(ctx context.Context, db *gorm.DB, set domain.SummarySet) error {
	products := make([]ProductSummaryRow, len(set.Products))
	for i, s := range set.Products {
		products[i] = ProductSummaryRow{
			ProductName:       s.ProductName,
			TotalQuantitySold: s.TotalQuantitySold,
			TotalRevenue:      s.TotalRevenue.InexactFloat64(),
			OrderCount:        s.OrderCount,
			AvgUnitPrice:      s.AvgUnitPrice.InexactFloat64(),
			AvgOrderValue:     s.AvgOrderValue.InexactFloat64(),
		}
	}

	categories := make([]CategorySummaryRow, len(set.Categories))
	for i, s := range set.Categories {
		categories[i] = CategorySummaryRow{
			Category:          s.Category,
			TotalQuantitySold: s.TotalQuantitySold,
			TotalRevenue:      s.TotalRevenue.InexactFloat64(),
			OrderCount:        s.OrderCount,
			UniqueProducts:    s.UniqueProducts,
			AvgOrderValue:     s.AvgOrderValue.InexactFloat64(),
		}
	}

	monthly := make([]MonthlySummaryRow, len(set.Monthly))
	for i, s := range set.Monthly {
		monthly[i] = MonthlySummaryRow{
			Year:            s.Year,
			Month:           s.Month,
			MonthlyRevenue:  s.MonthlyRevenue.InexactFloat64(),
			MonthlyQuantity: s.MonthlyQuantity,
			MonthlyOrders:   s.MonthlyOrders,
			UniqueCustomers: s.UniqueCustomers,
			AvgOrderValue:   s.AvgOrderValue.InexactFloat64(),
		}
	}

	regions := make([]RegionSummaryRow, len(set.Regions))
	for i, s := range set.Regions {
		regions[i] = RegionSummaryRow{
			Region:          s.Region,
			TotalRevenue:    s.TotalRevenue.InexactFloat64(),
			TotalQuantity:   s.TotalQuantity,
			TotalOrders:     s.TotalOrders,
			UniqueCustomers: s.UniqueCustomers,
			UniqueProducts:  s.UniqueProducts,
			AvgOrderValue:   s.AvgOrderValue.InexactFloat64(),
		}
	}

	customers := make([]CustomerSummaryRow, len(set.Customers))
	for i, s := range set.Customers {
		customers[i] = CustomerSummaryRow{
			CustomerID:       s.CustomerID,
			TotalSpent:       s.TotalSpent.InexactFloat64(),
			TotalQuantity:    s.TotalQuantity,
			TotalOrders:      s.TotalOrders,
			UniqueProducts:   s.UniqueProducts,
			UniqueCategories: s.UniqueCategories,
			AvgOrderValue:    s.AvgOrderValue.InexactFloat64(),
		}
	}

	inserts := []struct {
		name string
		rows interface{}
		size int
	}{
		{"productsummary", products, len(products)},
		{"categorysummary", categories, len(categories)},
		{"monthlysales", monthly, len(monthly)},
		{"regionsummary", regions, len(regions)},
		{"customersummary", customers, len(customers)},
	}
	for _, ins := range inserts {
		if ins.size == 0 {
			continue
		}
		if err := db.WithContext(ctx).CreateInBatches(ins.rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to load %s: %w", ins.name, err)
		}
		l.logger.InfoContext(ctx, "loaded summary table",
			slog.String("table", ins.name),
			slog.Int("rows", ins.size))
	}
	return nil
}
