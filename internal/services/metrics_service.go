package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// defaultTopProductsLimit is used when a caller passes a non-positive limit.
const defaultTopProductsLimit = 10

// OverallStats is the single-row rollup served by the stats endpoint.
type OverallStats struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TotalOrders      int     `json:"total_orders"`
	TotalQuantity    int     `json:"total_quantity"`
	UniqueCustomers  int     `json:"unique_customers"`
	UniqueProducts   int     `json:"unique_products"`
	UniqueCategories int     `json:"unique_categories"`
	AvgOrderValue    float64 `json:"avg_order_value"`
	FirstOrderDate   string  `json:"first_order_date"`
	LastOrderDate    string  `json:"last_order_date"`
}

// MonthlyMetrics is one calendar month of the monthly endpoint.
type MonthlyMetrics struct {
	MonthYear       string  `json:"month_year"`
	MonthlyRevenue  float64 `json:"monthly_revenue"`
	MonthlyOrders   int     `json:"monthly_orders"`
	MonthlyQuantity int     `json:"monthly_quantity"`
	UniqueCustomers int     `json:"unique_customers"`
}

// CategoryMetrics is one category of the categories endpoint.
type CategoryMetrics struct {
	Category         string  `json:"category"`
	CategoryRevenue  float64 `json:"category_revenue"`
	CategoryQuantity int     `json:"category_quantity"`
	CategoryOrders   int     `json:"category_orders"`
	UniqueProducts   int     `json:"unique_products"`
}

// RegionMetrics is one region of the regions endpoint.
type RegionMetrics struct {
	Region          string  `json:"region"`
	RegionRevenue   float64 `json:"region_revenue"`
	RegionQuantity  int     `json:"region_quantity"`
	RegionOrders    int     `json:"region_orders"`
	UniqueCustomers int     `json:"unique_customers"`
}

// ProductMetrics is one product of the top-products endpoint.
type ProductMetrics struct {
	ProductName   string  `json:"product_name"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalQuantity int     `json:"total_quantity"`
	OrderCount    int     `json:"order_count"`
	AvgUnitPrice  float64 `json:"avg_unit_price"`
}

// CustomerMetrics is one customer of the customers endpoint.
type CustomerMetrics struct {
	CustomerID       string  `json:"customer_id"`
	TotalSpent       float64 `json:"total_spent"`
	TotalQuantity    int     `json:"total_quantity"`
	TotalOrders      int     `json:"total_orders"`
	UniqueProducts   int     `json:"unique_products"`
	UniqueCategories int     `json:"unique_categories"`
}

// CompleteData bundles every metric view into one payload.
type CompleteData struct {
	Stats       *OverallStats     `json:"stats"`
	Monthly     []MonthlyMetrics  `json:"monthly"`
	Categories  []CategoryMetrics `json:"categories"`
	Regions     []RegionMetrics   `json:"regions"`
	TopProducts []ProductMetrics  `json:"top_products"`
	Customers   []CustomerMetrics `json:"customers"`
	Timestamp   string            `json:"timestamp"`
}

const (
	statsQuery = `
		SELECT
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COUNT(*) AS total_orders,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COUNT(DISTINCT customer_id) AS unique_customers,
			COUNT(DISTINCT product_name) AS unique_products,
			COUNT(DISTINCT category) AS unique_categories,
			COALESCE(AVG(total_amount), 0) AS avg_order_value,
			COALESCE(MIN(order_date), '') AS first_order_date,
			COALESCE(MAX(order_date), '') AS last_order_date
		FROM sales_data`

	monthlyQuery = `
		SELECT
			year || '-' || printf('%02d', month) AS month_year,
			SUM(total_amount) AS monthly_revenue,
			COUNT(*) AS monthly_orders,
			SUM(quantity) AS monthly_quantity,
			COUNT(DISTINCT customer_id) AS unique_customers
		FROM sales_data
		GROUP BY year, month
		ORDER BY year, month`

	categoriesQuery = `
		SELECT
			category,
			SUM(total_amount) AS category_revenue,
			SUM(quantity) AS category_quantity,
			COUNT(*) AS category_orders,
			COUNT(DISTINCT product_name) AS unique_products
		FROM sales_data
		GROUP BY category
		ORDER BY category_revenue DESC, category ASC`

	regionsQuery = `
		SELECT
			region,
			SUM(total_amount) AS region_revenue,
			SUM(quantity) AS region_quantity,
			COUNT(*) AS region_orders,
			COUNT(DISTINCT customer_id) AS unique_customers
		FROM sales_data
		GROUP BY region
		ORDER BY region_revenue DESC, region ASC`

	topProductsQuery = `
		SELECT
			product_name,
			SUM(total_amount) AS total_revenue,
			SUM(quantity) AS total_quantity,
			COUNT(*) AS order_count,
			AVG(unit_price) AS avg_unit_price
		FROM sales_data
		GROUP BY product_name
		ORDER BY total_revenue DESC, product_name ASC
		LIMIT ?`

	customersQuery = `
		SELECT
			customer_id,
			SUM(total_amount) AS total_spent,
			SUM(quantity) AS total_quantity,
			COUNT(*) AS total_orders,
			COUNT(DISTINCT product_name) AS unique_products,
			COUNT(DISTINCT category) AS unique_categories
		FROM sales_data
		GROUP BY customer_id
		ORDER BY total_spent DESC, customer_id ASC
		LIMIT 10`
)

// MetricsService serves aggregated metrics from the analysis database.
type MetricsService struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewMetricsService creates a metrics service over an open database handle.
func NewMetricsService(db *gorm.DB, logger *slog.Logger) *MetricsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsService{
		db:     db,
		logger: logger.With(slog.String("service", "metrics")),
		now:    time.Now,
	}
}

// OverallStats returns the whole-dataset rollup.
func (s *MetricsService) OverallStats(ctx context.Context) (*OverallStats, error) {
	var stats OverallStats
	if err := s.db.WithContext(ctx).Raw(statsQuery).Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}
	return &stats, nil
}

// MonthlyData returns per-month metrics in chronological order.
func (s *MetricsService) MonthlyData(ctx context.Context) ([]MonthlyMetrics, error) {
	var rows []MonthlyMetrics
	if err := s.db.WithContext(ctx).Raw(monthlyQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query monthly data: %w", err)
	}
	return rows, nil
}

// CategoryData returns per-category metrics ordered by revenue descending.
func (s *MetricsService) CategoryData(ctx context.Context) ([]CategoryMetrics, error) {
	var rows []CategoryMetrics
	if err := s.db.WithContext(ctx).Raw(categoriesQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query category data: %w", err)
	}
	return rows, nil
}

// RegionData returns per-region metrics ordered by revenue descending.
func (s *MetricsService) RegionData(ctx context.Context) ([]RegionMetrics, error) {
	var rows []RegionMetrics
	if err := s.db.WithContext(ctx).Raw(regionsQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query region data: %w", err)
	}
	return rows, nil
}

// TopProducts returns the highest-revenue products. A non-positive limit
// falls back to the default of 10.
func (s *MetricsService) TopProducts(ctx context.Context, limit int) ([]ProductMetrics, error) {
	if limit <= 0 {
		limit = defaultTopProductsLimit
	}
	var rows []ProductMetrics
	if err := s.db.WithContext(ctx).Raw(topProductsQuery, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return rows, nil
}

// CustomerAnalysis returns the ten highest-spending customers.
func (s *MetricsService) CustomerAnalysis(ctx context.Context) ([]CustomerMetrics, error) {
	var rows []CustomerMetrics
	if err := s.db.WithContext(ctx).Raw(customersQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query customer analysis: %w", err)
	}
	return rows, nil
}

// CompleteData assembles every view into one payload. The first failing
// query aborts the assembly.
func (s *MetricsService) CompleteData(ctx context.Context) (*CompleteData, error) {
	stats, err := s.OverallStats(ctx)
	if err != nil {
		return nil, err
	}
	monthly, err := s.MonthlyData(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.CategoryData(ctx)
	if err != nil {
		return nil, err
	}
	regions, err := s.RegionData(ctx)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.TopProducts(ctx, defaultTopProductsLimit)
	if err != nil {
		return nil, err
	}
	customers, err := s.CustomerAnalysis(ctx)
	if err != nil {
		return nil, err
	}

	return &CompleteData{
		Stats:       stats,
		Monthly:     monthly,
		Categories:  categories,
		Regions:     regions,
		TopProducts: topProducts,
		Customers:   customers,
		Timestamp:   s.now().Format(time.RFC3339),
	}, nil
}
