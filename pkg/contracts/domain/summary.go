package domain

import (
	"github.com/shopspring/decimal"
)

// Monetary fields marshal as bare JSON numbers so that file artifacts and
// API payloads carry numeric amounts rather than quoted strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductSummary aggregates orders by product name.
type ProductSummary struct {
	ProductName       string          `json:"product_name" csv:"product_name"`
	TotalQuantitySold int             `json:"total_quantity_sold" csv:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue" csv:"total_revenue"`
	OrderCount        int             `json:"order_count" csv:"order_count"`
	AvgUnitPrice      decimal.Decimal `json:"avg_unit_price" csv:"avg_unit_price"`
	AvgOrderValue     decimal.Decimal `json:"avg_order_value" csv:"avg_order_value"`
}

// CategorySummary aggregates orders by category.
type CategorySummary struct {
	Category          string          `json:"category" csv:"category"`
	TotalQuantitySold int             `json:"total_quantity_sold" csv:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue" csv:"total_revenue"`
	OrderCount        int             `json:"order_count" csv:"order_count"`
	UniqueProducts    int             `json:"unique_products" csv:"unique_products"`
	AvgOrderValue     decimal.Decimal `json:"avg_order_value" csv:"avg_order_value"`
}

// MonthlySummary aggregates orders by calendar month.
type MonthlySummary struct {
	Year            int             `json:"year" csv:"year"`
	Month           int             `json:"month" csv:"month"`
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue" csv:"monthly_revenue"`
	MonthlyQuantity int             `json:"monthly_quantity" csv:"monthly_quantity"`
	MonthlyOrders   int             `json:"monthly_orders" csv:"monthly_orders"`
	UniqueCustomers int             `json:"unique_customers" csv:"unique_customers"`
	AvgOrderValue   decimal.Decimal `json:"avg_order_value" csv:"avg_order_value"`
}

// RegionSummary aggregates orders by region.
type RegionSummary struct {
	Region          string          `json:"region" csv:"region"`
	TotalRevenue    decimal.Decimal `json:"total_revenue" csv:"total_revenue"`
	TotalQuantity   int             `json:"total_quantity" csv:"total_quantity"`
	TotalOrders     int             `json:"total_orders" csv:"total_orders"`
	UniqueCustomers int             `json:"unique_customers" csv:"unique_customers"`
	UniqueProducts  int             `json:"unique_products" csv:"unique_products"`
	AvgOrderValue   decimal.Decimal `json:"avg_order_value" csv:"avg_order_value"`
}

// CustomerSummary aggregates orders by customer.
type CustomerSummary struct {
	CustomerID       string          `json:"customer_id" csv:"customer_id"`
	TotalSpent       decimal.Decimal `json:"total_spent" csv:"total_spent"`
	TotalQuantity    int             `json:"total_quantity" csv:"total_quantity"`
	TotalOrders      int             `json:"total_orders" csv:"total_orders"`
	UniqueProducts   int             `json:"unique_products" csv:"unique_products"`
	UniqueCategories int             `json:"unique_categories" csv:"unique_categories"`
	AvgOrderValue    decimal.Decimal `json:"avg_order_value" csv:"avg_order_value"`
}

// SummarySet bundles the five grouped summaries produced by a single
// transform pass. Each slice is sorted ascending by its group key so that
// repeated runs over the same input produce identical output.
type SummarySet struct {
	Products   []ProductSummary  `json:"products"`
	Categories []CategorySummary `json:"categories"`
	Monthly    []MonthlySummary  `json:"monthly"`
	Regions    []RegionSummary   `json:"regions"`
	Customers  []CustomerSummary `json:"customers"`
}

// GlobalStats is the single-row rollup over the whole enriched row set.
type GlobalStats struct {
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalOrders         int             `json:"total_orders"`
	TotalQuantity       int             `json:"total_quantity"`
	UniqueCustomers     int             `json:"unique_customers"`
	UniqueProducts      int             `json:"unique_products"`
	UniqueCategories    int             `json:"unique_categories"`
	AvgOrderValue       decimal.Decimal `json:"avg_order_value"`
	DateRangeDays       int             `json:"date_range_days"`
	MostPopularProduct  string          `json:"most_popular_product"`
	MostPopularCategory string          `json:"most_popular_category"`
	TopRegion           string          `json:"top_region"`
}
