package store

import (
	"salespipe/pkg/contracts/domain"
)

// SalesRow is the relational shape of an enriched order. Dates are stored
// as ISO-8601 strings so SQLite MIN/MAX and comparisons work without a
// driver-specific date type.
type SalesRow struct {
	OrderID         string  `gorm:"column:order_id"`
	ProductName     string  `gorm:"column:product_name"`
	Category        string  `gorm:"column:category"`
	Quantity        int     `gorm:"column:quantity"`
	UnitPrice       float64 `gorm:"column:unit_price"`
	TotalAmount     float64 `gorm:"column:total_amount"`
	CustomerID      string  `gorm:"column:customer_id"`
	OrderDate       string  `gorm:"column:order_date"`
	Region          string  `gorm:"column:region"`
	Month           int     `gorm:"column:month"`
	Year            int     `gorm:"column:year"`
	DayOfWeek       string  `gorm:"column:day_of_week"`
	Quarter         int     `gorm:"column:quarter"`
	IsWeekend       bool    `gorm:"column:is_weekend"`
	RevenueSegment  string  `gorm:"column:revenue_segment"`
	QuantitySegment string  `gorm:"column:quantity_segment"`
}

// TableName implements the gorm table naming interface.
func (SalesRow) TableName() string { return "sales_data" }

func salesRowFrom(row domain.EnrichedOrder) SalesRow {
	return SalesRow{
		OrderID:         row.OrderID,
		ProductName:     row.ProductName,
		Category:        row.Category,
		Quantity:        row.Quantity,
		UnitPrice:       row.UnitPrice.InexactFloat64(),
		TotalAmount:     row.TotalAmount.InexactFloat64(),
		CustomerID:      row.CustomerID,
		OrderDate:       row.OrderDate.Format("2006-01-02"),
		Region:          row.Region,
		Month:           row.Month,
		Year:            row.Year,
		DayOfWeek:       row.DayOfWeek,
		Quarter:         row.Quarter,
		IsWeekend:       row.IsWeekend,
		RevenueSegment:  string(row.RevenueSegment),
		QuantitySegment: string(row.QuantitySegment),
	}
}

// ProductSummaryRow mirrors domain.ProductSummary in the store.
type ProductSummaryRow struct {
	ProductName       string  `gorm:"column:product_name"`
	TotalQuantitySold int     `gorm:"column:total_quantity_sold"`
	TotalRevenue      float64 `gorm:"column:total_revenue"`
	OrderCount        int     `gorm:"column:order_count"`
	AvgUnitPrice      float64 `gorm:"column:avg_unit_price"`
	AvgOrderValue     float64 `gorm:"column:avg_order_value"`
}

func (ProductSummaryRow) TableName() string { return "productsummary" }

// CategorySummaryRow mirrors domain.CategorySummary in the store.
type CategorySummaryRow struct {
	Category          string  `gorm:"column:category"`
	TotalQuantitySold int     `gorm:"column:total_quantity_sold"`
	TotalRevenue      float64 `gorm:"column:total_revenue"`
	OrderCount        int     `gorm:"column:order_count"`
	UniqueProducts    int     `gorm:"column:unique_products"`
	AvgOrderValue     float64 `gorm:"column:avg_order_value"`
}

func (CategorySummaryRow) TableName() string { return "categorysummary" }

// MonthlySummaryRow mirrors domain.MonthlySummary in the store.
type MonthlySummaryRow struct {
	Year            int     `gorm:"column:year"`
	Month           int     `gorm:"column:month"`
	MonthlyRevenue  float64 `gorm:"column:monthly_revenue"`
	MonthlyQuantity int     `gorm:"column:monthly_quantity"`
	MonthlyOrders   int     `gorm:"column:monthly_orders"`
	UniqueCustomers int     `gorm:"column:unique_customers"`
	AvgOrderValue   float64 `gorm:"column:avg_order_value"`
}

func (MonthlySummaryRow) TableName() string { return "monthlysales" }

// RegionSummaryRow mirrors domain.RegionSummary in the store.
type RegionSummaryRow struct {
	Region          string  `gorm:"column:region"`
	TotalRevenue    float64 `gorm:"column:total_revenue"`
	TotalQuantity   int     `gorm:"column:total_quantity"`
	TotalOrders     int     `gorm:"column:total_orders"`
	UniqueCustomers int     `gorm:"column:unique_customers"`
	UniqueProducts  int     `gorm:"column:unique_products"`
	AvgOrderValue   float64 `gorm:"column:avg_order_value"`
}

func (RegionSummaryRow) TableName() string { return "regionsummary" }

// CustomerSummaryRow mirrors domain.CustomerSummary in the store.
type CustomerSummaryRow struct {
	CustomerID       string  `gorm:"column:customer_id"`
	TotalSpent       float64 `gorm:"column:total_spent"`
	TotalQuantity    int     `gorm:"column:total_quantity"`
	TotalOrders      int     `gorm:"column:total_orders"`
	UniqueProducts   int     `gorm:"column:unique_products"`
	UniqueCategories int     `gorm:"column:unique_categories"`
	AvgOrderValue    float64 `gorm:"column:avg_order_value"`
}

func (CustomerSummaryRow) TableName() string { return "customersummary" }
