package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawOrder is a single row of the source file before any cleaning.
// Every cell is kept as the string the reader produced; empty or
// placeholder cells are represented by the empty string.
type RawOrder struct {
	OrderID     string `json:"order_id"`
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalAmount string `json:"total_amount"`
	CustomerID  string `json:"customer_id"`
	OrderDate   string `json:"order_date"`
	Region      string `json:"region"`
}

// RequiredColumns lists the source columns that must be present for a
// pipeline run to proceed. A missing column is a fatal precondition error.
var RequiredColumns = []string{
	"order_id",
	"product_name",
	"category",
	"quantity",
	"unit_price",
	"total_amount",
	"customer_id",
	"order_date",
	"region",
}

// OrderRecord is a cleaned, typed order row. Month and Year are derived
// from OrderDate during cleaning; the remaining enrichment fields are added
// by the transformer.
type OrderRecord struct {
	OrderID     string          `json:"order_id" csv:"order_id"`
	ProductName string          `json:"product_name" csv:"product_name"`
	Category    string          `json:"category" csv:"category"`
	Quantity    int             `json:"quantity" csv:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" csv:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount" csv:"total_amount"`
	CustomerID  string          `json:"customer_id" csv:"customer_id"`
	OrderDate   time.Time       `json:"order_date" csv:"order_date"`
	Region      string          `json:"region" csv:"region"`
	Month       int             `json:"month" csv:"month"`
	Year        int             `json:"year" csv:"year"`
}

// RevenueSegment labels an order by its total amount.
type RevenueSegment string

const (
	RevenueSegmentLow      RevenueSegment = "Low"
	RevenueSegmentMedium   RevenueSegment = "Medium"
	RevenueSegmentHigh     RevenueSegment = "High"
	RevenueSegmentVeryHigh RevenueSegment = "Very High"
)

// QuantitySegment labels an order by the number of items it contains.
type QuantitySegment string

const (
	QuantitySegmentSingle QuantitySegment = "Single"
	QuantitySegmentSmall  QuantitySegment = "Small"
	QuantitySegmentMedium QuantitySegment = "Medium"
	QuantitySegmentLarge  QuantitySegment = "Large"
)

// EnrichedOrder is a cleaned order plus the derived calendar and segment
// fields. Enriched rows are what the loader persists and what every summary
// is computed from.
type EnrichedOrder struct {
	OrderRecord

	DayOfWeek       string          `json:"day_of_week" csv:"day_of_week"`
	Quarter         int             `json:"quarter" csv:"quarter"`
	IsWeekend       bool            `json:"is_weekend" csv:"is_weekend"`
	RevenueSegment  RevenueSegment  `json:"revenue_segment" csv:"revenue_segment"`
	QuantitySegment QuantitySegment `json:"quantity_segment" csv:"quantity_segment"`
}

// SegmentForRevenue maps a total amount onto its revenue segment. Bin edges
// are upper-inclusive with zero folded into the lowest bin.
func SegmentForRevenue(amount decimal.Decimal) RevenueSegment {
	switch {
	case amount.LessThanOrEqual(decimal.NewFromInt(100)):
		return RevenueSegmentLow
	case amount.LessThanOrEqual(decimal.NewFromInt(500)):
		return RevenueSegmentMedium
	case amount.LessThanOrEqual(decimal.NewFromInt(1000)):
		return RevenueSegmentHigh
	default:
		return RevenueSegmentVeryHigh
	}
}

// SegmentForQuantity maps an item count onto its quantity segment.
func SegmentForQuantity(quantity int) QuantitySegment {
	switch {
	case quantity <= 1:
		return QuantitySegmentSingle
	case quantity <= 3:
		return QuantitySegmentSmall
	case quantity <= 5:
		return QuantitySegmentMedium
	default:
		return QuantitySegmentLarge
	}
}
