package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// isoDateLayout is the date format used in every file artifact.
const isoDateLayout = "2006-01-02"

// formatMoney renders a monetary value with exactly two decimal places so
// that 13.4 appears as 13.40 in CSV output.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

func formatDate(t time.Time) string {
	return t.Format(isoDateLayout)
}
