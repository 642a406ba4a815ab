package http

import (
	"context"

	"salespipe/internal/services"
)

// MetricsReader is the slice of the metrics service the handlers use.
type MetricsReader interface {
	OverallStats(ctx context.Context) (*services.OverallStats, error)
	MonthlyData(ctx context.Context) ([]services.MonthlyMetrics, error)
	CategoryData(ctx context.Context) ([]services.CategoryMetrics, error)
	RegionData(ctx context.Context) ([]services.RegionMetrics, error)
	TopProducts(ctx context.Context, limit int) ([]services.ProductMetrics, error)
	CustomerAnalysis(ctx context.Context) ([]services.CustomerMetrics, error)
	CompleteData(ctx context.Context) (*services.CompleteData, error)
}

// HealthChecker probes the backing store.
type HealthChecker interface {
	Check(ctx context.Context) services.HealthStatus
}
