package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apierrors "salespipe/internal/errors"
	"salespipe/internal/middleware"
)

// RouterConfig carries the dependencies and tunables of the query router.
type RouterConfig struct {
	Metrics      MetricsReader
	Health       HealthChecker
	Logger       *slog.Logger
	RateLimitRPS float64
	RateBurst    int
	Registry     *prometheus.Registry
}

// NewRouter assembles the full middleware chain and route table.
func NewRouter(cfg RouterConfig) chi.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 200
	}

	errorHandler := apierrors.NewErrorHandler(logger)
	httpMetrics := middleware.NewHTTPMetrics(registry)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateBurst, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(httpMetrics.Handler)
	r.Use(rateLimiter.Handler)

	metricsHandler := NewMetricsHandler(cfg.Metrics, logger, errorHandler)
	healthHandler := NewHealthHandler(cfg.Health, logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", metricsHandler.Routes())
		r.Get("/health", healthHandler.GetHealth)
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"Endpoint not found"}`))
	})

	return r
}
