package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salespipe/internal/errors"
)

// MetricsHandler serves the aggregated metric endpoints.
type MetricsHandler struct {
	service      MetricsReader
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler creates a handler over the metrics service.
func NewMetricsHandler(service MetricsReader, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "metrics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the metric routes.
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/stats", h.GetStats)
	r.Get("/monthly", h.GetMonthly)
	r.Get("/categories", h.GetCategories)
	r.Get("/regions", h.GetRegions)
	r.Get("/top-products", h.GetTopProducts)
	r.Get("/customers", h.GetCustomers)
	r.Get("/complete-data", h.GetCompleteData)

	return r
}

// handleServiceError forwards errors that already carry an API shape and
// wraps everything else as a query failure.
func (h *MetricsHandler) handleServiceError(w http.ResponseWriter, r *http.Request, view string, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}
	h.errorHandler.HandleError(w, r, apierrors.QueryFailed(view, err))
}

// GetStats serves the whole-dataset rollup.
func (h *MetricsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.OverallStats(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "overall stats", err)
		return
	}
	renderData(w, r, stats)
}

// GetMonthly serves per-month metrics in chronological order.
func (h *MetricsHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.MonthlyData(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "monthly data", err)
		return
	}
	renderData(w, r, rows)
}

// GetCategories serves per-category metrics.
func (h *MetricsHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.CategoryData(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "category data", err)
		return
	}
	renderData(w, r, rows)
}

// GetRegions serves per-region metrics.
func (h *MetricsHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.RegionData(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "region data", err)
		return
	}
	renderData(w, r, rows)
}

// GetTopProducts serves the highest-revenue products. The limit query
// parameter bounds the result; anything unparseable or non-positive falls
// back to the default.
func (h *MetricsHandler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("limit", "must be an integer"))
			return
		}
		limit = parsed
	}

	rows, err := h.service.TopProducts(r.Context(), limit)
	if err != nil {
		h.handleServiceError(w, r, "top products", err)
		return
	}
	renderData(w, r, rows)
}

// GetCustomers serves the ten highest-spending customers.
func (h *MetricsHandler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.CustomerAnalysis(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "customer analysis", err)
		return
	}
	renderData(w, r, rows)
}

// GetCompleteData serves every metric view in one payload.
func (h *MetricsHandler) GetCompleteData(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.CompleteData(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "complete data", err)
		return
	}
	renderData(w, r, data)
}
