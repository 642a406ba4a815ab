package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// HealthHandler serves the health probe. Unlike the metric endpoints it
// responds with the bare status document, not the data envelope.
type HealthHandler struct {
	checker HealthChecker
	logger  *slog.Logger
}

// NewHealthHandler creates a handler over the health service.
func NewHealthHandler(checker HealthChecker, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		checker: checker,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// GetHealth reports whether the analysis database is reachable. An
// unhealthy store answers 500 so load balancers take the instance out.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.Check(r.Context())

	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusInternalServerError
	}
	render.Status(r, code)
	render.JSON(w, r, status)
}
