package services

import (
	"context"
	"log/slog"
	"os"
	"time"

	"salespipe/internal/store"
)

// Health states reported by the health endpoint.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	DatabaseConnected = "connected"
	DatabaseNotFound  = "not_found"
)

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Database  string `json:"database,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Healthy reports whether the status describes a serving system.
func (h HealthStatus) Healthy() bool {
	return h.Status == StatusHealthy
}

// HealthService probes the analysis database.
type HealthService struct {
	dbPath string
	logger *slog.Logger
	now    func() time.Time
}

// NewHealthService creates a health service for the given database file.
func NewHealthService(dbPath string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		dbPath: dbPath,
		logger: logger.With(slog.String("service", "health")),
		now:    time.Now,
	}
}

// Check verifies that the database file exists and answers a trivial query.
// A missing file means the pipeline has not run yet.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	timestamp := s.now().Format(time.RFC3339)

	if _, err := os.Stat(s.dbPath); err != nil {
		s.logger.WarnContext(ctx, "database file missing", slog.String("path", s.dbPath))
		return HealthStatus{
			Status:    StatusUnhealthy,
			Database:  DatabaseNotFound,
			Timestamp: timestamp,
		}
	}

	db, err := store.Open(s.dbPath)
	if err != nil {
		return HealthStatus{
			Status:    StatusUnhealthy,
			Error:     err.Error(),
			Timestamp: timestamp,
		}
	}
	defer store.Close(db)

	var probe int
	if err := db.WithContext(ctx).Raw("SELECT 1").Scan(&probe).Error; err != nil {
		s.logger.ErrorContext(ctx, "database probe failed", slog.String("error", err.Error()))
		return HealthStatus{
			Status:    StatusUnhealthy,
			Error:     err.Error(),
			Timestamp: timestamp,
		}
	}

	return HealthStatus{
		Status:    StatusHealthy,
		Database:  DatabaseConnected,
		Timestamp: timestamp,
	}
}
