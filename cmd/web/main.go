// Command web serves the metric query API over the analysis database the
// pipeline produced.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gorm.io/gorm"

	"salespipe/internal/config"
	apierrors "salespipe/internal/errors"
	"salespipe/internal/infrastructure"
	"salespipe/internal/services"
	"salespipe/internal/store"
	transport "salespipe/internal/transport/http"
	"salespipe/pkg/contracts"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("starting", slog.String("version", contracts.VersionString()))

	dbPath := cfg.Paths.DatabaseFile
	metrics := newLazyMetrics(dbPath, logger)
	defer metrics.close()

	router := transport.NewRouter(transport.RouterConfig{
		Metrics:      metrics,
		Health:       services.NewHealthService(dbPath, logger),
		Logger:       logger,
		RateLimitRPS: cfg.Server.RateLimit.RPS,
		RateBurst:    cfg.Server.RateLimit.Burst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// lazyMetrics defers opening the database until the pipeline has produced
// it, so starting the server before the first run keeps the health
// endpoint reporting not_found instead of creating an empty database.
type lazyMetrics struct {
	dbPath string
	logger *slog.Logger

	mu  sync.Mutex
	db  *gorm.DB
	svc *services.MetricsService
}

func newLazyMetrics(dbPath string, logger *slog.Logger) *lazyMetrics {
	return &lazyMetrics{dbPath: dbPath, logger: logger}
}

func (m *lazyMetrics) service() (*services.MetricsService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.svc != nil {
		return m.svc, nil
	}
	if _, err := os.Stat(m.dbPath); err != nil {
		return nil, apierrors.ErrStoreNotFound
	}
	db, err := store.Open(m.dbPath)
	if err != nil {
		return nil, err
	}
	m.db = db
	m.svc = services.NewMetricsService(db, m.logger)
	m.logger.Info("analysis database opened", slog.String("path", m.dbPath))
	return m.svc, nil
}

func (m *lazyMetrics) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		store.Close(m.db)
	}
}

func (m *lazyMetrics) OverallStats(ctx context.Context) (*services.OverallStats, error) {
	svc, err := m.service()
	if err != nil {
		return nil, err
	}
	return svc.OverallStats(ctx)
}

func (m *lazyMetrics) MonthlyData(ctx context.Context) ([]services.MonthlyMetrics, error) {
	svc, err := m.service()
	if err != nil {
		return nil, err
	}
	return svc.MonthlyData(ctx)
}

func (m *lazyMetrics) CategoryData(ctx context.Context) ([]services.CategoryMetrics, error) {
	svc, err := m.service()
	if err != nil {
		return nil, err
	}
	return svc.CategoryData(ctx)
}

func (m *lazyMetrics) RegionData(ctx context.Context) ([]services.RegionMetrics, error) {
	svc, err := m.service()
	if err != nil {
		return nil, err
	}
	return svc.RegionData(ctx)
}

func (m *lazyMetrics) TopProducts(ctx context.Context, limit int) ([]services.ProductMetrics, error) {
	svc, err := m.service()
	if err != nil {
		return nil, err
	}
	return svc.TopProducts(ctx, limit)
}

func (m *lazyMetrics) CustomerAnalysis(ctx context.Context) ([]services.CustomerMetrics, error) {
	svc, err := m.service()
	if err != nil {
		return nil, err
	}
	return svc.CustomerAnalysis(ctx)
}

func (m *lazyMetrics) CompleteData(ctx context.Context) (*services.CompleteData, error) {
	svc, err := m.service()
	if err != nil {
		return nil, err
	}
	return svc.CompleteData(ctx)
}
