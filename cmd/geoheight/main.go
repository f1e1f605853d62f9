package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/geoheight/internal/api"
	"github.com/UnknownOlympus/geoheight/internal/config"
	"github.com/UnknownOlympus/geoheight/internal/geocoding"
	"github.com/UnknownOlympus/geoheight/internal/logging"
	"github.com/UnknownOlympus/geoheight/internal/metrics"
	"github.com/UnknownOlympus/geoheight/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Canceled on SIGINT or SIGTERM to trigger a graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := logging.New(cfg.Env, os.Stdout)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	src, err := service.LoadSource(logger, appMetrics, cfg.Grid.Kind, cfg.Grid.Path)
	if err != nil {
		log.Fatalf("Failed to load grid: %v", err)
	}

	provider, err := newProvider(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	svc := service.NewHeightService(logger, src, provider, appMetrics)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(logger, svc, reg),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		logger.InfoContext(ctx, "Starting api server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "Api server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Api server shutdown failed", "error", err)
	}

	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// newProvider returns the configured geocoding provider, or nil when address
// queries are disabled.
func newProvider(cfg *config.Config, logger *slog.Logger) (geocoding.Provider, error) {
	if cfg.Provider.Type == "" {
		logger.Info("Geocoding disabled, address queries will be rejected")
		return nil, nil
	}

	provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Provider.Type),
		APIKey:    cfg.Provider.APIKey,
		RateLimit: cfg.Provider.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Geocoding provider initialized", "type", cfg.Provider.Type)

	return provider, nil
}
