package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/drought-monitor-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/drought-monitor-service/internal/adapter/kafka"
	"github.com/couchcryptid/drought-monitor-service/internal/alert"
	"github.com/couchcryptid/drought-monitor-service/internal/config"
	"github.com/couchcryptid/drought-monitor-service/internal/dataset"
	"github.com/couchcryptid/drought-monitor-service/internal/observability"
	"github.com/couchcryptid/drought-monitor-service/internal/query"
	"github.com/couchcryptid/drought-monitor-service/internal/refdata"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ds, err := dataset.Load(cfg.DataPath)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}
	metrics.DatasetTimeSteps.Set(float64(len(ds.Times)))
	metrics.DatasetGridCells.Set(float64(len(ds.Lats) * len(ds.Lons)))
	logger.Info("dataset loaded",
		"path", cfg.DataPath,
		"time_steps", len(ds.Times),
		"grid", len(ds.Lats)*len(ds.Lons),
		"first", ds.Times[0],
		"last", ds.Times[len(ds.Times)-1],
	)

	ref, err := refdata.Load(cfg.ContinentsPath, cfg.CentroidsPath, cfg.SampleWindow)
	if err != nil {
		logger.Error("failed to load reference data", "error", err)
		os.Exit(1)
	}

	svc := query.NewService(ds, ref, logger, metrics)
	srv := httpapi.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Scan the latest layer for drought alerts once at startup
	// (feature-flagged via ALERTS_ENABLED).
	var writer *kafkaadapter.Writer
	if cfg.AlertsEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		scanner := alert.NewScanner(ds, ref, cfg.AlertExtremePct, logger, metrics)
		go func() {
			if err := scanner.Run(ctx, writer); err != nil {
				logger.Error("alert scan error", "error", err)
			}
		}()
	} else {
		logger.Info("drought alerts disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
