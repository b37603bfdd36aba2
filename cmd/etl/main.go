package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/Sujay-155/data-wareshouse/internal/adapter/http"
	"github.com/Sujay-155/data-wareshouse/internal/adapter/postgres"
	"github.com/Sujay-155/data-wareshouse/internal/adapter/weatherapi"
	"github.com/Sujay-155/data-wareshouse/internal/config"
	"github.com/Sujay-155/data-wareshouse/internal/observability"
	"github.com/Sujay-155/data-wareshouse/internal/pipeline"
	"github.com/Sujay-155/data-wareshouse/internal/refdata"
	"github.com/Sujay-155/data-wareshouse/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store, err := postgres.Connect(cfg.DSN(), logger)
	if err != nil {
		logger.Error("failed to connect to warehouse", "error", err)
		os.Exit(1)
	}

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	err = store.EnsureSchema(schemaCtx)
	cancelSchema()
	if err != nil {
		logger.Error("failed to ensure warehouse schema", "error", err)
		os.Exit(1)
	}

	client := weatherapi.NewClient(cfg.WeatherAPIKey, cfg.WeatherAPIBaseURL, cfg.WeatherAPITimeout, logger)
	loader := refdata.NewLoader(logger)
	fetcher := pipeline.NewFetcher(client, logger, metrics)

	p := pipeline.New(loader, fetcher, store, cfg.CitiesCSVPath, cfg.FetchLimit, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
	sched := scheduler.New(cfg.CronSchedule, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if cfg.RunOnStart {
		if _, err := p.Run(ctx); err != nil {
			logger.Error("initial run failed", "error", err)
		}
	}

	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn("timed out waiting for in-flight run")
	}

	if err := store.Close(); err != nil {
		logger.Error("warehouse close error", "error", err)
	}

	logger.Info("shutdown complete")
}
