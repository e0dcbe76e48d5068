// Package main is the entrypoint for the SiteSight analytics API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codesleeps/leanConstruction-sub002/internal/analytics"
	"github.com/codesleeps/leanConstruction-sub002/internal/api"
	"github.com/codesleeps/leanConstruction-sub002/internal/api/handler"
	mw "github.com/codesleeps/leanConstruction-sub002/internal/api/middleware"
	"github.com/codesleeps/leanConstruction-sub002/internal/api/response"
	"github.com/codesleeps/leanConstruction-sub002/internal/cache"
	"github.com/codesleeps/leanConstruction-sub002/internal/config"
	"github.com/codesleeps/leanConstruction-sub002/internal/core/forecast"
	"github.com/codesleeps/leanConstruction-sub002/internal/core/report"
	"github.com/codesleeps/leanConstruction-sub002/internal/core/stage"
	"github.com/codesleeps/leanConstruction-sub002/internal/core/waste"
	"github.com/codesleeps/leanConstruction-sub002/internal/store"
	"github.com/codesleeps/leanConstruction-sub002/internal/vision"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "vision_provider", cfg.Vision.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create vision provider
	provider, err := vision.NewProvider(cfg.Vision)
	if err != nil {
		return fmt.Errorf("create vision provider: %w", err)
	}
	slog.Info("vision provider initialized", "provider", provider.Name())

	// 6. Create store and core engines
	pgStore := store.NewPostgresStore(pool)

	stageCfg := stage.DefaultConfig()
	stageCfg.ConfidenceCap = cfg.Analytics.ConfidenceCap
	classifier := stage.New(stageCfg)

	wasteCfg := waste.DefaultConfig()
	wasteCfg.DetectionThreshold = cfg.Analytics.WasteDetectionThreshold
	wasteEngine := waste.New(wasteCfg)

	forecastCfg := forecast.DefaultConfig()
	forecastCfg.MinHistoryDays = cfg.Analytics.MinHistoryDays
	forecaster := forecast.New(forecastCfg)

	svc := analytics.New(provider, classifier, wasteEngine, forecaster,
		report.NewAssembler(), pgStore, redisCache, cfg.Vision.InferenceTimeout)

	// 7. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, 120),

		HealthHandler:        healthHandler(pgStore, redisCache),
		CreateProjectHandler: handler.NewCreateProjectHandler(svc),
		GetProjectHandler:    handler.NewGetProjectHandler(svc),
		AnalyzeHandler:       handler.NewAnalyzeHandler(svc),
		GetJobHandler:        handler.NewGetJobHandler(svc),
		AssessWasteHandler:   handler.NewAssessWasteHandler(svc),
		ForecastHandler:      handler.NewForecastHandler(svc),
		ReportHandler:        handler.NewGenerateReportHandler(svc),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
