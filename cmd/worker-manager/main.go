// cmd/worker-manager/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"roadmap-workers/internal/catalog"
	"roadmap-workers/internal/common/camunda"
	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/database"
	"roadmap-workers/internal/common/logger"
	"roadmap-workers/internal/common/observability"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("catalogSource", cfg.Catalog.Source),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitTracing(ctx, log, observability.TracingConfig{
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.App.Environment,
		Version:     cfg.App.Version,
		Enabled:     cfg.Observability.TracingEnabled,
		SampleRatio: cfg.Observability.SampleRatio,
	})
	obs := observability.New(cfg.Observability.ServiceName, log)
	defer obs.Shutdown()

	// --- Zeebe ---
	zb, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL, only for the postgres catalog source ---
	var db *sql.DB
	if cfg.Catalog.Source == config.SourcePostgres {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("postgres init failed", zap.Error(err))
		}
		if err := camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "PostgreSQL connection", pg.Ping); err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		db = pg.DB
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Redis, only for the shared snapshot cache ---
	var rdb *redis.Client
	if cfg.Catalog.RedisCache {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		if err := camunda.Retry(ctx, camunda.DefaultRetryConfig, log, "Redis connection", rc.Ping); err != nil {
			// cache errors are ignored per request, so keep the client and carry on
			zapLog.Warn("redis unreachable, snapshot cache degraded", zap.Error(err))
		} else {
			zapLog.Info("Redis connected successfully")
		}
		defer rc.Close()
		rdb = rc.Client
	}

	// --- Catalog ---
	store, err := catalog.NewFromConfig(cfg.Catalog, db, rdb, log)
	if err != nil {
		zapLog.Fatal("catalog init failed", zap.Error(err))
	}
	snap, err := store.Load(ctx)
	if err != nil {
		zapLog.Fatal("catalog warm-up failed", zap.Error(err))
	}
	zapLog.Info("Catalog loaded",
		zap.String("source", snap.Source),
		zap.Int("careers", len(snap.Careers)),
		zap.Int("majors", len(snap.Majors)),
		zap.Int("subjects", len(snap.Subjects)),
		zap.Int("warnings", len(snap.Warnings)),
	)

	// --- Workers ---
	registrations, err := buildRegistrations(cfg, store, obs, log)
	if err != nil {
		zapLog.Fatal("worker setup failed", zap.Error(err))
	}
	checkRegistry(cfg.Template.RegistryPath, registrations, log)

	var jobWorkers []worker.JobWorker
	for _, r := range registrations {
		w := camunda.StartWorker(zb.Zeebe(), r.taskType, config.GetWorkerConfig(cfg, r.taskType), r.handler, log)
		if w != nil {
			jobWorkers = append(jobWorkers, w)
		}
	}
	zapLog.Info("Workers registered", zap.Int("count", len(jobWorkers)))

	// --- Health & Metrics Server ---
	srv := newServer(cfg.App.HTTPAddress, func(ctx context.Context) error {
		if err := zb.HealthCheck(ctx); err != nil {
			return err
		}
		_, err := store.Load(ctx)
		return err
	}, store.Invalidate)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.App.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range jobWorkers {
		w.Close()
		w.AwaitClose()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if err := zb.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zapLog.Error("Error flushing traces", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}
