package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/admin"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline"
	"github.com/MorpheusAIs/mor-stats-backend/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	jobPipeline     = "pipeline"
	jobCacheRefresh = "cache_refresh"

	shutdownTimeout = 30 * time.Second
	readyzTimeout   = 2 * time.Second
)

var errNoDatabase = errors.New("database not initialized")

func serveCommand() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline and cache refresh on their schedules and serve the ops API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop, cfg, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer stop()

			logger := newLogger(os.Stdout, cfg.Log.Level)
			logger.Info("starting "+programName,
				"version", version,
				"rpc_url", maskCredentials(cfg.Chain.RPCURL),
				"distribution_address", cfg.Chain.DistributionAddress,
				"pipeline_schedule", cfg.Pipeline.Schedule,
				"cache_refresh_schedule", cfg.Cache.RefreshSchedule,
				"health_port", cfg.Server.HealthPort,
				"admin_enabled", cfg.Server.AdminEnabled,
			)

			a, err := newApp(ctx, cfg, logger, appOptions{migrate: true, pipeline: true, analytics: true})
			defer a.Close()
			if err != nil {
				return err
			}
			return runServe(ctx, a, runOnStart)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run the full pipeline once before the first scheduled activation")
	return cmd
}

func runServe(ctx context.Context, a *app, runOnStart bool) error {
	cfg := a.cfg
	logger := a.logger

	sched := scheduler.New(logger)
	if err := sched.Add(scheduler.Job{
		Name:    jobPipeline,
		Spec:    cfg.Pipeline.Schedule,
		Timeout: cfg.Pipeline.RunTimeout,
		Run:     a.scheduledRun,
	}); err != nil {
		return err
	}
	if err := sched.Add(scheduler.Job{
		Name:    jobCacheRefresh,
		Spec:    cfg.Cache.RefreshSchedule,
		Timeout: cfg.Pipeline.RunTimeout,
		Run:     a.analytics.Refresh,
	}); err != nil {
		return err
	}

	var adminSrv *admin.Server
	var rl *admin.RateLimitMiddleware
	if cfg.Server.AdminEnabled {
		adminSrv = admin.NewServer(a.pipeline, logger,
			admin.WithWatermarks(a.repos.watermarks, model.EventTables...),
			admin.WithMetricReader(a.analytics),
			admin.WithCacheClearer(a.readCache),
			admin.WithRunTimeout(cfg.Pipeline.RunTimeout),
		)
		rl = admin.NewRateLimitMiddleware(cfg.Server.AdminRPS, cfg.Server.AdminBurst, logger)
	}

	g, gCtx := errgroup.WithContext(ctx)

	startDBPoolStatsPump(gCtx, a.db, cfg.DB.PoolStatsInterval, a.alerter, logger)

	g.Go(func() error {
		return runHealthServer(gCtx, cfg.Server.HealthPort, opsHandler(a, adminSrv, rl), logger)
	})

	g.Go(func() error {
		if runOnStart {
			runCtx, cancel := context.WithTimeout(gCtx, cfg.Pipeline.RunTimeout)
			if err := a.scheduledRun(runCtx); err != nil {
				logger.Warn("startup run failed", "error", err)
			}
			cancel()
		}

		sched.Start()
		for job, next := range sched.Next() {
			logger.Info("next activation", "job", job, "at", next)
		}
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sched.Stop(shutdownCtx); err != nil {
			logger.Warn("scheduler stop timed out, running jobs cancelled", "error", err)
		}
		if adminSrv != nil {
			adminSrv.Close()
		}
		if rl != nil {
			rl.Stop()
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("indexer stopped with error", "error", err)
		return err
	}
	logger.Info("indexer stopped gracefully")
	return nil
}

// scheduledRun runs the pipeline and then warms the read cache, which a
// successful run leaves empty.
func (a *app) scheduledRun(ctx context.Context) error {
	report, err := a.pipeline.Run(ctx)
	if errors.Is(err, pipeline.ErrRunInProgress) {
		a.logger.Info("pipeline already running, activation skipped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", report.RunID, err)
	}
	if a.analytics != nil {
		if err := a.analytics.Refresh(ctx); err != nil {
			a.logger.Warn("cache warm-up after run failed", "run_id", report.RunID, "error", err)
		}
	}
	return nil
}

// opsHandler serves liveness, readiness, Prometheus metrics and, when
// enabled, the admin API.
func opsHandler(a *app, adminSrv *admin.Server, rl *admin.RateLimitMiddleware) http.Handler {
	logger := a.logger
	checker := &healthChecker{}
	if a.db != nil {
		checker.db = a.db
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Warn("failed to write health response", "error", err)
		}
	})
	mux.HandleFunc("GET /readyz", checker.handle(logger))
	mux.Handle("GET /metrics", promhttp.Handler())
	if adminSrv != nil {
		var h http.Handler = admin.AuditMiddleware(logger, adminSrv.Handler())
		if rl != nil {
			h = rl.Wrap(h)
		}
		mux.Handle("/admin/", h)
	}
	return mux
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// healthChecker reports readiness from a database ping.
type healthChecker struct {
	db pinger
}

func (h *healthChecker) check(ctx context.Context) error {
	if h.db == nil {
		return errNoDatabase
	}
	ctx, cancel := context.WithTimeout(ctx, readyzTimeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

func (h *healthChecker) handle(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.check(r.Context()); err != nil {
			logger.Warn("readiness check failed", "error", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ready")); err != nil {
			logger.Warn("failed to write readiness response", "error", err)
		}
	}
}

func runHealthServer(ctx context.Context, port int, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()

	logger.Info("health server started", "port", port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
