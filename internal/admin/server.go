package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/analytics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/cache"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline"
	"github.com/MorpheusAIs/mor-stats-backend/internal/store"
)

// Runner is the part of *pipeline.Pipeline the admin API drives.
type Runner interface {
	Run(ctx context.Context) (pipeline.RunReport, error)
	RunStage(ctx context.Context, name string) (pipeline.StageResult, error)
	Running() bool
	LastReport() *pipeline.RunReport
	Health() []pipeline.HealthSnapshot
	StageNames() []string
}

// MetricReader serves published metrics. *analytics.Service satisfies it.
type MetricReader interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	LastRefresh() time.Time
}

// Server provides the operational HTTP API. Runs triggered through it
// execute in the background and outlive the request; Close cancels them.
type Server struct {
	runner     Runner
	metrics    MetricReader
	watermarks store.WatermarkRepository
	tables     []string
	cache      cache.Clearer
	runTimeout time.Duration
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type ServerOption func(*Server)

// WithWatermarks reports the highest stored block of each event table.
func WithWatermarks(repo store.WatermarkRepository, tables ...string) ServerOption {
	return func(s *Server) {
		s.watermarks = repo
		s.tables = tables
	}
}

func WithMetricReader(m MetricReader) ServerOption {
	return func(s *Server) { s.metrics = m }
}

func WithCacheClearer(c cache.Clearer) ServerOption {
	return func(s *Server) { s.cache = c }
}

// WithRunTimeout bounds runs triggered through the API. Zero means no bound.
func WithRunTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.runTimeout = d }
}

func NewServer(runner Runner, logger *slog.Logger, opts ...ServerOption) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		runner: runner,
		logger: logger.With("component", "admin"),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close cancels background runs and waits for them to return.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

// Handler returns the HTTP handler for the admin API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/v1/status", s.handleGetStatus)
	mux.HandleFunc("POST /admin/v1/runs", s.handleTriggerRun)
	mux.HandleFunc("POST /admin/v1/stages/{name}/run", s.handleTriggerStage)
	mux.HandleFunc("GET /admin/v1/metrics/{key}", s.handleGetMetric)
	mux.HandleFunc("DELETE /admin/v1/cache", s.handleClearCache)
	return mux
}

// writeJSON writes v as JSON with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusResponse struct {
	Running          bool                      `json:"running"`
	Stages           []pipeline.HealthSnapshot `json:"stages"`
	LastRun          *pipeline.RunReport       `json:"last_run,omitempty"`
	Watermarks       map[string]*uint64        `json:"watermarks"`
	CacheRefreshedAt *time.Time                `json:"cache_refreshed_at,omitempty"`
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Running:    s.runner.Running(),
		Stages:     s.runner.Health(),
		LastRun:    s.runner.LastReport(),
		Watermarks: make(map[string]*uint64, len(s.tables)),
	}
	for _, table := range s.tables {
		last, ok, err := s.watermarks.LastProcessedBlock(r.Context(), table)
		if err != nil {
			s.logger.Error("failed to read watermark", "table", table, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if ok {
			resp.Watermarks[table] = &last
		} else {
			resp.Watermarks[table] = nil
		}
	}
	if s.metrics != nil {
		if t := s.metrics.LastRefresh(); !t.IsZero() {
			resp.CacheRefreshedAt = &t
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type triggerResponse struct {
	Status string `json:"status"`
	Stage  string `json:"stage,omitempty"`
}

func (s *Server) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	if s.runner.Running() {
		writeError(w, http.StatusConflict, pipeline.ErrRunInProgress.Error())
		return
	}
	s.background(func(ctx context.Context) {
		report, err := s.runner.Run(ctx)
		if err != nil {
			s.logger.Warn("admin-triggered run failed", "run_id", report.RunID, "error", err)
			return
		}
		s.logger.Info("admin-triggered run completed", "run_id", report.RunID, "inserted", report.Inserted())
	})
	writeJSON(w, http.StatusAccepted, triggerResponse{Status: "started"})
}

func (s *Server) handleTriggerStage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !slices.Contains(s.runner.StageNames(), name) {
		writeError(w, http.StatusNotFound, "unknown stage")
		return
	}
	if s.runner.Running() {
		writeError(w, http.StatusConflict, pipeline.ErrRunInProgress.Error())
		return
	}
	s.background(func(ctx context.Context) {
		res, err := s.runner.RunStage(ctx, name)
		if err != nil {
			s.logger.Warn("admin-triggered stage failed", "stage", name, "error", err)
			return
		}
		s.logger.Info("admin-triggered stage completed", "stage", name, "inserted", res.Inserted)
	})
	writeJSON(w, http.StatusAccepted, triggerResponse{Status: "started", Stage: name})
}

func (s *Server) background(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx := s.ctx
		if s.runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
			defer cancel()
		}
		fn(ctx)
	}()
}

func (s *Server) handleGetMetric(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics not configured")
		return
	}
	key := r.PathValue("key")
	raw, err := s.metrics.Get(r.Context(), key)
	switch {
	case errors.Is(err, analytics.ErrUnknownKey):
		writeError(w, http.StatusNotFound, "unknown metric")
		return
	case err != nil:
		s.logger.Error("failed to compute metric", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		s.logger.Warn("failed to write metric response", "key", key, "error", err)
	}
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeError(w, http.StatusServiceUnavailable, "cache not configured")
		return
	}
	if err := s.cache.Clear(r.Context()); err != nil {
		s.logger.Error("failed to clear read cache", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}
