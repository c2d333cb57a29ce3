package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/analytics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline"
)

// --- Fakes ---

type fakeRunner struct {
	running   atomic.Bool
	stages    []string
	runFunc   func(ctx context.Context) (pipeline.RunReport, error)
	stageFunc func(ctx context.Context, name string) (pipeline.StageResult, error)
	report    *pipeline.RunReport
	health    []pipeline.HealthSnapshot
}

func (f *fakeRunner) Run(ctx context.Context) (pipeline.RunReport, error) {
	return f.runFunc(ctx)
}

func (f *fakeRunner) RunStage(ctx context.Context, name string) (pipeline.StageResult, error) {
	return f.stageFunc(ctx, name)
}

func (f *fakeRunner) Running() bool                     { return f.running.Load() }
func (f *fakeRunner) LastReport() *pipeline.RunReport   { return f.report }
func (f *fakeRunner) Health() []pipeline.HealthSnapshot { return f.health }
func (f *fakeRunner) StageNames() []string              { return f.stages }

type fakeWatermarks struct {
	last map[string]uint64
	err  error
}

func (f *fakeWatermarks) LastProcessedBlock(_ context.Context, table string) (uint64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	v, ok := f.last[table]
	return v, ok, nil
}

type fakeMetrics struct {
	getFunc     func(ctx context.Context, key string) (json.RawMessage, error)
	lastRefresh time.Time
}

func (f *fakeMetrics) Get(ctx context.Context, key string) (json.RawMessage, error) {
	return f.getFunc(ctx, key)
}

func (f *fakeMetrics) LastRefresh() time.Time { return f.lastRefresh }

type fakeClearer struct {
	calls int
	err   error
}

func (f *fakeClearer) Clear(context.Context) error {
	f.calls++
	return f.err
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for background run")
	}
	var zero T
	return zero
}

// --- Tests: status ---

func TestHandleGetStatus_Success(t *testing.T) {
	success := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	runner := &fakeRunner{
		health: []pipeline.HealthSnapshot{{Stage: "user_claim_locked", Status: "HEALTHY", LastSuccessAt: &success, LastInserted: 4}},
		report: &pipeline.RunReport{RunID: "run-1", CacheCleared: true},
	}
	wm := &fakeWatermarks{last: map[string]uint64{"user_claim_locked": 20_500_000}}
	refreshed := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	srv := NewServer(runner, discardLogger(),
		WithWatermarks(wm, "user_claim_locked", "user_staked"),
		WithMetricReader(&fakeMetrics{lastRefresh: refreshed}),
	)
	defer srv.Close()

	rec := serve(t, srv, http.MethodGet, "/admin/v1/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Running {
		t.Error("expected running to be false")
	}
	if len(resp.Stages) != 1 || resp.Stages[0].Stage != "user_claim_locked" {
		t.Errorf("unexpected stages: %+v", resp.Stages)
	}
	if resp.LastRun == nil || resp.LastRun.RunID != "run-1" {
		t.Errorf("expected last run run-1, got %+v", resp.LastRun)
	}
	if got := resp.Watermarks["user_claim_locked"]; got == nil || *got != 20_500_000 {
		t.Errorf("expected watermark 20500000, got %v", got)
	}
	if got, ok := resp.Watermarks["user_staked"]; !ok || got != nil {
		t.Errorf("expected null watermark for empty table, got %v (present=%v)", got, ok)
	}
	if resp.CacheRefreshedAt == nil || !resp.CacheRefreshedAt.Equal(refreshed) {
		t.Errorf("expected cache_refreshed_at %v, got %v", refreshed, resp.CacheRefreshedAt)
	}
}

func TestHandleGetStatus_WatermarkError(t *testing.T) {
	srv := NewServer(&fakeRunner{}, discardLogger(),
		WithWatermarks(&fakeWatermarks{err: errors.New("connection refused")}, "user_staked"),
	)
	defer srv.Close()

	rec := serve(t, srv, http.MethodGet, "/admin/v1/status")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

// --- Tests: triggers ---

func TestHandleTriggerRun_StartsBackgroundRun(t *testing.T) {
	started := make(chan struct{}, 1)
	runner := &fakeRunner{
		runFunc: func(ctx context.Context) (pipeline.RunReport, error) {
			started <- struct{}{}
			return pipeline.RunReport{RunID: "run-2"}, nil
		},
	}
	srv := NewServer(runner, discardLogger())
	defer srv.Close()

	rec := serve(t, srv, http.MethodPost, "/admin/v1/runs")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
	waitFor(t, started)
}

func TestHandleTriggerRun_Conflict(t *testing.T) {
	runner := &fakeRunner{
		runFunc: func(context.Context) (pipeline.RunReport, error) {
			t.Error("run must not start while another is in progress")
			return pipeline.RunReport{}, nil
		},
	}
	runner.running.Store(true)
	srv := NewServer(runner, discardLogger())
	defer srv.Close()

	rec := serve(t, srv, http.MethodPost, "/admin/v1/runs")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestHandleTriggerRun_TimeoutBoundsBackgroundRun(t *testing.T) {
	done := make(chan error, 1)
	runner := &fakeRunner{
		runFunc: func(ctx context.Context) (pipeline.RunReport, error) {
			<-ctx.Done()
			done <- ctx.Err()
			return pipeline.RunReport{}, ctx.Err()
		},
	}
	srv := NewServer(runner, discardLogger(), WithRunTimeout(20*time.Millisecond))
	defer srv.Close()

	serve(t, srv, http.MethodPost, "/admin/v1/runs")
	if err := waitFor(t, done); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestServerClose_CancelsBackgroundRuns(t *testing.T) {
	done := make(chan error, 1)
	runner := &fakeRunner{
		runFunc: func(ctx context.Context) (pipeline.RunReport, error) {
			<-ctx.Done()
			done <- ctx.Err()
			return pipeline.RunReport{}, ctx.Err()
		},
	}
	srv := NewServer(runner, discardLogger())

	serve(t, srv, http.MethodPost, "/admin/v1/runs")
	srv.Close()
	if err := waitFor(t, done); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestHandleTriggerStage(t *testing.T) {
	ran := make(chan string, 1)
	runner := &fakeRunner{
		stages: []string{"user_claim_locked", "user_multiplier"},
		stageFunc: func(_ context.Context, name string) (pipeline.StageResult, error) {
			ran <- name
			return pipeline.StageResult{Name: name, Inserted: 2}, nil
		},
	}
	srv := NewServer(runner, discardLogger())
	defer srv.Close()

	rec := serve(t, srv, http.MethodPost, "/admin/v1/stages/user_multiplier/run")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
	var resp triggerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Stage != "user_multiplier" {
		t.Errorf("expected stage user_multiplier, got %q", resp.Stage)
	}
	if got := waitFor(t, ran); got != "user_multiplier" {
		t.Errorf("expected user_multiplier to run, got %q", got)
	}
}

func TestHandleTriggerStage_Unknown(t *testing.T) {
	srv := NewServer(&fakeRunner{stages: []string{"user_staked"}}, discardLogger())
	defer srv.Close()

	rec := serve(t, srv, http.MethodPost, "/admin/v1/stages/bogus/run")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

// --- Tests: metrics ---

func TestHandleGetMetric(t *testing.T) {
	reader := &fakeMetrics{
		getFunc: func(_ context.Context, key string) (json.RawMessage, error) {
			switch key {
			case analytics.KeyCodeMetrics:
				return json.RawMessage(`{"total_weights_assigned":"10","unique_contributors":2}`), nil
			case analytics.KeyStakeInfo:
				return nil, errors.New("connection reset")
			default:
				return nil, fmt.Errorf("%w: %q", analytics.ErrUnknownKey, key)
			}
		},
	}
	srv := NewServer(&fakeRunner{}, discardLogger(), WithMetricReader(reader))
	defer srv.Close()

	tests := []struct {
		key    string
		status int
	}{
		{analytics.KeyCodeMetrics, http.StatusOK},
		{analytics.KeyStakeInfo, http.StatusInternalServerError},
		{"leaderboard", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			rec := serve(t, srv, http.MethodGet, "/admin/v1/metrics/"+tc.key)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
		})
	}

	rec := serve(t, srv, http.MethodGet, "/admin/v1/metrics/"+analytics.KeyCodeMetrics)
	if got := rec.Body.String(); got != `{"total_weights_assigned":"10","unique_contributors":2}` {
		t.Errorf("unexpected body %s", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
}

func TestHandleGetMetric_NotConfigured(t *testing.T) {
	srv := NewServer(&fakeRunner{}, discardLogger())
	defer srv.Close()

	rec := serve(t, srv, http.MethodGet, "/admin/v1/metrics/stake_info")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

// --- Tests: cache ---

func TestHandleClearCache(t *testing.T) {
	clearer := &fakeClearer{}
	srv := NewServer(&fakeRunner{}, discardLogger(), WithCacheClearer(clearer))
	defer srv.Close()

	rec := serve(t, srv, http.MethodDelete, "/admin/v1/cache")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if clearer.calls != 1 {
		t.Errorf("expected 1 clear, got %d", clearer.calls)
	}

	clearer.err = errors.New("redis: connection pool timeout")
	rec = serve(t, srv, http.MethodDelete, "/admin/v1/cache")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewServer(&fakeRunner{}, discardLogger())
	defer srv.Close()

	rec := serve(t, srv, http.MethodGet, "/admin/v1/runs")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}
