package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/alert"
	"github.com/MorpheusAIs/mor-stats-backend/internal/cache"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrRunInProgress = errors.New("pipeline: a run is already in progress")
	ErrUnknownStage  = errors.New("pipeline: unknown stage")
)

const alertTimeout = 10 * time.Second

// Pipeline runs stages sequentially and clears the read cache after a fully
// successful run. At most one run (full or single stage) executes at a time.
type Pipeline struct {
	stages       []Stage
	byName       map[string]Stage
	cache        cache.Clearer
	alerter      alert.Alerter
	health       map[string]*StageHealth
	logger       *slog.Logger
	clearOnStage bool
	nowFn        func() time.Time

	running    atomic.Bool
	lastReport atomic.Pointer[RunReport]
}

type Option func(*Pipeline)

func WithAlerter(a alert.Alerter) Option {
	return func(p *Pipeline) { p.alerter = a }
}

// WithClearOnStage makes a successful single-stage run clear the read cache.
func WithClearOnStage() Option {
	return func(p *Pipeline) { p.clearOnStage = true }
}

func New(stages []Stage, c cache.Clearer, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		stages:  stages,
		byName:  make(map[string]Stage, len(stages)),
		cache:   c,
		alerter: &alert.NoopAlerter{},
		health:  make(map[string]*StageHealth, len(stages)),
		logger:  logger.With("component", "pipeline"),
		nowFn:   time.Now,
	}
	for _, s := range stages {
		p.byName[s.Name()] = s
		p.health[s.Name()] = NewStageHealth(s.Name())
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Running reports whether a run is executing.
func (p *Pipeline) Running() bool { return p.running.Load() }

// LastReport returns the report of the most recent full run, or nil.
func (p *Pipeline) LastReport() *RunReport { return p.lastReport.Load() }

// StageNames lists the configured stages in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Health returns a snapshot per stage in execution order.
func (p *Pipeline) Health() []HealthSnapshot {
	out := make([]HealthSnapshot, 0, len(p.stages))
	for _, s := range p.stages {
		out = append(out, p.health[s.Name()].Snapshot())
	}
	return out
}

func (p *Pipeline) acquire() bool {
	if !p.running.CompareAndSwap(false, true) {
		return false
	}
	metrics.PipelineRunInProgress.Set(1)
	return true
}

func (p *Pipeline) release() {
	metrics.PipelineRunInProgress.Set(0)
	p.running.Store(false)
}

// Run executes every stage in order. The first failing stage aborts the run;
// the cache is left untouched in that case.
func (p *Pipeline) Run(ctx context.Context) (RunReport, error) {
	if !p.acquire() {
		return RunReport{}, ErrRunInProgress
	}
	defer p.release()

	report := RunReport{RunID: uuid.NewString(), StartedAt: p.nowFn()}
	logger := p.logger.With("run_id", report.RunID)

	ctx, span := tracing.StartSpan(ctx, "pipeline", "pipeline.run",
		attribute.String("run_id", report.RunID),
		attribute.Int("stages", len(p.stages)),
	)

	logger.Info("pipeline run started", "stages", len(p.stages))

	var runErr error
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			report.FailedStage = s.Name()
			runErr = fmt.Errorf("stage %s not started: %w", s.Name(), err)
			break
		}
		res := p.runStage(ctx, report.RunID, s)
		report.Stages = append(report.Stages, res)
		if res.Err != nil {
			report.FailedStage = res.Name
			runErr = fmt.Errorf("stage %s: %w", res.Name, res.Err)
			break
		}
	}

	if runErr == nil {
		if err := p.cache.Clear(ctx); err != nil {
			logger.Warn("clear read cache failed", "error", err)
		} else {
			report.CacheCleared = true
		}
	}

	report.FinishedAt = p.nowFn()
	elapsed := report.FinishedAt.Sub(report.StartedAt)
	metrics.PipelineRunDuration.Observe(elapsed.Seconds())
	p.lastReport.Store(&report)

	if runErr != nil {
		metrics.PipelineRunsTotal.WithLabelValues("failure").Inc()
		logger.Error("pipeline run aborted",
			"failed_stage", report.FailedStage,
			"elapsed", elapsed.String(),
			"error", runErr,
		)
		p.sendAlert(ctx, alert.Alert{
			Type:    alert.AlertTypeRunFailure,
			Stage:   report.FailedStage,
			RunID:   report.RunID,
			Title:   "Pipeline run aborted",
			Message: runErr.Error(),
			Fields:  map[string]string{"elapsed": elapsed.String()},
		})
		tracing.EndSpan(span, runErr)
		return report, runErr
	}

	metrics.PipelineRunsTotal.WithLabelValues("success").Inc()
	logger.Info("pipeline run completed",
		"inserted", report.Inserted(),
		"cache_cleared", report.CacheCleared,
		"elapsed", elapsed.String(),
	)
	p.sendAlert(ctx, alert.Alert{
		Type:    alert.AlertTypeRunSuccess,
		RunID:   report.RunID,
		Title:   "Pipeline run completed",
		Message: fmt.Sprintf("%d stages, %d rows written", len(report.Stages), report.Inserted()),
		Fields:  map[string]string{"elapsed": elapsed.String()},
	})
	tracing.EndSpan(span, nil)
	return report, nil
}

// RunStage executes a single stage on demand.
func (p *Pipeline) RunStage(ctx context.Context, name string) (StageResult, error) {
	s, ok := p.byName[name]
	if !ok {
		return StageResult{}, fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
	if !p.acquire() {
		return StageResult{}, ErrRunInProgress
	}
	defer p.release()

	runID := uuid.NewString()
	res := p.runStage(ctx, runID, s)
	if res.Err != nil {
		return res, fmt.Errorf("stage %s: %w", name, res.Err)
	}
	if p.clearOnStage {
		if err := p.cache.Clear(ctx); err != nil {
			p.logger.Warn("clear read cache failed", "run_id", runID, "error", err)
		}
	}
	return res, nil
}

func (p *Pipeline) runStage(ctx context.Context, runID string, s Stage) StageResult {
	name := s.Name()
	logger := p.logger.With("run_id", runID, "stage", name)

	ctx, span := tracing.StartSpan(ctx, "pipeline", "pipeline.stage",
		attribute.String("run_id", runID),
		attribute.String("stage", name),
	)

	start := p.nowFn()
	inserted, err := safeRun(ctx, s)
	elapsed := p.nowFn().Sub(start)

	res := StageResult{Name: name, Inserted: inserted, Duration: elapsed, Err: err}
	metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	span.SetAttributes(attribute.Int("inserted", inserted))
	tracing.EndSpan(span, err)

	h := p.health[name]
	if err != nil {
		res.Error = err.Error()
		metrics.StageRunsTotal.WithLabelValues(name, "failure").Inc()
		logger.Error("stage failed", "elapsed", elapsed.String(), "error", err)
		h.RecordFailure(err)
		p.sendAlert(ctx, alert.Alert{
			Type:    alert.AlertTypeStageFailure,
			Stage:   name,
			RunID:   runID,
			Title:   "Stage failed",
			Message: err.Error(),
			Fields: map[string]string{
				"elapsed":              elapsed.String(),
				"consecutive_failures": strconv.Itoa(h.Snapshot().ConsecutiveFailures),
			},
		})
		return res
	}

	metrics.StageRunsTotal.WithLabelValues(name, "success").Inc()
	metrics.StageRowsWritten.WithLabelValues(name).Add(float64(inserted))
	logger.Info("stage completed", "inserted", inserted, "elapsed", elapsed.String())
	if h.RecordSuccess(inserted, elapsed) {
		p.sendAlert(ctx, alert.Alert{
			Type:    alert.AlertTypeRecovery,
			Stage:   name,
			RunID:   runID,
			Title:   "Stage recovered",
			Message: fmt.Sprintf("%s succeeded after repeated failures", name),
		})
	}
	return res
}

// safeRun converts a stage panic into an error so the run aborts cleanly.
func safeRun(ctx context.Context, s Stage) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panic: %v\n%s", r, debug.Stack())
		}
	}()
	return s.Run(ctx)
}

// sendAlert ignores ctx cancellation so a cancelled run still reports its
// failure.
func (p *Pipeline) sendAlert(ctx context.Context, a alert.Alert) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
	defer cancel()
	if err := p.alerter.Send(ctx, a); err != nil {
		p.logger.Warn("send alert failed", "type", a.Type, "stage", a.Stage, "error", err)
	}
}
