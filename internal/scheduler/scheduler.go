// Package scheduler triggers recurring jobs on cron specs. Overlapping
// executions of one job are skipped and panics are recovered.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Job is a named recurring task. Spec accepts standard five-field cron
// expressions and descriptors such as "@every 12h".
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(logger *slog.Logger) *Scheduler {
	logger = logger.With("component", "scheduler")
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		entries: make(map[string]cron.EntryID),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers job. It must be called before Start.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("scheduler: job needs a name and a run function")
	}
	if _, dup := s.entries[job.Name]; dup {
		return fmt.Errorf("scheduler: duplicate job %q", job.Name)
	}
	id, err := s.cron.AddFunc(job.Spec, s.jobFunc(job))
	if err != nil {
		return fmt.Errorf("scheduler: job %q spec %q: %w", job.Name, job.Spec, err)
	}
	s.entries[job.Name] = id
	s.logger.Info("job scheduled", "job", job.Name, "spec", job.Spec)
	return nil
}

func (s *Scheduler) jobFunc(job Job) func() {
	return func() {
		ctx := s.ctx
		if job.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, job.Timeout)
			defer cancel()
		}

		start := time.Now()
		s.logger.Info("scheduled job started", "job", job.Name)
		err := job.Run(ctx)
		elapsed := time.Since(start)
		metrics.ScheduledJobDuration.WithLabelValues(job.Name).Observe(elapsed.Seconds())

		if err != nil {
			metrics.ScheduledJobRunsTotal.WithLabelValues(job.Name, "error").Inc()
			s.logger.Error("scheduled job failed", "job", job.Name, "elapsed", elapsed.String(), "error", err)
			return
		}
		metrics.ScheduledJobRunsTotal.WithLabelValues(job.Name, "ok").Inc()
		s.logger.Info("scheduled job completed", "job", job.Name, "elapsed", elapsed.String())
	}
}

// Next returns the next activation of each job. Jobs report the zero time
// until the scheduler is started.
func (s *Scheduler) Next() map[string]time.Time {
	out := make(map[string]time.Time, len(s.entries))
	for name, id := range s.entries {
		out[name] = s.cron.Entry(id).Next
	}
	return out
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new activations and waits for running jobs. When ctx ends
// first, running jobs are cancelled and Stop still waits for them to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done.Done()
		return ctx.Err()
	}
}

// cronLogger adapts slog to cron.Logger. Cron's per-tick info lines are
// logged at debug level, except skipped overlapping activations.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	if msg == "skip" {
		l.logger.Warn("scheduled job still running, activation skipped", keysAndValues...)
		return
	}
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
