package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/MorpheusAIs/mor-stats-backend/internal/alert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStage struct {
	name     string
	inserted int
	err      error
	panicMsg string
	block    chan struct{}
	started  chan struct{}
	calls    *[]string
}

func (s *fakeStage) Name() string { return s.name }

func (s *fakeStage) Run(ctx context.Context) (int, error) {
	if s.calls != nil {
		*s.calls = append(*s.calls, s.name)
	}
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.inserted, s.err
}

type fakeCache struct {
	mu      sync.Mutex
	clears  int
	failErr error
}

func (c *fakeCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failErr != nil {
		return c.failErr
	}
	c.clears++
	return nil
}

func (c *fakeCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clears
}

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []alert.Alert
}

func (r *recordingAlerter) Send(_ context.Context, a alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
	return nil
}

func (r *recordingAlerter) types() []alert.AlertType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]alert.AlertType, len(r.alerts))
	for i, a := range r.alerts {
		out[i] = a.Type
	}
	return out
}

func orderedStages(calls *[]string, inserted map[string]int) []Stage {
	stages := make([]Stage, 0, len(StageOrder))
	for _, name := range StageOrder {
		stages = append(stages, &fakeStage{name: name, inserted: inserted[name], calls: calls})
	}
	return stages
}

func TestRun_ExecutesStagesInOrderAndClearsCache(t *testing.T) {
	var calls []string
	c := &fakeCache{}
	alerts := &recordingAlerter{}
	p := New(orderedStages(&calls, map[string]int{StageClaimLocked: 4, StageMultipliers: 3}), c, testLogger(), WithAlerter(alerts))

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StageOrder, calls)
	assert.True(t, report.Succeeded())
	assert.True(t, report.CacheCleared)
	assert.Equal(t, 7, report.Inserted())
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, c.count())
	assert.Equal(t, []alert.AlertType{alert.AlertTypeRunSuccess}, alerts.types())
	assert.Equal(t, report.RunID, p.LastReport().RunID)
}

func TestRun_AbortsOnFirstFailureAndKeepsCache(t *testing.T) {
	var calls []string
	stages := orderedStages(&calls, nil)
	boom := errors.New("rpc unavailable")
	stages[2].(*fakeStage).err = boom

	c := &fakeCache{}
	alerts := &recordingAlerter{}
	p := New(stages, c, testLogger(), WithAlerter(alerts))

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stage rewards")

	assert.Equal(t, []string{StageClaimLocked, StageMultipliers, StageRewards}, calls)
	assert.Equal(t, StageRewards, report.FailedStage)
	assert.False(t, report.Succeeded())
	assert.False(t, report.CacheCleared)
	assert.Equal(t, 0, c.count())
	require.Len(t, report.Stages, 3)
	assert.Equal(t, "rpc unavailable", report.Stages[2].Error)
	assert.Equal(t, []alert.AlertType{alert.AlertTypeStageFailure, alert.AlertTypeRunFailure}, alerts.types())
}

func TestRun_CacheClearFailureDoesNotFailRun(t *testing.T) {
	var calls []string
	c := &fakeCache{failErr: errors.New("redis down")}
	p := New(orderedStages(&calls, nil), c, testLogger())

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.CacheCleared)
}

func TestRun_ConcurrentRunRejected(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	p := New([]Stage{&fakeStage{name: StageClaimLocked, block: block, started: started}}, &fakeCache{}, testLogger())

	done := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background())
		done <- err
	}()
	<-started

	assert.True(t, p.Running())
	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)
	_, err = p.RunStage(context.Background(), StageClaimLocked)
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(block)
	require.NoError(t, <-done)
	assert.False(t, p.Running())
}

func TestRun_CancelledContextRunsNothing(t *testing.T) {
	var calls []string
	c := &fakeCache{}
	p := New(orderedStages(&calls, nil), c, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
	assert.Equal(t, StageClaimLocked, report.FailedStage)
	assert.Equal(t, 0, c.count())
}

func TestRun_StagePanicBecomesError(t *testing.T) {
	p := New([]Stage{&fakeStage{name: StageRewards, panicMsg: "nil map"}}, &fakeCache{}, testLogger())

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage panic: nil map")
	assert.False(t, p.Running())
}

func TestRunStage(t *testing.T) {
	var calls []string
	c := &fakeCache{}
	p := New(orderedStages(&calls, map[string]int{StageBridgedEvents: 2}), c, testLogger())

	res, err := p.RunStage(context.Background(), StageBridgedEvents)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, []string{StageBridgedEvents}, calls)
	assert.Equal(t, 0, c.count(), "single stage runs leave the cache alone by default")

	_, err = p.RunStage(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownStage)
}

func TestRunStage_WithClearOnStage(t *testing.T) {
	var calls []string
	c := &fakeCache{}
	p := New(orderedStages(&calls, nil), c, testLogger(), WithClearOnStage())

	_, err := p.RunStage(context.Background(), StageStakedEvents)
	require.NoError(t, err)
	assert.Equal(t, 1, c.count())
}

func TestRun_RecoveryAlertAfterUnhealthy(t *testing.T) {
	stage := &fakeStage{name: StageMultipliers, err: errors.New("boom")}
	alerts := &recordingAlerter{}
	p := New([]Stage{stage}, &fakeCache{}, testLogger(), WithAlerter(alerts))

	for i := 0; i < DefaultUnhealthyThreshold; i++ {
		_, err := p.Run(context.Background())
		require.Error(t, err)
	}
	assert.Equal(t, string(HealthStatusUnhealthy), p.Health()[0].Status)

	stage.err = nil
	_, err := p.Run(context.Background())
	require.NoError(t, err)

	types := alerts.types()
	assert.Equal(t, alert.AlertTypeRecovery, types[len(types)-2])
	assert.Equal(t, alert.AlertTypeRunSuccess, types[len(types)-1])
	assert.Equal(t, string(HealthStatusHealthy), p.Health()[0].Status)
}

func TestStageNamesFollowConfiguredOrder(t *testing.T) {
	var calls []string
	p := New(orderedStages(&calls, nil), &fakeCache{}, testLogger())
	assert.Equal(t, StageOrder, p.StageNames())
	assert.Len(t, p.Health(), len(StageOrder))
}
