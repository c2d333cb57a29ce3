package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStageHealth_RecordSuccess(t *testing.T) {
	h := NewStageHealth("claim_locked")
	recovered := h.RecordSuccess(12, time.Second)
	assert.False(t, recovered)

	snap := h.Snapshot()
	assert.Equal(t, string(HealthStatusHealthy), snap.Status)
	assert.Equal(t, 0, snap.ConsecutiveFailures)
	assert.Equal(t, 12, snap.LastInserted)
	assert.NotNil(t, snap.LastSuccessAt)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.PipelineHealthStatus.WithLabelValues("claim_locked")))
}

func TestStageHealth_RecordFailure_Threshold(t *testing.T) {
	h := NewStageHealth("rewards")
	for i := 0; i < DefaultUnhealthyThreshold-1; i++ {
		assert.False(t, h.RecordFailure(errors.New("rpc down")), "should not transition before threshold")
	}

	assert.True(t, h.RecordFailure(errors.New("rpc down")), "should transition at threshold")
	assert.False(t, h.RecordFailure(errors.New("rpc down")), "transition is reported once")

	snap := h.Snapshot()
	assert.Equal(t, string(HealthStatusUnhealthy), snap.Status)
	assert.Equal(t, "rpc down", snap.LastError)
	assert.Equal(t, float64(DefaultUnhealthyThreshold+1),
		testutil.ToFloat64(metrics.PipelineConsecutiveFailures.WithLabelValues("rewards")))
}

func TestStageHealth_RecoveryAfterUnhealthy(t *testing.T) {
	h := NewStageHealth("multipliers")
	for i := 0; i < DefaultUnhealthyThreshold; i++ {
		h.RecordFailure(errors.New("boom"))
	}

	assert.True(t, h.RecordSuccess(5, time.Second))
	snap := h.Snapshot()
	assert.Equal(t, string(HealthStatusHealthy), snap.Status)
	assert.Empty(t, snap.LastError)
}

func TestStageHealth_SlowRunsAreDegraded(t *testing.T) {
	h := NewStageHealth("circulating_supply")
	for i := 0; i < latencyWindowSize; i++ {
		h.RecordSuccess(0, time.Hour)
	}
	assert.Equal(t, string(HealthStatusDegraded), h.Snapshot().Status)

	for i := 0; i < latencyWindowSize; i++ {
		h.RecordSuccess(0, time.Minute)
	}
	assert.Equal(t, string(HealthStatusHealthy), h.Snapshot().Status)
}

func TestStageHealth_PercentileLatency(t *testing.T) {
	h := NewStageHealth("x")
	for _, d := range []time.Duration{5, 1, 4, 2, 3} {
		h.pushLatency(d * time.Second)
	}
	assert.Equal(t, 5*time.Second, h.percentileLatency(95))
	assert.Equal(t, 3*time.Second, h.percentileLatency(50))
}
