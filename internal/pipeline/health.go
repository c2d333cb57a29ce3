package pipeline

import (
	"slices"
	"sync"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
)

// HealthStatus represents the health state of a stage.
type HealthStatus string

const (
	HealthStatusUnknown   HealthStatus = "UNKNOWN"
	HealthStatusHealthy   HealthStatus = "HEALTHY"
	HealthStatusDegraded  HealthStatus = "DEGRADED"
	HealthStatusUnhealthy HealthStatus = "UNHEALTHY"

	// DefaultUnhealthyThreshold is the number of consecutive failed runs
	// before a stage is considered unhealthy.
	DefaultUnhealthyThreshold = 3

	// DefaultDegradedLatencyThreshold is the P95 stage duration above which
	// a stage is considered degraded.
	DefaultDegradedLatencyThreshold = 30 * time.Minute

	latencyWindowSize = 10
)

// healthGauge maps a status onto the health_status gauge.
func healthGauge(s HealthStatus) float64 {
	switch s {
	case HealthStatusHealthy:
		return 1
	case HealthStatusDegraded:
		return 0.5
	default:
		return 0
	}
}

// StageHealth tracks the health state of a single stage across runs.
type StageHealth struct {
	mu                       sync.RWMutex
	stage                    string
	status                   HealthStatus
	consecutiveFailures      int
	lastSuccessAt            *time.Time
	lastFailureAt            *time.Time
	lastError                string
	lastInserted             int
	unhealthyThreshold       int
	recentLatencies          []time.Duration
	degradedLatencyThreshold time.Duration
	nowFn                    func() time.Time
}

func NewStageHealth(stage string) *StageHealth {
	return &StageHealth{
		stage:                    stage,
		status:                   HealthStatusUnknown,
		unhealthyThreshold:       DefaultUnhealthyThreshold,
		recentLatencies:          make([]time.Duration, 0, latencyWindowSize),
		degradedLatencyThreshold: DefaultDegradedLatencyThreshold,
		nowFn:                    time.Now,
	}
}

// RecordSuccess records a successful stage run and returns true if it
// represents a recovery from an unhealthy state.
func (h *StageHealth) RecordSuccess(inserted int, d time.Duration) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.nowFn()
	wasUnhealthy := h.status == HealthStatusUnhealthy
	h.pushLatency(d)
	h.consecutiveFailures = 0
	h.lastSuccessAt = &now
	h.lastError = ""
	h.lastInserted = inserted
	if h.isLatencyDegraded() {
		h.status = HealthStatusDegraded
	} else {
		h.status = HealthStatusHealthy
	}
	h.publish()
	return wasUnhealthy
}

// RecordFailure records a failed stage run. Returns true if the stage
// transitioned to unhealthy on this call.
func (h *StageHealth) RecordFailure(err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.nowFn()
	h.consecutiveFailures++
	h.lastFailureAt = &now
	if err != nil {
		h.lastError = err.Error()
	}
	transitioned := false
	if h.consecutiveFailures >= h.unhealthyThreshold && h.status != HealthStatusUnhealthy {
		h.status = HealthStatusUnhealthy
		transitioned = true
	}
	h.publish()
	return transitioned
}

// publish must be called with mu held.
func (h *StageHealth) publish() {
	metrics.PipelineHealthStatus.WithLabelValues(h.stage).Set(healthGauge(h.status))
	metrics.PipelineConsecutiveFailures.WithLabelValues(h.stage).Set(float64(h.consecutiveFailures))
}

// pushLatency must be called with mu held.
func (h *StageHealth) pushLatency(d time.Duration) {
	if len(h.recentLatencies) >= latencyWindowSize {
		h.recentLatencies = h.recentLatencies[1:]
	}
	h.recentLatencies = append(h.recentLatencies, d)
}

// isLatencyDegraded must be called with mu held.
func (h *StageHealth) isLatencyDegraded() bool {
	if len(h.recentLatencies) < 2 {
		return false
	}
	return h.percentileLatency(95) > h.degradedLatencyThreshold
}

// percentileLatency must be called with mu held.
func (h *StageHealth) percentileLatency(pct int) time.Duration {
	n := len(h.recentLatencies)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(h.recentLatencies)
	slices.Sort(sorted)
	idx := (pct*n - 1) / 100
	idx = max(0, min(idx, n-1))
	return sorted[idx]
}

func (h *StageHealth) Snapshot() HealthSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HealthSnapshot{
		Stage:               h.stage,
		Status:              string(h.status),
		ConsecutiveFailures: h.consecutiveFailures,
		LastSuccessAt:       h.lastSuccessAt,
		LastFailureAt:       h.lastFailureAt,
		LastError:           h.lastError,
		LastInserted:        h.lastInserted,
	}
}

// HealthSnapshot is a point-in-time view of stage health (JSON-safe).
type HealthSnapshot struct {
	Stage               string     `json:"stage"`
	Status              string     `json:"status"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastSuccessAt       *time.Time `json:"last_success_at,omitempty"`
	LastFailureAt       *time.Time `json:"last_failure_at,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
	LastInserted        int        `json:"last_inserted"`
}
