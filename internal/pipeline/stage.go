package pipeline

import (
	"context"
	"time"
)

// Stage is one step of the ingestion pipeline. Run returns the number of
// rows it wrote.
type Stage interface {
	Name() string
	Run(ctx context.Context) (int, error)
}

// Stage names in execution order.
const (
	StageClaimLocked       = "claim_locked"
	StageMultipliers       = "multipliers"
	StageRewards           = "rewards"
	StageCirculatingSupply = "circulating_supply"
	StageStakedEvents      = "staked_events"
	StageWithdrawnEvents   = "withdrawn_events"
	StageBridgedEvents     = "bridged_events"
)

// StageOrder is the fixed order of a full run. Multipliers read claim-lock
// rows and rewards read multiplier rows, so the order matters.
var StageOrder = []string{
	StageClaimLocked,
	StageMultipliers,
	StageRewards,
	StageCirculatingSupply,
	StageStakedEvents,
	StageWithdrawnEvents,
	StageBridgedEvents,
}

// StageResult is the outcome of one stage execution.
type StageResult struct {
	Name     string        `json:"name"`
	Inserted int           `json:"inserted"`
	Duration time.Duration `json:"duration_ns"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// RunReport summarizes a full pipeline run.
type RunReport struct {
	RunID        string        `json:"run_id"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	Stages       []StageResult `json:"stages"`
	FailedStage  string        `json:"failed_stage,omitempty"`
	CacheCleared bool          `json:"cache_cleared"`
}

// Succeeded reports whether every stage ran without error.
func (r RunReport) Succeeded() bool {
	return r.FailedStage == "" && len(r.Stages) > 0
}

// Inserted is the total number of rows written by the run.
func (r RunReport) Inserted() int {
	total := 0
	for _, s := range r.Stages {
		total += s.Inserted
	}
	return total
}
