package circuitbreaker

import (
	"cmp"
	"errors"
	"sync"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker guards calls to one external HTTP dependency (block explorer,
// price feed). After FailureThreshold consecutive failures it rejects calls
// for OpenTimeout, then lets trial calls through until SuccessThreshold of
// them succeed.
type Breaker struct {
	name             string
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
	nowFn            func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time
}

type Config struct {
	// Name labels the state gauge.
	Name             string
	FailureThreshold int           // default 5
	SuccessThreshold int           // default 2
	OpenTimeout      time.Duration // default 30s
}

func New(cfg Config) *Breaker {
	b := &Breaker{
		name:             cmp.Or(cfg.Name, "default"),
		failureThreshold: positive(cfg.FailureThreshold, 5),
		successThreshold: positive(cfg.SuccessThreshold, 2),
		openTimeout:      positive(cfg.OpenTimeout, 30*time.Second),
		nowFn:            time.Now,
	}
	metrics.CircuitBreakerState.WithLabelValues(b.name).Set(float64(StateClosed))
	return b
}

func positive[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

// Do runs fn when the breaker allows it and records the outcome.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	if err := b.Allow(); err != nil {
		return zero, err
	}
	v, err := fn()
	if err != nil {
		b.RecordFailure()
		return zero, err
	}
	b.RecordSuccess()
	return v, nil
}

// Allow returns ErrCircuitOpen until the open timeout has passed.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateOpen {
		return nil
	}
	if b.nowFn().Sub(b.openedAt) <= b.openTimeout {
		return ErrCircuitOpen
	}
	b.transition(StateHalfOpen)
	return nil
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state != StateHalfOpen {
		return
	}
	b.successes++
	if b.successes >= b.successThreshold {
		b.transition(StateClosed)
	}
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.successes = 0
	switch {
	case b.state == StateHalfOpen,
		b.state == StateClosed && b.failures >= b.failureThreshold:
		b.openedAt = b.nowFn()
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	b.state = to
	b.successes = 0
	if to == StateClosed {
		b.failures = 0
	}
	metrics.CircuitBreakerState.WithLabelValues(b.name).Set(float64(to))
}
