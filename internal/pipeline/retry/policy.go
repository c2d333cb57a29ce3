package retry

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Policy describes an exponential backoff schedule.
type Policy struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	// Retryable decides whether an error is worth another attempt.
	// Nil means IsTransient.
	Retryable func(error) bool
	// OnRetry, when set, is called before each backoff sleep.
	OnRetry func(attempt int, err error)

	sleepFn  func(context.Context, time.Duration) error
	jitterFn func() float64
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2,
		Retryable:      IsTransient,
	}
}

// FixedPolicy makes at most attempts calls in total with a constant delay
// between them.
func FixedPolicy(attempts int, delay time.Duration, retryable func(error) bool) Policy {
	return Policy{
		MaxRetries:     max(attempts-1, 0),
		InitialBackoff: delay,
		MaxBackoff:     delay,
		BackoffFactor:  1,
		Retryable:      retryable,
		jitterFn:       func() float64 { return 1 },
	}
}

// Do runs fn and retries it while the error is retryable, up to
// p.MaxRetries additional attempts. Once retries are exhausted the last error
// is wrapped in a ChainError or DatabaseError according to kind.
func Do[T any](ctx context.Context, p Policy, op string, kind Kind, logger *slog.Logger, fn func(context.Context) (T, error)) (T, error) {
	if logger == nil {
		logger = slog.Default()
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}
	sleep := p.sleepFn
	if sleep == nil {
		sleep = sleepCtx
	}
	jitter := p.jitterFn
	if jitter == nil {
		jitter = defaultJitter
	}
	factor := p.BackoffFactor
	if factor < 1 {
		factor = 1
	}

	backoff := p.InitialBackoff
	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		var zero T
		if !retryable(err) {
			return zero, err
		}
		if attempt >= p.MaxRetries {
			logger.Error("operation failed after retries",
				"op", op,
				"attempts", attempt+1,
				"error", err,
			)
			return zero, wrapExhausted(kind, op, err)
		}

		wait := jitteredBackoff(backoff, p.MaxBackoff, jitter())
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}
		logger.Warn("retrying operation",
			"op", op,
			"attempt", attempt+1,
			"max_retries", p.MaxRetries,
			"sleep", wait,
			"error", err,
		)
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
		backoff = nextBackoff(backoff, p.MaxBackoff, factor)
	}
}

// WithRetry binds fn to a policy so call sites can compose it explicitly.
func WithRetry[T any](p Policy, op string, kind Kind, logger *slog.Logger, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return Do(ctx, p, op, kind, logger, fn)
	}
}

func jitteredBackoff(backoff, maxBackoff time.Duration, factor float64) time.Duration {
	d := time.Duration(float64(backoff) * factor)
	if maxBackoff > 0 && d > maxBackoff {
		return maxBackoff
	}
	return d
}

func nextBackoff(backoff, maxBackoff time.Duration, factor float64) time.Duration {
	next := time.Duration(float64(backoff) * factor)
	if maxBackoff > 0 && next > maxBackoff {
		return maxBackoff
	}
	return next
}

// defaultJitter returns a factor in [0.8, 1.2).
func defaultJitter() float64 {
	return 0.8 + rand.Float64()*0.4
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
