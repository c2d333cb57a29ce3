package blocktime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/chain"
	"github.com/MorpheusAIs/mor-stats-backend/internal/circuitbreaker"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
)

// ErrBeforeGenesis is returned when no block has a timestamp at or before the
// requested time.
var ErrBeforeGenesis = errors.New("no block at or before timestamp")

// Explorer answers block-by-timestamp lookups from an indexed source.
type Explorer interface {
	BlockAt(ctx context.Context, ts time.Time) (uint64, error)
}

// Resolver finds the last block mined at or before a timestamp. It asks the
// explorer first and falls back to a binary search over block headers.
type Resolver struct {
	blocks   chain.BlockReader
	explorer Explorer
	breaker  *circuitbreaker.Breaker
	logger   *slog.Logger
}

type Option func(*Resolver)

// WithExplorer enables the explorer lookup guarded by breaker.
func WithExplorer(e Explorer, breaker *circuitbreaker.Breaker) Option {
	return func(r *Resolver) {
		r.explorer = e
		r.breaker = breaker
	}
}

func NewResolver(blocks chain.BlockReader, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		blocks: blocks,
		logger: logger.With("component", "blocktime"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.explorer != nil && r.breaker == nil {
		r.breaker = circuitbreaker.New(circuitbreaker.Config{Name: "explorer"})
	}
	return r
}

func (r *Resolver) BlockAt(ctx context.Context, ts time.Time) (uint64, error) {
	if r.explorer != nil {
		block, err := circuitbreaker.Do(r.breaker, func() (uint64, error) {
			return r.explorer.BlockAt(ctx, ts)
		})
		if err == nil {
			metrics.BlockLookupsTotal.WithLabelValues("explorer", "ok").Inc()
			return block, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		metrics.BlockLookupsTotal.WithLabelValues("explorer", "error").Inc()
		r.logger.Warn("explorer block lookup failed, falling back to header search",
			"timestamp", ts.Unix(),
			"error", err,
		)
	}

	block, err := r.Search(ctx, ts)
	if err != nil {
		metrics.BlockLookupsTotal.WithLabelValues("search", "error").Inc()
		return 0, err
	}
	metrics.BlockLookupsTotal.WithLabelValues("search", "ok").Inc()
	return block, nil
}

// Search binary-searches block headers for the highest block whose
// timestamp is <= ts.
func (r *Resolver) Search(ctx context.Context, ts time.Time) (uint64, error) {
	head, err := r.blocks.HeadBlock(ctx)
	if err != nil {
		return 0, err
	}
	headTS, err := r.blocks.BlockTimestamp(ctx, head)
	if err != nil {
		return 0, err
	}
	if !headTS.After(ts) {
		return head, nil
	}

	lo, hi := uint64(1), head
	var found uint64
	for lo <= hi {
		mid := lo + (hi-lo)/2
		midTS, err := r.blocks.BlockTimestamp(ctx, mid)
		if err != nil {
			return 0, fmt.Errorf("search block for %d: %w", ts.Unix(), err)
		}
		if midTS.After(ts) {
			hi = mid - 1
			continue
		}
		found = mid
		lo = mid + 1
	}
	if found == 0 {
		return 0, fmt.Errorf("%w: %s", ErrBeforeGenesis, ts.UTC().Format(time.RFC3339))
	}
	return found, nil
}
