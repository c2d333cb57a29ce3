package stages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/chain"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/retry"
	"github.com/MorpheusAIs/mor-stats-backend/internal/store"
)

// BlockLocator maps a wall-clock time onto the last block mined at or before
// it.
type BlockLocator interface {
	BlockAt(ctx context.Context, ts time.Time) (uint64, error)
}

// StartBlock returns the first block a stage should fetch: one past the
// table watermark, or genesis when the table is empty. A watermark read
// failure is logged and also falls back to genesis; upserts make the replay
// harmless.
func StartBlock(ctx context.Context, wm store.WatermarkRepository, table string, genesis uint64, logger *slog.Logger) uint64 {
	last, ok, err := wm.LastProcessedBlock(ctx, table)
	if err != nil {
		logger.Warn("read watermark failed, starting from genesis",
			"table", table,
			"start_block", genesis,
			"error", err,
		)
		return genesis
	}
	if !ok {
		return genesis
	}
	metrics.StageWatermark.WithLabelValues(table).Set(float64(last))
	return last + 1
}

func headBlock(ctx context.Context, blocks chain.BlockReader, logger *slog.Logger) (uint64, error) {
	head, err := retry.Do(ctx, retry.DefaultPolicy(), "eth_blockNumber", retry.KindChain, logger, blocks.HeadBlock)
	if err != nil {
		return 0, fmt.Errorf("head block: %w", err)
	}
	return head, nil
}

// blockClock memoizes block timestamps for the duration of one stage run.
type blockClock struct {
	blocks chain.BlockReader
	logger *slog.Logger
	seen   map[uint64]time.Time
}

func newBlockClock(blocks chain.BlockReader, logger *slog.Logger) *blockClock {
	return &blockClock{blocks: blocks, logger: logger, seen: make(map[uint64]time.Time)}
}

func (c *blockClock) At(ctx context.Context, block uint64) (time.Time, error) {
	if ts, ok := c.seen[block]; ok {
		return ts, nil
	}
	op := fmt.Sprintf("eth_getBlockByNumber %d", block)
	ts, err := retry.Do(ctx, retry.DefaultPolicy(), op, retry.KindChain, c.logger, func(ctx context.Context) (time.Time, error) {
		return c.blocks.BlockTimestamp(ctx, block)
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("block %d timestamp: %w", block, err)
	}
	c.seen[block] = ts
	return ts, nil
}

// rateLimitPolicy retries provider throttling only, with a fixed delay.
// attempts counts every call, the first one included.
func rateLimitPolicy(stage string, attempts int, delay time.Duration) retry.Policy {
	p := retry.FixedPolicy(attempts, delay, retry.IsRateLimited)
	p.OnRetry = func(int, error) {
		metrics.RPCRateLimitRetries.WithLabelValues(stage).Inc()
	}
	return p
}

// sleepCtx waits d or until ctx is done.
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

func chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for len(items) > 0 {
		n := min(size, len(items))
		out = append(out, items[:n])
		items = items[n:]
	}
	return out
}
