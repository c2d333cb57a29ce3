package stages

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/chain"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/retry"
	"github.com/MorpheusAIs/mor-stats-backend/internal/store"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	_ pipeline.Stage = (*EventStage[model.ClaimLockEvent])(nil)
	_ pipeline.Stage = (*MultiplierStage)(nil)
)

// ChainReader is the chain surface used by the snapshot stages.
type ChainReader interface {
	chain.BlockReader
	chain.ContractReader
}

// MultiplierConfig tunes the multiplier snapshot.
type MultiplierConfig struct {
	BatchSize  int
	BatchDelay time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// MultiplierStage rebuilds the user_multiplier snapshot from the latest
// claim-lock of every (user, pool).
type MultiplierStage struct {
	chain       ChainReader
	claimLocks  store.ClaimLockRepository
	multipliers store.MultiplierRepository
	cfg         MultiplierConfig
	logger      *slog.Logger
	sleepFn     func(context.Context, time.Duration) error
}

func NewMultiplierStage(c ChainReader, claimLocks store.ClaimLockRepository, multipliers store.MultiplierRepository, cfg MultiplierConfig, logger *slog.Logger) *MultiplierStage {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &MultiplierStage{
		chain:       c,
		claimLocks:  claimLocks,
		multipliers: multipliers,
		cfg:         cfg,
		logger:      logger.With("component", "stage", "stage", pipeline.StageMultipliers),
		sleepFn:     sleepCtx,
	}
}

func (s *MultiplierStage) Name() string { return pipeline.StageMultipliers }

func (s *MultiplierStage) Run(ctx context.Context) (int, error) {
	locks, err := s.claimLocks.UniqueUserPools(ctx)
	if err != nil {
		return 0, fmt.Errorf("load claim locks: %w", err)
	}
	if len(locks) == 0 {
		s.logger.Info("no claim locks, nothing to snapshot")
		return 0, nil
	}

	head, err := headBlock(ctx, s.chain, s.logger)
	if err != nil {
		return 0, err
	}
	block := new(big.Int).SetUint64(head)
	policy := rateLimitPolicy(pipeline.StageMultipliers, s.cfg.MaxRetries, s.cfg.RetryDelay)

	rows := make([]model.UserMultiplier, len(locks))
	batches := chunks(locks, s.cfg.BatchSize)
	s.logger.Info("computing multipliers",
		"records", len(locks),
		"batches", len(batches),
		"block", head,
	)

	offset := 0
	for i, batch := range batches {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.BatchSize)
		for j, lock := range batch {
			idx := offset + j
			g.Go(func() error {
				rows[idx] = s.snapshotRow(gctx, policy, block, lock)
				return nil
			})
		}
		_ = g.Wait()
		offset += len(batch)

		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if i < len(batches)-1 {
			if err := s.sleepFn(ctx, s.cfg.BatchDelay); err != nil {
				return 0, err
			}
		}
	}

	written, err := s.multipliers.Recompute(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("recompute multipliers: %w", err)
	}
	return written, nil
}

// snapshotRow never fails: a multiplier that cannot be read is stored as
// null.
func (s *MultiplierStage) snapshotRow(ctx context.Context, policy retry.Policy, block *big.Int, lock model.ClaimLockEvent) model.UserMultiplier {
	row := model.UserMultiplier{
		UserClaimLockedStart: lock.ClaimLockStart,
		UserClaimLockedEnd:   lock.ClaimLockEnd,
		Timestamp:            lock.Timestamp,
		TransactionHash:      lock.TransactionHash,
		BlockNumber:          block.Int64(),
		PoolID:               lock.PoolID,
		UserAddress:          lock.UserAddress,
	}
	op := fmt.Sprintf("getCurrentUserMultiplier(%d, %s)", lock.PoolID, lock.UserAddress)
	v, err := retry.Do(ctx, policy, op, retry.KindChain, s.logger, func(ctx context.Context) (*big.Int, error) {
		return s.chain.UserMultiplier(ctx, lock.PoolID, lock.UserAddress, block)
	})
	if err != nil {
		metrics.StageRecordsDegraded.WithLabelValues(pipeline.StageMultipliers, "null_multiplier").Inc()
		s.logger.Warn("multiplier read failed, storing null",
			"user", lock.UserAddress,
			"pool_id", lock.PoolID,
			"error", err,
		)
		return row
	}
	row.Multiplier = decimal.NewNullDecimal(decimal.NewFromBigInt(v, 0))
	return row
}
