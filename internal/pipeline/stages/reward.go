package stages

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/retry"
	"github.com/MorpheusAIs/mor-stats-backend/internal/store"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var _ pipeline.Stage = (*RewardStage)(nil)

const rewardLookback = 24 * time.Hour

// RewardConfig tunes the reward summary.
type RewardConfig struct {
	BatchSize  int
	BatchDelay time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// RewardStage appends one reward_summary row: pending rewards of every active
// staker now and 24 hours ago, summed per pool.
type RewardStage struct {
	chain       ChainReader
	locator     BlockLocator
	multipliers store.MultiplierRepository
	rewards     store.RewardRepository
	cfg         RewardConfig
	logger      *slog.Logger
	nowFn       func() time.Time
	sleepFn     func(context.Context, time.Duration) error
}

func NewRewardStage(c ChainReader, locator BlockLocator, multipliers store.MultiplierRepository, rewards store.RewardRepository, cfg RewardConfig, logger *slog.Logger) *RewardStage {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &RewardStage{
		chain:       c,
		locator:     locator,
		multipliers: multipliers,
		rewards:     rewards,
		cfg:         cfg,
		logger:      logger.With("component", "stage", "stage", pipeline.StageRewards),
		nowFn:       time.Now,
		sleepFn:     sleepCtx,
	}
}

func (s *RewardStage) Name() string { return pipeline.StageRewards }

type userReward struct {
	pool  int64
	now   decimal.Decimal
	daily decimal.Decimal
}

func (s *RewardStage) Run(ctx context.Context) (int, error) {
	current, err := headBlock(ctx, s.chain, s.logger)
	if err != nil {
		return 0, err
	}
	past, err := s.locator.BlockAt(ctx, s.nowFn().Add(-rewardLookback))
	if err != nil {
		return 0, fmt.Errorf("block 24h ago: %w", err)
	}

	pools, err := s.multipliers.ActiveUserPools(ctx)
	if err != nil {
		return 0, fmt.Errorf("load active stakers: %w", err)
	}
	s.logger.Info("computing rewards",
		"stakers", len(pools),
		"block_current", current,
		"block_past", past,
	)

	policy := rateLimitPolicy(pipeline.StageRewards, s.cfg.MaxRetries, s.cfg.RetryDelay)
	curBlock := new(big.Int).SetUint64(current)
	pastBlock := new(big.Int).SetUint64(past)

	results := make([]userReward, len(pools))
	batches := chunks(pools, s.cfg.BatchSize)
	offset := 0
	for i, batch := range batches {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.BatchSize)
		for j, up := range batch {
			idx := offset + j
			g.Go(func() error {
				now := s.readReward(gctx, policy, up, curBlock)
				then := s.readReward(gctx, policy, up, pastBlock)
				results[idx] = userReward{pool: up.PoolID, now: now, daily: now.Sub(then)}
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

	row := summarize(results)
	row.Timestamp = s.nowFn().UTC()
	row.CalculationBlockCurrent = int64(current)
	row.CalculationBlockPast = int64(past)

	if _, err := s.rewards.Insert(ctx, row); err != nil {
		return 0, fmt.Errorf("insert reward summary: %w", err)
	}
	s.logger.Info("reward summary stored",
		"daily_reward", row.DailyReward.String(),
		"total_reward", row.TotalReward.String(),
	)
	return 1, nil
}

// readReward returns zero when the read fails.
func (s *RewardStage) readReward(ctx context.Context, policy retry.Policy, up model.UserPool, block *big.Int) decimal.Decimal {
	op := fmt.Sprintf("getCurrentUserReward(%d, %s)@%s", up.PoolID, up.UserAddress, block)
	v, err := retry.Do(ctx, policy, op, retry.KindChain, s.logger, func(ctx context.Context) (*big.Int, error) {
		return s.chain.UserReward(ctx, up.PoolID, up.UserAddress, block)
	})
	if err != nil {
		metrics.StageRecordsDegraded.WithLabelValues(pipeline.StageRewards, "zero_reward").Inc()
		s.logger.Warn("reward read failed, using zero",
			"user", up.UserAddress,
			"pool_id", up.PoolID,
			"block", block.String(),
			"error", err,
		)
		return decimal.Zero
	}
	return weiToEther(v)
}

func summarize(results []userReward) model.RewardSummary {
	var row model.RewardSummary
	for _, r := range results {
		switch r.pool {
		case model.PoolCapital:
			row.DailyPoolReward0 = row.DailyPoolReward0.Add(r.daily)
			row.TotalRewardPool0 = row.TotalRewardPool0.Add(r.now)
		case model.PoolCode:
			row.DailyPoolReward1 = row.DailyPoolReward1.Add(r.daily)
			row.TotalRewardPool1 = row.TotalRewardPool1.Add(r.now)
		default:
			continue
		}
	}
	row.DailyReward = row.DailyPoolReward0.Add(row.DailyPoolReward1)
	row.TotalReward = row.TotalRewardPool0.Add(row.TotalRewardPool1)
	return row
}
