package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"slices"
	"sync/atomic"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/cache"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/store"
	"github.com/MorpheusAIs/mor-stats-backend/internal/tracing"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// Published metric keys. Each is also the read-cache key.
const (
	KeyStakingMetrics     = "staking_metrics"
	KeyGiveMorReward      = "give_mor_reward"
	KeyStakeInfo          = "stake_info"
	KeyTotalAndCircSupply = "total_and_circ_supply"
	KeyCodeMetrics        = "code_metrics"
)

// Keys lists every published metric in refresh order.
var Keys = []string{
	KeyStakingMetrics,
	KeyGiveMorReward,
	KeyStakeInfo,
	KeyTotalAndCircSupply,
	KeyCodeMetrics,
}

var ErrUnknownKey = errors.New("analytics: unknown metric key")

const pageSize = 10_000

// Repositories are the tables the metrics read.
type Repositories struct {
	Multipliers store.MultiplierRepository
	Rewards     store.RewardRepository
	Supply      store.SupplyRepository
	Emissions   store.EmissionRepository
	Staked      store.StakeEventRepository
}

// PoolReader reads pool state from the Distribution contract.
type PoolReader interface {
	PoolVirtualDeposited(ctx context.Context, poolID int64) (*big.Int, error)
}

type StakingMetrics struct {
	StakerAnalysis         StakerAnalysis        `json:"staker_analysis"`
	MultiplierAnalysis     MultiplierAnalysis    `json:"multiplier_analysis"`
	StakeRewardAnalysis    map[string]PoolReward `json:"stakereward_analysis"`
	EmissionRewardAnalysis EmissionReport        `json:"emissionreward_analysis"`
}

// Service computes the published metrics. A failing input degrades to a
// zeroed structure; Compute only fails for an unknown key.
type Service struct {
	repos  Repositories
	pool   PoolReader
	prices PriceSource
	cache  cache.ReadCache
	ttl    time.Duration
	logger *slog.Logger
	nowFn  func() time.Time

	lastRefresh atomic.Pointer[time.Time]
}

func NewService(repos Repositories, pool PoolReader, prices PriceSource, c cache.ReadCache, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repos:  repos,
		pool:   pool,
		prices: prices,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("component", "analytics"),
		nowFn:  time.Now,
	}
}

func IsKey(key string) bool {
	return slices.Contains(Keys, key)
}

// Get returns the cached JSON of key, computing and caching it on a miss.
func (s *Service) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if !IsKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return cache.WithCache(ctx, s.cache, key, s.ttl, func(ctx context.Context) (json.RawMessage, error) {
		return s.computeJSON(ctx, key)
	})
}

// Refresh recomputes every key and overwrites its cache entry.
func (s *Service) Refresh(ctx context.Context) error {
	var errs []error
	for _, key := range Keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := s.computeJSON(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			metrics.CacheErrorsTotal.WithLabelValues("set").Inc()
			errs = append(errs, fmt.Errorf("cache %s: %w", key, err))
		}
	}
	now := s.nowFn()
	s.lastRefresh.Store(&now)
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("read cache refresh incomplete", "error", err)
		return err
	}
	s.logger.Info("read cache refreshed", "keys", len(Keys))
	return nil
}

// LastRefresh is the time of the last Refresh, zero if none ran.
func (s *Service) LastRefresh() time.Time {
	if t := s.lastRefresh.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

func (s *Service) computeJSON(ctx context.Context, key string) (json.RawMessage, error) {
	v, err := s.Compute(ctx, key)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return raw, nil
}

// Compute builds the value published under key.
func (s *Service) Compute(ctx context.Context, key string) (any, error) {
	ctx, span := tracing.StartSpan(ctx, "analytics", "analytics.compute", attribute.String("key", key))
	start := time.Now()

	var v any
	switch key {
	case KeyStakingMetrics:
		v = s.stakingMetrics(ctx)
	case KeyGiveMorReward:
		v = s.rewardProjections(ctx)
	case KeyStakeInfo:
		v = WalletStakeInfo(s.loadMultipliers(ctx), s.nowFn())
	case KeyTotalAndCircSupply:
		v = s.supplyOverview(ctx)
	case KeyCodeMetrics:
		v = s.codeMetrics(ctx)
	default:
		err := fmt.Errorf("%w: %q", ErrUnknownKey, key)
		metrics.AnalyticsComputeTotal.WithLabelValues(key, "error").Inc()
		tracing.EndSpan(span, err)
		return nil, err
	}

	metrics.AnalyticsComputeTotal.WithLabelValues(key, "ok").Inc()
	metrics.AnalyticsComputeDuration.WithLabelValues(key).Observe(time.Since(start).Seconds())
	tracing.EndSpan(span, nil)
	return v, nil
}

func (s *Service) today() time.Time {
	return truncateDay(s.nowFn())
}

func (s *Service) stakingMetrics(ctx context.Context) StakingMetrics {
	now := s.nowFn()
	rows := s.loadMultipliers(ctx)
	emissions := s.emissionsUpToToday(ctx)

	staker := emptyStakerAnalysis()
	if len(rows) > 0 {
		staker = AnalyzeStakers(rows, now, s.prices.Quote(ctx), CapitalEmissionToday(emissions))
	}

	var todayRow *model.Emission
	if len(emissions) > 0 {
		row, err := s.repos.Emissions.GetByDate(ctx, s.today())
		if err != nil {
			s.logger.Warn("load today's emissions failed", "error", err)
		}
		todayRow = row
	}

	latest, err := s.repos.Rewards.Latest(ctx)
	if err != nil {
		s.logger.Warn("load latest reward summary failed", "error", err)
		latest = nil
	}

	return StakingMetrics{
		StakerAnalysis:         staker,
		MultiplierAnalysis:     AverageMultipliers(rows, now),
		StakeRewardAnalysis:    PoolRewardsSummary(latest),
		EmissionRewardAnalysis: EmissionSchedule(emissions, todayRow),
	}
}

func (s *Service) rewardProjections(ctx context.Context) RewardProjection {
	emission := CapitalEmissionToday(s.emissionsUpToToday(ctx))
	prices := s.prices.Quote(ctx)
	if !prices.Complete() {
		s.logger.Warn("missing price data, publishing zero projections",
			"mor", prices.MOR.Valid,
			"steth", prices.StETH.Valid,
		)
		return zeroProjection()
	}
	deposited, err := s.pool.PoolVirtualDeposited(ctx, model.PoolCapital)
	if err != nil {
		s.logger.Error("read capital pool deposit failed", "error", err)
		return zeroProjection()
	}
	return RewardProjections(emission, prices, decimal.NewFromBigInt(deposited, -18))
}

func (s *Service) supplyOverview(ctx context.Context) SupplyOverview {
	circulating, err := loadAll(ctx, s.repos.Supply.GetAll)
	if err != nil {
		s.logger.Warn("load circulating supply failed", "error", err)
		circulating = nil
	}
	return BuildSupplyOverview(s.emissionsUpToToday(ctx), circulating, s.nowFn())
}

func (s *Service) codeMetrics(ctx context.Context) CodeMetrics {
	total, err := s.repos.Staked.SumByPool(ctx, model.PoolCode)
	if err != nil {
		s.logger.Error("sum code pool stakes failed", "error", err)
		return CodeMetrics{TotalWeightsAssigned: "0"}
	}
	users, err := s.repos.Staked.UniqueUsers(ctx, model.PoolCode)
	if err != nil {
		s.logger.Error("count code contributors failed", "error", err)
		return CodeMetrics{TotalWeightsAssigned: "0"}
	}
	return CodeMetrics{TotalWeightsAssigned: total.String(), UniqueContributors: users}
}

func (s *Service) loadMultipliers(ctx context.Context) []model.UserMultiplier {
	rows, err := loadAll(ctx, s.repos.Multipliers.GetAll)
	if err != nil {
		s.logger.Warn("load multipliers failed", "error", err)
		return nil
	}
	if len(rows) == 0 {
		s.logger.Warn("no multiplier rows")
	}
	return rows
}

func (s *Service) emissionsUpToToday(ctx context.Context) []model.Emission {
	rows, err := s.repos.Emissions.UpTo(ctx, s.today())
	if err != nil {
		s.logger.Warn("load emission schedule failed", "error", err)
		return nil
	}
	return rows
}

func loadAll[T any](ctx context.Context, page func(ctx context.Context, limit, offset int) ([]T, error)) ([]T, error) {
	var out []T
	for offset := 0; ; offset += pageSize {
		rows, err := page(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
		if len(rows) < pageSize {
			return out, nil
		}
	}
}
