package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/MorpheusAIs/mor-stats-backend/internal/alert"
	"github.com/MorpheusAIs/mor-stats-backend/internal/analytics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/cache"
	"github.com/MorpheusAIs/mor-stats-backend/internal/chain/blocktime"
	"github.com/MorpheusAIs/mor-stats-backend/internal/chain/ethereum"
	"github.com/MorpheusAIs/mor-stats-backend/internal/circuitbreaker"
	"github.com/MorpheusAIs/mor-stats-backend/internal/config"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/fetcher"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/retry"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/stages"
	"github.com/MorpheusAIs/mor-stats-backend/internal/store/postgres"
	redispkg "github.com/MorpheusAIs/mor-stats-backend/internal/store/redis"
	"github.com/MorpheusAIs/mor-stats-backend/internal/tracing"
)

// repositories holds every Postgres repository over one pool.
type repositories struct {
	claimLocks  *postgres.ClaimLockRepo
	staked      *postgres.StakeEventRepo
	withdrawn   *postgres.StakeEventRepo
	bridged     *postgres.BridgedEventRepo
	multipliers *postgres.MultiplierRepo
	rewards     *postgres.RewardRepo
	supply      *postgres.SupplyRepo
	emissions   *postgres.EmissionRepo
	watermarks  *postgres.WatermarkRepo
}

func newRepositories(db *postgres.DB) repositories {
	return repositories{
		claimLocks:  postgres.NewClaimLockRepo(db),
		staked:      postgres.NewStakedEventRepo(db),
		withdrawn:   postgres.NewWithdrawnEventRepo(db),
		bridged:     postgres.NewBridgedEventRepo(db),
		multipliers: postgres.NewMultiplierRepo(db),
		rewards:     postgres.NewRewardRepo(db),
		supply:      postgres.NewSupplyRepo(db),
		emissions:   postgres.NewEmissionRepo(db),
		watermarks:  postgres.NewWatermarkRepo(db),
	}
}

// app is the set of long-lived resources a command works with. Fields a
// command does not need stay nil.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	db        *postgres.DB
	repos     repositories
	readCache cache.ReadCache
	client    *ethereum.Client
	alerter   alert.Alerter
	pipeline  *pipeline.Pipeline
	analytics *analytics.Service

	closers []func() error
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", "error", err)
		}
	}
	a.closers = nil
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

type appOptions struct {
	migrate   bool
	pipeline  bool
	analytics bool
}

// newApp connects to Postgres and builds the components opts asks for. The
// returned app must be closed even when an error is returned.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    programName,
		ServiceVersion: version,
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
	})
	if err != nil {
		return a, fmt.Errorf("initialize tracing: %w", err)
	}
	a.onClose(func() error { return shutdownTracing(context.Background()) })
	if cfg.Tracing.Endpoint != "" {
		logger.Info("tracing enabled", "endpoint", cfg.Tracing.Endpoint)
	}

	db, err := postgres.New(ctx, postgres.Config{
		URL:             cfg.DB.URL,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		Logger:          logger,
	})
	if err != nil {
		return a, fmt.Errorf("connect to database %s: %w", maskCredentials(cfg.DB.URL), err)
	}
	a.db = db
	a.onClose(db.Close)
	a.repos = newRepositories(db)
	logger.Info("connected to database", "url", maskCredentials(cfg.DB.URL))

	if opts.migrate {
		if err := db.RunMigrations(ctx, postgres.Migrations); err != nil {
			return a, fmt.Errorf("run migrations: %w", err)
		}
	}

	if !opts.pipeline && !opts.analytics {
		return a, nil
	}

	if err := a.openReadCache(ctx); err != nil {
		return a, err
	}

	client, err := ethereum.Dial(ctx, ethereum.Options{
		RPCURL:              cfg.Chain.RPCURL,
		FallbackURLs:        cfg.Chain.FallbackRPCURLs,
		ChainID:             cfg.Chain.ChainID,
		DistributionAddress: cfg.Chain.DistributionAddress,
		RPS:                 cfg.Chain.RPS,
		Burst:               cfg.Chain.Burst,
		CallTimeout:         cfg.Chain.CallTimeout,
	}, logger)
	if err != nil {
		return a, fmt.Errorf("dial ethereum: %w", err)
	}
	a.client = client
	a.onClose(func() error { client.Close(); return nil })

	if opts.pipeline {
		a.alerter = alert.FromConfig(cfg.Alert.SlackWebhookURL, cfg.Alert.WebhookURL, cfg.Alert.Cooldown, logger)
		a.pipeline = a.buildPipeline()
	}
	if opts.analytics {
		a.analytics = analytics.NewService(analytics.Repositories{
			Multipliers: a.repos.multipliers,
			Rewards:     a.repos.rewards,
			Supply:      a.repos.supply,
			Emissions:   a.repos.emissions,
			Staked:      a.repos.staked,
		}, client, analytics.NewCoinGecko(cfg.Prices.CoinGeckoURL, cfg.Prices.Timeout, logger), a.readCache, cfg.Cache.TTL, logger)
	}
	return a, nil
}

// openReadCache selects Redis when a URL is configured and the in-process
// LRU otherwise.
func (a *app) openReadCache(ctx context.Context) error {
	if a.cfg.Redis.URL == "" {
		a.readCache = cache.NewMemory(a.cfg.Cache.MaxSize, a.cfg.Cache.TTL)
		a.logger.Info("using in-process read cache", "max_size", a.cfg.Cache.MaxSize)
		return nil
	}
	rc, err := redispkg.NewReadCache(ctx, a.cfg.Redis.URL, a.cfg.Redis.KeyPrefix)
	if err != nil {
		return fmt.Errorf("connect to redis %s: %w", maskCredentials(a.cfg.Redis.URL), err)
	}
	a.readCache = rc
	a.onClose(rc.Close)
	a.logger.Info("using redis read cache", "url", maskCredentials(a.cfg.Redis.URL), "prefix", a.cfg.Redis.KeyPrefix)
	return nil
}

func (a *app) buildPipeline() *pipeline.Pipeline {
	cfg := a.cfg
	logger := a.logger

	// Rate-limited log queries are retried on a fixed delay; everything else
	// is left to the stage.
	source := fetcher.New(a.client, logger, fetcher.WithBatchRetry(
		retry.FixedPolicy(cfg.Pipeline.MaxRetries, cfg.Pipeline.RetryDelay, retry.IsRateLimited),
	))

	var resolverOpts []blocktime.Option
	if cfg.Etherscan.APIKey != "" {
		explorer := blocktime.NewEtherscan(cfg.Etherscan.BaseURL, cfg.Etherscan.APIKey, cfg.Etherscan.Timeout)
		resolverOpts = append(resolverOpts, blocktime.WithExplorer(explorer, circuitbreaker.New(circuitbreaker.Config{Name: "etherscan"})))
	}
	locator := blocktime.NewResolver(a.client, logger, resolverOpts...)

	deps := stages.EventDeps{
		Source:     source,
		Blocks:     a.client,
		Watermark:  a.repos.watermarks,
		StartBlock: cfg.Pipeline.StartBlock,
		BatchSize:  cfg.Pipeline.BatchSize,
		Logger:     logger,
	}
	batch := stages.MultiplierConfig{
		BatchSize:  cfg.Pipeline.MultiplierBatchSize,
		BatchDelay: cfg.Pipeline.MultiplierBatchDelay,
		MaxRetries: cfg.Pipeline.MaxRetries,
		RetryDelay: cfg.Pipeline.RetryDelay,
	}

	all := []pipeline.Stage{
		stages.NewClaimLockedStage(deps, a.repos.claimLocks),
		stages.NewMultiplierStage(a.client, a.repos.claimLocks, a.repos.multipliers, batch, logger),
		stages.NewRewardStage(a.client, locator, a.repos.multipliers, a.repos.rewards, stages.RewardConfig{
			BatchSize:  cfg.Pipeline.MultiplierBatchSize,
			BatchDelay: cfg.Pipeline.RewardBatchDelay,
			MaxRetries: cfg.Pipeline.MaxRetries,
			RetryDelay: cfg.Pipeline.RetryDelay,
		}, logger),
		stages.NewSupplyStage(source, a.client, locator, a.repos.supply, cfg.Pipeline.BatchSize, logger),
		stages.NewStakedStage(deps, a.repos.staked),
		stages.NewWithdrawnStage(deps, a.repos.withdrawn),
		stages.NewBridgedStage(deps, a.repos.bridged),
	}

	return pipeline.New(all, a.readCache, logger, pipeline.WithAlerter(a.alerter), pipeline.WithClearOnStage())
}

// maskCredentials hides the userinfo part of a connection URL.
func maskCredentials(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = nil
	masked := u.String()
	scheme := u.Scheme + "://"
	return scheme + "***@" + masked[len(scheme):]
}
