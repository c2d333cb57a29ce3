package store

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/shopspring/decimal"
)

// ClaimLockRepository provides access to user_claim_locked rows.
type ClaimLockRepository interface {
	// BulkUpsert inserts rows, skipping transaction hashes already stored.
	// It returns the number of rows actually inserted.
	BulkUpsert(ctx context.Context, rows []model.ClaimLockEvent) (int, error)
	GetByTxHash(ctx context.Context, txHash string) (*model.ClaimLockEvent, error)
	GetAll(ctx context.Context, limit, offset int) ([]model.ClaimLockEvent, error)
	Count(ctx context.Context) (int64, error)
	// UniqueUserPools returns the latest claim-lock per (user, pool).
	UniqueUserPools(ctx context.Context) ([]model.ClaimLockEvent, error)
}

// StakeEventRepository provides access to one of the staked/withdrawn event tables.
type StakeEventRepository interface {
	Table() string
	BulkUpsert(ctx context.Context, rows []model.StakeEvent) (int, error)
	GetByNaturalKey(ctx context.Context, txHash string, blockNumber int64) (*model.StakeEvent, error)
	GetAll(ctx context.Context, limit, offset int) ([]model.StakeEvent, error)
	Count(ctx context.Context) (int64, error)
	SumByPool(ctx context.Context, poolID int64) (decimal.Decimal, error)
	UniqueUsers(ctx context.Context, poolID int64) (int64, error)
}

// BridgedEventRepository provides access to overplus_bridged_events rows.
type BridgedEventRepository interface {
	BulkUpsert(ctx context.Context, rows []model.OverplusBridgedEvent) (int, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (*model.OverplusBridgedEvent, error)
	GetAll(ctx context.Context, limit, offset int) ([]model.OverplusBridgedEvent, error)
	Count(ctx context.Context) (int64, error)
}

// MultiplierRepository manages the user_multiplier snapshot.
type MultiplierRepository interface {
	// Recompute replaces the whole snapshot with rows in one transaction.
	Recompute(ctx context.Context, rows []model.UserMultiplier) (int, error)
	GetAll(ctx context.Context, limit, offset int) ([]model.UserMultiplier, error)
	Count(ctx context.Context) (int64, error)
	ActiveUserPools(ctx context.Context) ([]model.UserPool, error)
	GetByUserPool(ctx context.Context, user string, poolID int64) (*model.UserMultiplier, error)
}

type RewardRepository interface {
	Insert(ctx context.Context, row model.RewardSummary) (int64, error)
	Latest(ctx context.Context) (*model.RewardSummary, error)
	GetAll(ctx context.Context, limit, offset int) ([]model.RewardSummary, error)
	Count(ctx context.Context) (int64, error)
}

type SupplyRepository interface {
	BulkUpsert(ctx context.Context, rows []model.CirculatingSupply) (int, error)
	GetByDate(ctx context.Context, date string) (*model.CirculatingSupply, error)
	// Latest returns the row with the newest block timestamp.
	Latest(ctx context.Context) (*model.CirculatingSupply, error)
	GetAll(ctx context.Context, limit, offset int) ([]model.CirculatingSupply, error)
	Count(ctx context.Context) (int64, error)
}

type EmissionRepository interface {
	BulkUpsert(ctx context.Context, rows []model.Emission) (int, error)
	GetByDate(ctx context.Context, date time.Time) (*model.Emission, error)
	// UpTo returns rows dated on or before date, oldest first.
	UpTo(ctx context.Context, date time.Time) ([]model.Emission, error)
	GetAll(ctx context.Context, limit, offset int) ([]model.Emission, error)
	Count(ctx context.Context) (int64, error)
}

// WatermarkRepository reports the highest block number stored in an event table.
type WatermarkRepository interface {
	LastProcessedBlock(ctx context.Context, table string) (uint64, bool, error)
}
