package chain

//go:generate mockgen -source=adapter.go -destination=mocks/mock_adapter.go -package=mocks

import (
	"context"
	"math/big"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/event"
)

// Distribution contract events consumed by the pipeline.
const (
	EventUserClaimLocked = "UserClaimLocked"
	EventUserStaked      = "UserStaked"
	EventUserWithdrawn   = "UserWithdrawn"
	EventUserClaimed     = "UserClaimed"
	EventOverplusBridged = "OverplusBridged"
)

// EventLogReader queries decoded contract logs for one closed block range.
type EventLogReader interface {
	FilterEvents(ctx context.Context, eventName string, fromBlock, toBlock uint64) ([]event.RawEvent, error)
	// EventInputs returns the ABI input names of an event in declaration order.
	EventInputs(eventName string) ([]string, error)
}

// BlockReader exposes the chain head and block timestamps.
type BlockReader interface {
	HeadBlock(ctx context.Context) (uint64, error)
	BlockTimestamp(ctx context.Context, block uint64) (time.Time, error)
}

// ContractReader performs view calls against the Distribution contract.
// A nil block means the latest block.
type ContractReader interface {
	UserMultiplier(ctx context.Context, poolID int64, user string, block *big.Int) (*big.Int, error)
	UserReward(ctx context.Context, poolID int64, user string, block *big.Int) (*big.Int, error)
	PoolVirtualDeposited(ctx context.Context, poolID int64) (*big.Int, error)
}

// DistributionReader is everything the pipeline needs from the chain.
type DistributionReader interface {
	EventLogReader
	BlockReader
	ContractReader
	Close()
}
