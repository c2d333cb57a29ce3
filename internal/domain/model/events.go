package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClaimLockEvent struct {
	ID              int64           `db:"id"`
	Timestamp       time.Time       `db:"timestamp"`
	TransactionHash string          `db:"transaction_hash"`
	BlockNumber     int64           `db:"block_number"`
	PoolID          int64           `db:"pool_id"`
	UserAddress     string          `db:"user_address"`
	ClaimLockStart  decimal.Decimal `db:"claim_lock_start"`
	ClaimLockEnd    decimal.Decimal `db:"claim_lock_end"`
	CreatedAt       time.Time       `db:"created_at"`
}

// StakeEvent is a row of user_staked_events or user_withdrawn_events; both
// tables share the same shape.
type StakeEvent struct {
	ID              int64           `db:"id"`
	Timestamp       time.Time       `db:"timestamp"`
	TransactionHash string          `db:"transaction_hash"`
	BlockNumber     int64           `db:"block_number"`
	PoolID          int64           `db:"pool_id"`
	UserAddress     string          `db:"user_address"`
	Amount          decimal.Decimal `db:"amount"`
	CreatedAt       time.Time       `db:"created_at"`
}

type OverplusBridgedEvent struct {
	ID              int64           `db:"id"`
	Timestamp       time.Time       `db:"timestamp"`
	TransactionHash string          `db:"transaction_hash"`
	BlockNumber     int64           `db:"block_number"`
	Amount          decimal.Decimal `db:"amount"`
	UniqueID        string          `db:"unique_id"`
	CreatedAt       time.Time       `db:"created_at"`
}
