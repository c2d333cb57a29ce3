package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserMultiplier is one row of the multiplier snapshot. Multiplier is invalid
// when the contract read failed for that (user, pool).
type UserMultiplier struct {
	ID                   int64               `db:"id"`
	UserClaimLockedStart decimal.Decimal     `db:"user_claim_locked_start"`
	UserClaimLockedEnd   decimal.Decimal     `db:"user_claim_locked_end"`
	Timestamp            time.Time           `db:"timestamp"`
	TransactionHash      string              `db:"transaction_hash"`
	BlockNumber          int64               `db:"block_number"`
	PoolID               int64               `db:"pool_id"`
	UserAddress          string              `db:"user_address"`
	Multiplier           decimal.NullDecimal `db:"multiplier"`
	CreatedAt            time.Time           `db:"created_at"`
}

// UserPool identifies a staker in one pool.
type UserPool struct {
	UserAddress string
	PoolID      int64
}

type RewardSummary struct {
	ID                      int64           `db:"id"`
	Timestamp               time.Time       `db:"timestamp"`
	CalculationBlockCurrent int64           `db:"calculation_block_current"`
	CalculationBlockPast    int64           `db:"calculation_block_past"`
	DailyPoolReward0        decimal.Decimal `db:"daily_pool_reward_0"`
	DailyPoolReward1        decimal.Decimal `db:"daily_pool_reward_1"`
	DailyReward             decimal.Decimal `db:"daily_reward"`
	TotalRewardPool0        decimal.Decimal `db:"total_reward_pool_0"`
	TotalRewardPool1        decimal.Decimal `db:"total_reward_pool_1"`
	TotalReward             decimal.Decimal `db:"total_reward"`
	CreatedAt               time.Time       `db:"created_at"`
}

type CirculatingSupply struct {
	ID                          int64           `db:"id"`
	Date                        string          `db:"date"`
	CirculatingSupplyAtThatDate decimal.Decimal `db:"circulating_supply_at_that_date"`
	BlockTimestampAtThatDate    time.Time       `db:"block_timestamp_at_that_date"`
	TotalClaimedThatDay         decimal.Decimal `db:"total_claimed_that_day"`
	CreatedAt                   time.Time       `db:"created_at"`
}

// Emission is one day of the static emission schedule. Category values are
// cumulative.
type Emission struct {
	ID                 int64           `db:"id"`
	Day                int64           `db:"day"`
	Date               time.Time       `db:"date"`
	CapitalEmission    decimal.Decimal `db:"capital_emission"`
	CodeEmission       decimal.Decimal `db:"code_emission"`
	ComputeEmission    decimal.Decimal `db:"compute_emission"`
	CommunityEmission  decimal.Decimal `db:"community_emission"`
	ProtectionEmission decimal.Decimal `db:"protection_emission"`
	TotalEmission      decimal.Decimal `db:"total_emission"`
	TotalSupply        decimal.Decimal `db:"total_supply"`
	CreatedAt          time.Time       `db:"created_at"`
}
