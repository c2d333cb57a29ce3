package model

// Table names of the persisted entities.
const (
	TableClaimLocked       = "user_claim_locked"
	TableUserMultiplier    = "user_multiplier"
	TableRewardSummary     = "reward_summary"
	TableCirculatingSupply = "circulating_supply"
	TableStakedEvents      = "user_staked_events"
	TableWithdrawnEvents   = "user_withdrawn_events"
	TableBridgedEvents     = "overplus_bridged_events"
	TableEmissions         = "emissions"
)

// EventTables are the tables whose MAX(block_number) acts as a stage watermark.
var EventTables = []string{
	TableClaimLocked,
	TableStakedEvents,
	TableWithdrawnEvents,
	TableBridgedEvents,
}

func IsEventTable(name string) bool {
	for _, t := range EventTables {
		if t == name {
			return true
		}
	}
	return false
}

// Pool identifiers of the Distribution contract.
const (
	PoolCapital int64 = 0
	PoolCode    int64 = 1
)

// DateLayout is the layout of the circulating supply date key.
const DateLayout = "02/01/2006"
