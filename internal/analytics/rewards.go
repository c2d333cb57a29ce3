package analytics

import (
	"github.com/shopspring/decimal"
)

// StakingPeriods are the projection horizons in days, zero to six years.
var StakingPeriods = []int{0, 365, 730, 1095, 1460, 1825, 2190}

type APYEntry struct {
	StakingPeriod int    `json:"staking_period"`
	APY           string `json:"apy"`
}

type DailyRewardEntry struct {
	StakingPeriod   int    `json:"staking_period"`
	DailyMORRewards string `json:"daily_mor_rewards"`
}

type RewardProjection struct {
	APYPerStETH             []APYEntry         `json:"apy_per_steth"`
	DailyMORRewardsPerStETH []DailyRewardEntry `json:"daily_mor_rewards_per_steth"`
}

const (
	zeroAPY   = "0.00%"
	zeroDaily = "0.000000"
)

var daysPerYear = decimal.NewFromInt(365)

func zeroProjection() RewardProjection {
	out := RewardProjection{
		APYPerStETH:             make([]APYEntry, 0, len(StakingPeriods)),
		DailyMORRewardsPerStETH: make([]DailyRewardEntry, 0, len(StakingPeriods)),
	}
	for _, p := range StakingPeriods {
		out.APYPerStETH = append(out.APYPerStETH, APYEntry{StakingPeriod: p, APY: zeroAPY})
		out.DailyMORRewardsPerStETH = append(out.DailyMORRewardsPerStETH, DailyRewardEntry{StakingPeriod: p, DailyMORRewards: zeroDaily})
	}
	return out
}

// RewardProjections estimates the yield of one deposited stETH for every
// staking period. virtualStEth is the capital pool's total virtual deposit in
// whole stETH. Missing prices or an empty pool yield zeroed entries.
func RewardProjections(dailyEmission decimal.Decimal, prices PriceQuote, virtualStEth decimal.Decimal) RewardProjection {
	if !prices.Complete() || !virtualStEth.IsPositive() || !prices.StETH.Decimal.IsPositive() {
		return zeroProjection()
	}
	mor, eth := prices.MOR.Decimal, prices.StETH.Decimal

	out := RewardProjection{
		APYPerStETH:             make([]APYEntry, 0, len(StakingPeriods)),
		DailyMORRewardsPerStETH: make([]DailyRewardEntry, 0, len(StakingPeriods)),
	}
	for _, p := range StakingPeriods {
		pf := PowerFactor(p)
		apr := dailyEmission.Mul(daysPerYear).Mul(mor).Mul(pf).Div(virtualStEth.Mul(eth))
		daily := dailyEmission.Mul(pf).Div(virtualStEth)

		out.APYPerStETH = append(out.APYPerStETH, APYEntry{
			StakingPeriod: p,
			APY:           apr.Shift(2).StringFixed(2) + "%",
		})
		out.DailyMORRewardsPerStETH = append(out.DailyMORRewardsPerStETH, DailyRewardEntry{
			StakingPeriod:   p,
			DailyMORRewards: daily.StringFixed(6),
		})
	}
	return out
}
