package analytics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/shopspring/decimal"
)

// maxStakeHorizon bounds claim-lock ends that are considered genuine.
const maxStakeHorizon = 25 * 365 * 24 * 60 * 60

var powerFactors = []decimal.Decimal{
	decimal.NewFromInt(1),
	decimal.RequireFromString("2.12"),
	decimal.RequireFromString("4.17"),
	decimal.RequireFromString("6.08"),
	decimal.RequireFromString("7.82"),
	decimal.RequireFromString("9.35"),
	decimal.RequireFromString("10.67"),
}

// IsValidStake reports whether a claim lock is set and ends in the future,
// but no further than 25 years from now.
func IsValidStake(start, end decimal.Decimal, now time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	nowSec := decimal.NewFromInt(now.Unix())
	horizon := nowSec.Add(decimal.NewFromInt(maxStakeHorizon))
	return end.GreaterThan(nowSec) && end.LessThanOrEqual(horizon)
}

// PowerFactor returns the reward multiplier for a staking period. Whole
// years index the table; six years and beyond share the last entry.
func PowerFactor(days int) decimal.Decimal {
	years := max(days/365, 0)
	if years >= len(powerFactors)-1 {
		return powerFactors[len(powerFactors)-1]
	}
	return powerFactors[years]
}

type PoolCounts struct {
	Pool0    int `json:"pool_0"`
	Pool1    int `json:"pool_1"`
	Combined int `json:"combined"`
}

type StakerAnalysis struct {
	TotalUniqueStakers       PoolCounts            `json:"total_unique_stakers"`
	DailyUniqueStakers       map[string]PoolCounts `json:"daily_unique_stakers"`
	AverageStakeTime         map[string]string     `json:"average_stake_time"`
	CombinedAverageStakeTime string                `json:"combined_average_stake_time"`
	TotalStakes              map[string]int        `json:"total_stakes"`
	Prices                   PriceView             `json:"prices"`
	EmissionToday            float64               `json:"emissionToday"`
}

func emptyStakerAnalysis() StakerAnalysis {
	return StakerAnalysis{
		DailyUniqueStakers:       map[string]PoolCounts{},
		AverageStakeTime:         map[string]string{"0": formatStakeDuration(0), "1": formatStakeDuration(0)},
		CombinedAverageStakeTime: formatStakeDuration(0),
		TotalStakes:              map[string]int{"0": 0, "1": 0},
	}
}

// AnalyzeStakers counts valid stakes per pool and per claim-lock day and
// averages their lock durations.
func AnalyzeStakers(rows []model.UserMultiplier, now time.Time, prices PriceQuote, emissionToday decimal.Decimal) StakerAnalysis {
	out := emptyStakerAnalysis()
	out.Prices = prices.View()
	out.EmissionToday = emissionToday.InexactFloat64()

	pools := map[int64]map[string]struct{}{model.PoolCapital: {}, model.PoolCode: {}}
	daily := map[string]map[int64]map[string]struct{}{}
	var (
		totalSecs = map[int64]int64{}
		count     = map[int64]int64{}
	)

	for _, r := range rows {
		if r.PoolID != model.PoolCapital && r.PoolID != model.PoolCode {
			continue
		}
		if !IsValidStake(r.UserClaimLockedStart, r.UserClaimLockedEnd, now) {
			continue
		}
		pools[r.PoolID][r.UserAddress] = struct{}{}

		day := r.Timestamp.UTC().Format(time.DateOnly)
		if daily[day] == nil {
			daily[day] = map[int64]map[string]struct{}{model.PoolCapital: {}, model.PoolCode: {}}
		}
		daily[day][r.PoolID][r.UserAddress] = struct{}{}

		totalSecs[r.PoolID] += r.UserClaimLockedEnd.Sub(r.UserClaimLockedStart).IntPart()
		count[r.PoolID]++
	}

	out.TotalUniqueStakers = poolCounts(pools)
	for day, users := range daily {
		out.DailyUniqueStakers[day] = poolCounts(users)
	}

	var allSecs, allCount int64
	for _, pool := range []int64{model.PoolCapital, model.PoolCode} {
		key := strconv.FormatInt(pool, 10)
		out.AverageStakeTime[key] = formatStakeDuration(averageMicros(totalSecs[pool], count[pool]))
		out.TotalStakes[key] = int(count[pool])
		allSecs += totalSecs[pool]
		allCount += count[pool]
	}
	out.CombinedAverageStakeTime = formatStakeDuration(averageMicros(allSecs, allCount))
	return out
}

func poolCounts(users map[int64]map[string]struct{}) PoolCounts {
	combined := make(map[string]struct{}, len(users[model.PoolCapital])+len(users[model.PoolCode]))
	for _, set := range users {
		for u := range set {
			combined[u] = struct{}{}
		}
	}
	return PoolCounts{
		Pool0:    len(users[model.PoolCapital]),
		Pool1:    len(users[model.PoolCode]),
		Combined: len(combined),
	}
}

// averageMicros divides a total in seconds by n, rounding to the nearest
// microsecond with ties to even.
func averageMicros(totalSecs, n int64) int64 {
	if n == 0 {
		return 0
	}
	return decimal.NewFromInt(totalSecs).Shift(6).Div(decimal.NewFromInt(n)).RoundBank(0).IntPart()
}

// formatStakeDuration renders micros as "[D day[s], ]H:MM:SS[.ffffff]".
func formatStakeDuration(micros int64) string {
	const microsPerDay = 86_400 * 1_000_000
	days := micros / microsPerDay
	rem := micros % microsPerDay
	if rem < 0 {
		days--
		rem += microsPerDay
	}
	secs := rem / 1_000_000
	frac := rem % 1_000_000

	s := fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	if frac != 0 {
		s += fmt.Sprintf(".%06d", frac)
	}
	switch days {
	case 0:
		return s
	case 1, -1:
		return fmt.Sprintf("%d day, %s", days, s)
	default:
		return fmt.Sprintf("%d days, %s", days, s)
	}
}

type MultiplierAnalysis struct {
	OverallAverage float64 `json:"overall_average"`
	CapitalAverage float64 `json:"capital_average"`
	CodeAverage    float64 `json:"code_average"`
}

// AverageMultipliers averages multiplier/1e18 over valid stakes that have a
// multiplier.
func AverageMultipliers(rows []model.UserMultiplier, now time.Time) MultiplierAnalysis {
	var sum [2]decimal.Decimal
	var n [2]int64
	for _, r := range rows {
		if !r.Multiplier.Valid || (r.PoolID != model.PoolCapital && r.PoolID != model.PoolCode) {
			continue
		}
		if !IsValidStake(r.UserClaimLockedStart, r.UserClaimLockedEnd, now) {
			continue
		}
		sum[r.PoolID] = sum[r.PoolID].Add(r.Multiplier.Decimal.Shift(-18))
		n[r.PoolID]++
	}
	return MultiplierAnalysis{
		OverallAverage: mean(sum[0].Add(sum[1]), n[0]+n[1]).InexactFloat64(),
		CapitalAverage: mean(sum[0], n[0]).InexactFloat64(),
		CodeAverage:    mean(sum[1], n[1]).InexactFloat64(),
	}
}

func mean(sum decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(n))
}

type PoolReward struct {
	DailyRewardSum            float64 `json:"daily_reward_sum"`
	TotalCurrentUserRewardSum float64 `json:"total_current_user_reward_sum"`
}

// PoolRewardsSummary reads per-pool sums from the newest reward summary.
// Values are reported as magnitudes.
func PoolRewardsSummary(latest *model.RewardSummary) map[string]PoolReward {
	out := map[string]PoolReward{"0": {}, "1": {}}
	if latest == nil {
		return out
	}
	out["0"] = PoolReward{
		DailyRewardSum:            latest.DailyPoolReward0.Abs().InexactFloat64(),
		TotalCurrentUserRewardSum: latest.TotalRewardPool0.Abs().InexactFloat64(),
	}
	out["1"] = PoolReward{
		DailyRewardSum:            latest.DailyPoolReward1.Abs().InexactFloat64(),
		TotalCurrentUserRewardSum: latest.TotalRewardPool1.Abs().InexactFloat64(),
	}
	return out
}
