package analytics

import (
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/shopspring/decimal"
)

// BinRange is [lo, hi]; hi is null for the open-ended last bin.
type BinRange [2]*float64

type Histogram struct {
	Ranges      []BinRange `json:"ranges"`
	Frequencies []int      `json:"frequencies"`
}

type PoolDistribution struct {
	StakeTime       Histogram `json:"stake_time"`
	PowerMultiplier Histogram `json:"power_multiplier"`
}

type StakeInfo struct {
	Combined PoolDistribution `json:"combined"`
	Capital  PoolDistribution `json:"capital"`
	Code     PoolDistribution `json:"code"`
}

var (
	secondsPerYear = decimal.RequireFromString("31557600") // 365.25 days

	stakeYearBins = decimalBins(0, 1, 2, 3, 4, 5, 6, 1000)
	powerBins     = decimalBins(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
)

func decimalBins(edges ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(edges))
	for i, e := range edges {
		out[i] = decimal.NewFromInt(e)
	}
	return out
}

func emptyStakeInfo() StakeInfo {
	empty := PoolDistribution{
		StakeTime:       Histogram{Ranges: []BinRange{}, Frequencies: []int{}},
		PowerMultiplier: Histogram{Ranges: []BinRange{}, Frequencies: []int{}},
	}
	return StakeInfo{Combined: empty, Capital: empty, Code: empty}
}

type walletStake struct {
	secs       decimal.Decimal
	multiplier decimal.Decimal
}

// WalletStakeInfo keeps the longest valid stake of each wallet (overall and
// per pool) and bins the stake lengths in years and the power multipliers.
func WalletStakeInfo(rows []model.UserMultiplier, now time.Time) StakeInfo {
	if len(rows) == 0 {
		return emptyStakeInfo()
	}
	combined := map[string]walletStake{}
	byPool := map[int64]map[string]walletStake{model.PoolCapital: {}, model.PoolCode: {}}

	for _, r := range rows {
		if !r.Multiplier.Valid || !IsValidStake(r.UserClaimLockedStart, r.UserClaimLockedEnd, now) {
			continue
		}
		pool, ok := byPool[r.PoolID]
		if !ok {
			continue
		}
		ws := walletStake{
			secs:       r.UserClaimLockedEnd.Sub(r.UserClaimLockedStart),
			multiplier: r.Multiplier.Decimal,
		}
		keepLongest(combined, r.UserAddress, ws)
		keepLongest(pool, r.UserAddress, ws)
	}

	return StakeInfo{
		Combined: distribution(combined),
		Capital:  distribution(byPool[model.PoolCapital]),
		Code:     distribution(byPool[model.PoolCode]),
	}
}

func keepLongest(m map[string]walletStake, wallet string, ws walletStake) {
	if cur, ok := m[wallet]; !ok || ws.secs.GreaterThan(cur.secs) {
		m[wallet] = ws
	}
}

func distribution(wallets map[string]walletStake) PoolDistribution {
	years := make([]decimal.Decimal, 0, len(wallets))
	power := make([]decimal.Decimal, 0, len(wallets))
	for _, ws := range wallets {
		years = append(years, ws.secs.Div(secondsPerYear))
		power = append(power, ws.multiplier.Shift(-25))
	}
	return PoolDistribution{
		StakeTime:       binValues(years, stakeYearBins, true, false),
		PowerMultiplier: binValues(power, powerBins, false, true),
	}
}

// binValues counts values per bin. With right set a bin is (lo, hi],
// otherwise [lo, hi). openEnded appends an unbounded last edge. Values below
// the first edge or beyond the last are not counted.
func binValues(values, edges []decimal.Decimal, right, openEnded bool) Histogram {
	nBins := len(edges) - 1
	if openEnded {
		nBins = len(edges)
	}
	h := Histogram{
		Ranges:      make([]BinRange, nBins),
		Frequencies: make([]int, nBins),
	}
	for i := 0; i < nBins; i++ {
		lo := edges[i].InexactFloat64()
		h.Ranges[i][0] = &lo
		if i < nBins-1 {
			hi := edges[i+1].InexactFloat64()
			h.Ranges[i][1] = &hi
		}
	}

	for _, v := range values {
		if idx := binIndex(v, edges, right, openEnded); idx >= 0 {
			h.Frequencies[idx]++
		}
	}
	return h
}

func binIndex(v decimal.Decimal, edges []decimal.Decimal, right, openEnded bool) int {
	for i := 0; i < len(edges); i++ {
		lo := edges[i]
		var inLower bool
		if right {
			inLower = v.GreaterThan(lo)
		} else {
			inLower = v.GreaterThanOrEqual(lo)
		}
		if !inLower {
			return -1
		}
		if i == len(edges)-1 {
			if openEnded {
				return i
			}
			return -1
		}
		hi := edges[i+1]
		if right && v.LessThanOrEqual(hi) || !right && v.LessThan(hi) {
			return i
		}
	}
	return -1
}
