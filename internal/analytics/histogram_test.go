package analytics

import (
	"testing"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletStakeInfo(t *testing.T) {
	rows := []model.UserMultiplier{
		stake("alice", model.PoolCapital, testNow, 0.5, "10000000000000000000000000"),
		stake("alice", model.PoolCode, testNow, 2.5, "35000000000000000000000000"),
		stake("bob", model.PoolCapital, testNow, 1, "100000000000000000000000000"),
		stake("carol", model.PoolCapital, testNow, 3, ""),
		{UserAddress: "dave", PoolID: model.PoolCapital, Multiplier: decimal.NewNullDecimal(decimal.NewFromInt(1))},
	}

	got := WalletStakeInfo(rows, testNow)

	assert.Equal(t, []int{2, 0, 0, 0, 0, 0, 0}, got.Capital.StakeTime.Frequencies)
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 0, 0, 0, 1}, got.Capital.PowerMultiplier.Frequencies)
	assert.Equal(t, []int{0, 0, 1, 0, 0, 0, 0}, got.Code.StakeTime.Frequencies)
	assert.Equal(t, []int{0, 0, 1, 0, 0, 0, 0, 0, 0, 0}, got.Code.PowerMultiplier.Frequencies)

	// Alice's longest stake is the code one.
	assert.Equal(t, []int{1, 0, 1, 0, 0, 0, 0}, got.Combined.StakeTime.Frequencies)
	assert.Equal(t, []int{0, 0, 1, 0, 0, 0, 0, 0, 0, 1}, got.Combined.PowerMultiplier.Frequencies)
}

func TestWalletStakeInfo_Ranges(t *testing.T) {
	got := WalletStakeInfo([]model.UserMultiplier{
		stake("alice", model.PoolCapital, testNow, 1, "10000000000000000000000000"),
	}, testNow)

	ranges := got.Capital.StakeTime.Ranges
	require.Len(t, ranges, 7)
	assert.Equal(t, 0.0, *ranges[0][0])
	assert.Equal(t, 1.0, *ranges[0][1])
	assert.Equal(t, 6.0, *ranges[6][0])
	assert.Nil(t, ranges[6][1])

	power := got.Capital.PowerMultiplier.Ranges
	require.Len(t, power, 10)
	assert.Equal(t, 1.0, *power[0][0])
	assert.Equal(t, 2.0, *power[0][1])
	assert.Equal(t, 10.0, *power[9][0])
	assert.Nil(t, power[9][1])
}

func TestWalletStakeInfo_Empty(t *testing.T) {
	got := WalletStakeInfo(nil, testNow)
	assert.Empty(t, got.Combined.StakeTime.Ranges)
	assert.NotNil(t, got.Combined.StakeTime.Frequencies)
	assert.Empty(t, got.Code.PowerMultiplier.Frequencies)
}

func TestBinIndex(t *testing.T) {
	d := decimal.RequireFromString
	testCases := []struct {
		name      string
		v         string
		edges     []decimal.Decimal
		right     bool
		openEnded bool
		want      int
	}{
		{"right closed upper edge", "1", stakeYearBins, true, false, 0},
		{"right open lower edge", "0", stakeYearBins, true, false, -1},
		{"right inside", "5.5", stakeYearBins, true, false, 5},
		{"right beyond last edge", "1001", stakeYearBins, true, false, -1},
		{"left closed lower edge", "2", powerBins, false, true, 1},
		{"left below first edge", "0.99", powerBins, false, true, -1},
		{"open ended tail", "42", powerBins, false, true, 9},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, binIndex(d(tc.v), tc.edges, tc.right, tc.openEnded))
		})
	}
}
