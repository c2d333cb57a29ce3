package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(mor, steth string) PriceQuote {
	var q PriceQuote
	if mor != "" {
		q.MOR = decimal.NewNullDecimal(decimal.RequireFromString(mor))
	}
	if steth != "" {
		q.StETH = decimal.NewNullDecimal(decimal.RequireFromString(steth))
	}
	return q
}

func TestRewardProjections(t *testing.T) {
	got := RewardProjections(decimal.NewFromInt(1200), quote("10", "2000"), decimal.NewFromInt(100_000))

	require.Len(t, got.APYPerStETH, len(StakingPeriods))
	require.Len(t, got.DailyMORRewardsPerStETH, len(StakingPeriods))

	assert.Equal(t, APYEntry{StakingPeriod: 0, APY: "2.19%"}, got.APYPerStETH[0])
	assert.Equal(t, APYEntry{StakingPeriod: 365, APY: "4.64%"}, got.APYPerStETH[1])
	assert.Equal(t, APYEntry{StakingPeriod: 2190, APY: "23.37%"}, got.APYPerStETH[6])

	assert.Equal(t, DailyRewardEntry{StakingPeriod: 0, DailyMORRewards: "0.012000"}, got.DailyMORRewardsPerStETH[0])
	assert.Equal(t, DailyRewardEntry{StakingPeriod: 365, DailyMORRewards: "0.025440"}, got.DailyMORRewardsPerStETH[1])
	assert.Equal(t, DailyRewardEntry{StakingPeriod: 2190, DailyMORRewards: "0.128040"}, got.DailyMORRewardsPerStETH[6])
}

func TestRewardProjections_Zeroed(t *testing.T) {
	testCases := []struct {
		name      string
		prices    PriceQuote
		deposited decimal.Decimal
	}{
		{"missing MOR price", quote("", "2000"), decimal.NewFromInt(10)},
		{"missing stETH price", quote("10", ""), decimal.NewFromInt(10)},
		{"zero stETH price", quote("10", "0"), decimal.NewFromInt(10)},
		{"empty pool", quote("10", "2000"), decimal.Zero},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := RewardProjections(decimal.NewFromInt(1200), tc.prices, tc.deposited)
			assert.Equal(t, zeroProjection(), got)
			for _, e := range got.APYPerStETH {
				assert.Equal(t, "0.00%", e.APY)
			}
			for _, e := range got.DailyMORRewardsPerStETH {
				assert.Equal(t, "0.000000", e.DailyMORRewards)
			}
		})
	}
}
