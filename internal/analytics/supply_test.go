package analytics

import (
	"testing"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildSupplyOverview(t *testing.T) {
	emissions := []model.Emission{
		emissionRow(march1, "0", "0", "0", "1000.123456"),
		emissionRow(march3, "0", "0", "0", "1100"),
		emissionRow(march2, "0", "0", "0", "1050.5"),
	}
	circulating := []model.CirculatingSupply{
		{
			Date:                        "01/03/2024",
			CirculatingSupplyAtThatDate: decimal.RequireFromString("500.25"),
			TotalClaimedThatDay:         decimal.RequireFromString("2"),
			BlockTimestampAtThatDate:    march1.Add(10 * time.Hour),
		},
		{
			Date:                        "02/03/2024",
			CirculatingSupplyAtThatDate: decimal.RequireFromString("504"),
			TotalClaimedThatDay:         decimal.RequireFromString("3.75"),
			BlockTimestampAtThatDate:    march2.Add(9 * time.Hour),
		},
	}
	today := march2.Add(12 * time.Hour)

	got := BuildSupplyOverview(emissions, circulating, today)

	assert.Equal(t, []DatedValue{
		{Date: "02/03/2024", Value: 1050.5},
		{Date: "01/03/2024", Value: 1000.1235},
	}, got.TotalSupply)
	assert.Equal(t, []CirculatingPoint{
		{Date: "02/03/2024", CirculatingSupply: 504, TotalClaimed: 3.75, BlockTimestamp: march2.Add(9 * time.Hour).Unix()},
		{Date: "01/03/2024", CirculatingSupply: 500.25, TotalClaimed: 2, BlockTimestamp: march1.Add(10 * time.Hour).Unix()},
	}, got.CirculatingSupply)
}

func TestBuildSupplyOverview_Empty(t *testing.T) {
	got := BuildSupplyOverview(nil, nil, march1)
	assert.NotNil(t, got.TotalSupply)
	assert.Empty(t, got.TotalSupply)
	assert.NotNil(t, got.CirculatingSupply)
	assert.Empty(t, got.CirculatingSupply)
}
