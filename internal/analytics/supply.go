package analytics

import (
	"slices"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
)

type DatedValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type CirculatingPoint struct {
	Date              string  `json:"date"`
	CirculatingSupply float64 `json:"circulating_supply"`
	TotalClaimed      float64 `json:"total_claimed_that_day"`
	BlockTimestamp    int64   `json:"block_timestamp"`
}

type SupplyOverview struct {
	TotalSupply       []DatedValue       `json:"total_supply"`
	CirculatingSupply []CirculatingPoint `json:"circulating_supply"`
}

// BuildSupplyOverview lists the scheduled total supply up to today and the
// circulating supply history, both newest first. Total supply is rounded to
// four decimals.
func BuildSupplyOverview(emissions []model.Emission, circulating []model.CirculatingSupply, today time.Time) SupplyOverview {
	out := SupplyOverview{TotalSupply: []DatedValue{}, CirculatingSupply: []CirculatingPoint{}}

	cutoff := truncateDay(today)
	schedule := slices.Clone(emissions)
	slices.SortStableFunc(schedule, func(a, b model.Emission) int {
		return b.Date.Compare(a.Date)
	})
	for _, e := range schedule {
		if truncateDay(e.Date).After(cutoff) {
			continue
		}
		out.TotalSupply = append(out.TotalSupply, DatedValue{
			Date:  e.Date.UTC().Format(model.DateLayout),
			Value: e.TotalSupply.Round(4).InexactFloat64(),
		})
	}

	sorted := slices.Clone(circulating)
	slices.SortStableFunc(sorted, func(a, b model.CirculatingSupply) int {
		return b.BlockTimestampAtThatDate.Compare(a.BlockTimestampAtThatDate)
	})
	for _, c := range sorted {
		out.CirculatingSupply = append(out.CirculatingSupply, CirculatingPoint{
			Date:              c.Date,
			CirculatingSupply: c.CirculatingSupplyAtThatDate.InexactFloat64(),
			TotalClaimed:      c.TotalClaimedThatDay.InexactFloat64(),
			BlockTimestamp:    c.BlockTimestampAtThatDate.Unix(),
		})
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type CodeMetrics struct {
	TotalWeightsAssigned string `json:"total_weights_assigned"`
	UniqueContributors   int64  `json:"unique_contributors"`
}
