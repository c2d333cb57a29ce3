package analytics

import (
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Emission categories as published.
const (
	CategoryCapital    = "Capital Emission"
	CategoryCode       = "Code Emission"
	CategoryCompute    = "Compute Emission"
	CategoryCommunity  = "Community Emission"
	CategoryProtection = "Protection Emission"
	CategoryTotal      = "Total Emission"
)

var emissionCategories = []string{
	CategoryCapital,
	CategoryCode,
	CategoryCompute,
	CategoryCommunity,
	CategoryProtection,
}

type EmissionReport struct {
	NewEmissions   map[string]float64 `json:"new_emissions"`
	TotalEmissions map[string]float64 `json:"total_emissions"`
}

func emptyEmissionReport() EmissionReport {
	return EmissionReport{NewEmissions: map[string]float64{}, TotalEmissions: map[string]float64{}}
}

func categoryValue(e model.Emission, category string) decimal.Decimal {
	switch category {
	case CategoryCapital:
		return e.CapitalEmission
	case CategoryCode:
		return e.CodeEmission
	case CategoryCompute:
		return e.ComputeEmission
	case CategoryCommunity:
		return e.CommunityEmission
	case CategoryProtection:
		return e.ProtectionEmission
	case CategoryTotal:
		return e.TotalEmission
	default:
		return decimal.Zero
	}
}

// NewEmissions returns today's increment per category: the last cumulative
// row dated on or before today minus the row before it. upToToday must be
// sorted oldest first. The second result is false when there is no row.
func NewEmissions(upToToday []model.Emission) (map[string]decimal.Decimal, bool) {
	if len(upToToday) == 0 {
		return nil, false
	}
	last := upToToday[len(upToToday)-1]
	var prev model.Emission
	if len(upToToday) > 1 {
		prev = upToToday[len(upToToday)-2]
	}
	out := make(map[string]decimal.Decimal, len(emissionCategories)+1)
	total := decimal.Zero
	for _, c := range emissionCategories {
		d := categoryValue(last, c).Sub(categoryValue(prev, c))
		out[c] = d
		total = total.Add(d)
	}
	out[CategoryTotal] = total
	return out, true
}

// EmissionSchedule reports today's new emissions and the cumulative totals of
// the row dated today. Totals are zero when today has no row.
func EmissionSchedule(upToToday []model.Emission, today *model.Emission) EmissionReport {
	fresh, ok := NewEmissions(upToToday)
	if !ok {
		return emptyEmissionReport()
	}
	out := EmissionReport{
		NewEmissions:   make(map[string]float64, len(fresh)),
		TotalEmissions: make(map[string]float64, len(emissionCategories)+1),
	}
	for c, v := range fresh {
		out.NewEmissions[c] = v.InexactFloat64()
	}
	var row model.Emission
	if today != nil {
		row = *today
	}
	for _, c := range emissionCategories {
		out.TotalEmissions[c] = categoryValue(row, c).InexactFloat64()
	}
	out.TotalEmissions[CategoryTotal] = row.TotalEmission.InexactFloat64()
	return out
}

// CapitalEmissionToday is today's new capital emission, zero when unknown.
func CapitalEmissionToday(upToToday []model.Emission) decimal.Decimal {
	fresh, ok := NewEmissions(upToToday)
	if !ok {
		return decimal.Zero
	}
	return fresh[CategoryCapital]
}
