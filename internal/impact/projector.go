// Package impact models how far a donation goes and nudges a projected
// hunger index series by the resulting feeding effort. All functions are
// pure; out-of-domain numbers are clamped rather than rejected.
package impact

import (
	"math"

	"hunger-insights/internal/domain"
)

const (
	// MinCostPerPersonPerDay floors the base feeding cost.
	MinCostPerPersonPerDay = 0.01
	// MinAdjustment and MaxAdjustment bound the need-based cost multiplier.
	MinAdjustment = 0.5
	MaxAdjustment = 2.0
	// PersonDaysPerIndexPoint converts person-days of feeding into index points
	// before elasticity and visibility are applied.
	PersonDaysPerIndexPoint = 1e8
)

// ComputeAdjustment scales feeding cost by how far the country's index sits
// above or below the global index. It returns exactly 1 when disabled or when
// either index is missing or non-finite.
func ComputeAdjustment(countryIndex, globalIndex *float64, enabled bool, sensitivity float64) float64 {
	if !enabled || !present(countryIndex) || !present(globalIndex) {
		return 1
	}
	diff := *countryIndex - *globalIndex
	raw := 1 + unit(sensitivity)*(diff/100)
	if math.IsNaN(raw) {
		return 1
	}
	return math.Min(math.Max(raw, MinAdjustment), MaxAdjustment)
}

// ComputeSnapshot returns the adjustment, effective cost and the number of
// whole people fed for one day.
func ComputeSnapshot(in domain.ImpactInputs) domain.Snapshot {
	cost := baseCost(in.BaseCostPerPersonPerDay)
	mult := ComputeAdjustment(in.CountryIndex, in.GlobalIndex, in.AdjustmentEnabled, in.Sensitivity)
	effective := cost * mult

	return domain.Snapshot{
		AdjustmentMultiplier: mult,
		EffectiveCost:        effective,
		PeopleFed:            peopleFed(personDays(donation(in.DonationAmount), effective)),
	}
}

// ComputeProjection lowers every baseline value from SelectedYear onward by the
// same visible delta, never below zero. Earlier years are returned as given.
func ComputeProjection(in domain.ImpactInputs) []domain.YearValue {
	snap := ComputeSnapshot(in)
	delta := visibleDelta(in, snap.EffectiveCost)

	out := make([]domain.YearValue, len(in.BaselineSeries))
	for i, point := range in.BaselineSeries {
		if point.Year < in.SelectedYear {
			out[i] = point
			continue
		}
		value := point.Value
		if !finite(value) {
			value = 0
		}
		out[i] = domain.YearValue{Year: point.Year, Value: math.Max(0, value-delta)}
	}
	return out
}

// Compute runs the snapshot and the projection together.
func Compute(in domain.ImpactInputs) domain.ImpactResult {
	return domain.ImpactResult{
		Snapshot:        ComputeSnapshot(in),
		ProjectedSeries: ComputeProjection(in),
	}
}

func visibleDelta(in domain.ImpactInputs, effectiveCost float64) float64 {
	days := personDays(donation(in.DonationAmount), effectiveCost)
	raw := unit(in.Elasticity) * (days / PersonDaysPerIndexPoint)
	delta := raw * visibility(in.VisibilityMultiplier)
	if math.IsNaN(delta) {
		return 0
	}
	return delta
}

func personDays(amount, effectiveCost float64) float64 {
	if !(effectiveCost > 0) || !finite(effectiveCost) {
		return 0
	}
	return amount / effectiveCost
}

func peopleFed(days float64) int64 {
	if !(days > 0) {
		return 0
	}
	if days >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(days))
}

func baseCost(v float64) float64 {
	if !finite(v) {
		return MinCostPerPersonPerDay
	}
	return math.Max(MinCostPerPersonPerDay, v)
}

func donation(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

func visibility(v float64) float64 {
	if !finite(v) {
		return 1
	}
	return math.Max(0, v)
}

// unit clamps a knob to [0, 1]; NaN reads as 0.
func unit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}

func present(v *float64) bool {
	return v != nil && finite(*v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
