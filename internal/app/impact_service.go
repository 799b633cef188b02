package app

import (
	"context"
	"fmt"
	"math"

	"hunger-insights/internal/config"
	"hunger-insights/internal/domain"
	"hunger-insights/internal/impact"
	"hunger-insights/internal/metrics"
)

// PredictionRepository reads predicted index values (from cache/backing store).
type PredictionRepository interface {
	CountryYear(ctx context.Context, year int) ([]domain.CountryValue, error)
	GlobalSeries(ctx context.Context) ([]domain.YearValue, error)
}

// ImpactRequest is a calculator query. Nil knobs take the configured defaults.
type ImpactRequest struct {
	Country     string
	Year        int
	Donation    *float64
	BaseCost    *float64
	Adjust      *bool
	Sensitivity *float64
	Elasticity  *float64
	Visibility  *float64
}

// ImpactReport is the calculator answer plus the data it was computed from.
// Warnings explain any fallback that replaced missing prediction data.
type ImpactReport struct {
	Country  string              `json:"country"`
	Inputs   domain.ImpactInputs `json:"inputs"`
	Result   domain.ImpactResult `json:"result"`
	Warnings []string            `json:"warnings,omitempty"`
}

// ImpactService resolves prediction data for the calculator and runs the projection.
type ImpactService struct {
	predictions PredictionRepository
	defaults    config.Impact
	metrics     *metrics.Metrics
}

func NewImpactService(predictions PredictionRepository, defaults config.Impact, m *metrics.Metrics) *ImpactService {
	return &ImpactService{predictions: predictions, defaults: defaults, metrics: m}
}

// Calculate looks up the country and global index for the selected year and the
// country's series across the predicted years, then runs the impact model.
// Missing data degrades to absent indices and a flat baseline with a warning.
func (s *ImpactService) Calculate(ctx context.Context, req ImpactRequest) (ImpactReport, error) {
	year := req.Year
	if year == 0 {
		year = s.defaults.Year
	}
	if year <= 0 {
		return ImpactReport{}, fmt.Errorf("%w: year must be positive", domain.ErrInvalidInput)
	}
	if err := checkFinite(req); err != nil {
		return ImpactReport{}, err
	}

	in := domain.ImpactInputs{
		DonationAmount:          math.Max(0, floatOr(req.Donation, s.defaults.Donation)),
		BaseCostPerPersonPerDay: floatOr(req.BaseCost, s.defaults.BaseCost),
		AdjustmentEnabled:       req.Adjust == nil || *req.Adjust,
		Sensitivity:             floatOr(req.Sensitivity, s.defaults.Sensitivity),
		Elasticity:              floatOr(req.Elasticity, s.defaults.Elasticity),
		VisibilityMultiplier:    floatOr(req.Visibility, s.defaults.Visibility),
		SelectedYear:            year,
	}

	var warnings []string
	global, err := s.predictions.GlobalSeries(ctx)
	global = finitePoints(global)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("global predictions unavailable: %v", err))
	}
	in.GlobalIndex = valueAt(global, year)
	if err == nil && in.GlobalIndex == nil {
		warnings = append(warnings, fmt.Sprintf("no global prediction for %d", year))
	}

	if req.Country == "" {
		in.BaselineSeries = global
	} else {
		series, missing := s.countrySeries(ctx, req.Country, years(global, year))
		in.CountryIndex = valueAt(series, year)
		if in.CountryIndex == nil {
			warnings = append(warnings, fmt.Sprintf("no prediction for %s in %d", req.Country, year))
		}
		if missing > 0 {
			warnings = append(warnings, fmt.Sprintf("%d year(s) missing for %s, using a flat baseline", missing, req.Country))
			series = flat(years(global, year), firstNonNil(in.CountryIndex, in.GlobalIndex))
		}
		in.BaselineSeries = series
	}

	report := ImpactReport{
		Country:  req.Country,
		Inputs:   in,
		Result:   impact.Compute(in),
		Warnings: warnings,
	}
	s.metrics.ImpactCalculated(len(warnings) > 0)
	return report, nil
}

// countrySeries collects the country's value for each year and counts the
// years it could not find.
func (s *ImpactService) countrySeries(ctx context.Context, country string, yrs []int) ([]domain.YearValue, int) {
	series := make([]domain.YearValue, 0, len(yrs))
	missing := 0
	for _, y := range yrs {
		rows, err := s.predictions.CountryYear(ctx, y)
		if err != nil {
			missing++
			continue
		}
		found := false
		for _, r := range rows {
			if r.Country == country && !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0) {
				series = append(series, domain.YearValue{Year: y, Value: r.Value})
				found = true
				break
			}
		}
		if !found {
			missing++
		}
	}
	return series, missing
}

// checkFinite rejects NaN and infinite knobs so reports never echo them.
func checkFinite(req ImpactRequest) error {
	knobs := []struct {
		name  string
		value *float64
	}{
		{"donation", req.Donation},
		{"baseCost", req.BaseCost},
		{"sensitivity", req.Sensitivity},
		{"elasticity", req.Elasticity},
		{"visibility", req.Visibility},
	}
	for _, k := range knobs {
		if k.value != nil && (math.IsNaN(*k.value) || math.IsInf(*k.value, 0)) {
			return fmt.Errorf("%w: %s must be finite", domain.ErrInvalidInput, k.name)
		}
	}
	return nil
}

// finitePoints drops NaN and infinite values from a prediction series.
func finitePoints(series []domain.YearValue) []domain.YearValue {
	out := series[:0:0]
	for _, p := range series {
		if !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0) {
			out = append(out, p)
		}
	}
	return out
}

func valueAt(series []domain.YearValue, year int) *float64 {
	for _, p := range series {
		if p.Year == year && !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0) {
			v := p.Value
			return &v
		}
	}
	return nil
}

// years lists the series years, or just the selected year when the series is empty.
func years(series []domain.YearValue, selected int) []int {
	if len(series) == 0 {
		return []int{selected}
	}
	out := make([]int, len(series))
	for i, p := range series {
		out[i] = p.Year
	}
	return out
}

func flat(yrs []int, value *float64) []domain.YearValue {
	if value == nil {
		return nil
	}
	out := make([]domain.YearValue, len(yrs))
	for i, y := range yrs {
		out[i] = domain.YearValue{Year: y, Value: *value}
	}
	return out
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
