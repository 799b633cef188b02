// Package insights derives dashboard figures from predicted index values.
package insights

import (
	"math"
	"sort"

	"hunger-insights/internal/domain"
)

// Bucket is one severity band and the number of countries in it.
type Bucket struct {
	Name  string  `json:"name"`
	From  float64 `json:"from"`
	To    float64 `json:"to,omitempty"`
	Count int     `json:"count"`
}

// severityBands are half-open [From, To); the last band is open-ended.
var severityBands = []Bucket{
	{Name: "Low <10", From: 0, To: 10},
	{Name: "Moderate 10–19.9", From: 10, To: 20},
	{Name: "Serious 20–29.9", From: 20, To: 30},
	{Name: "Alarming 30–49.9", From: 30, To: 50},
	{Name: "Extremely ≥50", From: 50},
}

// SeverityDistribution counts rows per severity band. Negative and
// non-finite values are not counted.
func SeverityDistribution(rows []domain.CountryValue) []Bucket {
	out := make([]Bucket, len(severityBands))
	copy(out, severityBands)
	last := len(out) - 1
	for _, r := range rows {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) || r.Value < 0 {
			continue
		}
		for i := range out {
			if r.Value >= out[i].From && (i == last || r.Value < out[i].To) {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// TopCountries returns up to n rows with the highest index, ties by name.
func TopCountries(rows []domain.CountryValue, n int) []domain.CountryValue {
	out := make([]domain.CountryValue, 0, len(rows))
	for _, r := range rows {
		if !math.IsNaN(r.Value) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Country < out[j].Country
	})
	return limit(out, n)
}

// Improvement compares a country's index between two years.
type Improvement struct {
	Country     string  `json:"country"`
	From        float64 `json:"from"`
	To          float64 `json:"to"`
	Improvement float64 `json:"improvement"`
}

// TopImprovers ranks countries present in both years by how much their index
// fell, largest drop first.
func TopImprovers(from, to []domain.CountryValue, n int) []Improvement {
	before := make(map[string]float64, len(from))
	for _, r := range from {
		if !math.IsNaN(r.Value) {
			before[r.Country] = r.Value
		}
	}

	out := make([]Improvement, 0, len(to))
	for _, r := range to {
		v, ok := before[r.Country]
		if !ok || math.IsNaN(r.Value) {
			continue
		}
		out = append(out, Improvement{Country: r.Country, From: v, To: r.Value, Improvement: v - r.Value})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Improvement != out[j].Improvement {
			return out[i].Improvement > out[j].Improvement
		}
		return out[i].Country < out[j].Country
	})
	return limit(out, n)
}

// Direction of a trend between the first and last point.
type Direction string

const (
	Down Direction = "down"
	Up   Direction = "up"
	Flat Direction = "flat"
)

// Trend summarizes a series.
type Trend struct {
	Average   float64   `json:"average"`
	First     float64   `json:"first"`
	Last      float64   `json:"last"`
	Delta     float64   `json:"delta"`
	Percent   float64   `json:"percent"`
	Direction Direction `json:"direction"`
}

// GlobalTrend reports the average and the first-to-last change of a series.
func GlobalTrend(series []domain.YearValue) Trend {
	if len(series) == 0 {
		return Trend{}
	}
	sum := 0.0
	for _, p := range series {
		sum += p.Value
	}
	first, last := series[0].Value, series[len(series)-1].Value
	t := Trend{
		Average:   sum / float64(len(series)),
		First:     first,
		Last:      last,
		Delta:     last - first,
		Direction: Flat,
	}
	if first != 0 {
		t.Percent = t.Delta * 100 / first
	}
	switch {
	case t.Delta < 0:
		t.Direction = Down
	case t.Delta > 0:
		t.Direction = Up
	}
	return t
}

// Countries returns the sorted set of country names in rows.
func Countries(rows []domain.CountryValue) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Country == "" {
			continue
		}
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	sort.Strings(out)
	return out
}

func limit[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
