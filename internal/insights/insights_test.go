package insights

import (
	"math"
	"testing"

	"hunger-insights/internal/domain"
)

func rows(values map[string]float64) []domain.CountryValue {
	out := make([]domain.CountryValue, 0, len(values))
	for c, v := range values {
		out = append(out, domain.CountryValue{Country: c, Year: 2030, Value: v})
	}
	return out
}

func TestSeverityDistribution(t *testing.T) {
	got := SeverityDistribution(rows(map[string]float64{
		"A": 0, "B": 9.9995, "C": 10, "D": 19.99, "E": 25, "F": 30,
		"G": 49.9, "H": 50, "I": 72, "J": -1, "K": math.NaN(),
	}))
	want := []int{2, 2, 1, 2, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(got))
	}
	for i, n := range want {
		if got[i].Count != n {
			t.Fatalf("bucket %q: expected %d, got %d", got[i].Name, n, got[i].Count)
		}
	}
}

func TestSeverityDistributionEmpty(t *testing.T) {
	got := SeverityDistribution(nil)
	if len(got) != 5 {
		t.Fatalf("expected all buckets, got %d", len(got))
	}
	for _, b := range got {
		if b.Count != 0 {
			t.Fatalf("expected empty bucket, got %+v", b)
		}
	}
	if severityBands[0].Count != 0 {
		t.Fatalf("shared band table mutated")
	}
}

func TestTopCountries(t *testing.T) {
	got := TopCountries(rows(map[string]float64{"Chad": 40, "Niger": 40, "Peru": 8, "Yemen": 45}), 3)
	want := []string{"Yemen", "Chad", "Niger"}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i, c := range want {
		if got[i].Country != c {
			t.Fatalf("position %d: expected %s, got %s", i, c, got[i].Country)
		}
	}
}

func TestTopImprovers(t *testing.T) {
	from := rows(map[string]float64{"A": 30, "B": 20, "C": 10, "Gone": 50})
	to := rows(map[string]float64{"A": 20, "B": 18, "C": 12, "New": 5})

	got := TopImprovers(from, to, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 shared countries, got %d", len(got))
	}
	if got[0].Country != "A" || got[0].Improvement != 10 {
		t.Fatalf("expected A to improve most, got %+v", got[0])
	}
	if got[2].Country != "C" || got[2].Improvement != -2 {
		t.Fatalf("expected C last with -2, got %+v", got[2])
	}
	if got := TopImprovers(from, to, 1); len(got) != 1 {
		t.Fatalf("limit not applied: %d", len(got))
	}
}

func TestGlobalTrend(t *testing.T) {
	got := GlobalTrend([]domain.YearValue{{Year: 2025, Value: 20}, {Year: 2030, Value: 18}, {Year: 2035, Value: 16}})
	if got.Average != 18 || got.First != 20 || got.Last != 16 || got.Delta != -4 || got.Percent != -20 || got.Direction != Down {
		t.Fatalf("unexpected trend %+v", got)
	}

	flat := GlobalTrend([]domain.YearValue{{Year: 2025, Value: 0}, {Year: 2026, Value: 0}})
	if flat.Percent != 0 || flat.Direction != Flat {
		t.Fatalf("unexpected flat trend %+v", flat)
	}

	if (GlobalTrend(nil) != Trend{}) {
		t.Fatalf("expected zero trend for empty series")
	}
}

func TestCountries(t *testing.T) {
	in := []domain.CountryValue{{Country: "Peru"}, {Country: "Chad"}, {Country: "Peru"}, {Country: ""}}
	got := Countries(in)
	if len(got) != 2 || got[0] != "Chad" || got[1] != "Peru" {
		t.Fatalf("unexpected countries %v", got)
	}
}
