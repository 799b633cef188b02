package memory

import (
	"context"
	"sort"
	"strconv"
	"time"

	"hunger-insights/internal/domain"
)

// PredictionLoader reads predicted index values from a backing store.
type PredictionLoader interface {
	LoadCountryYear(ctx context.Context, year int) ([]domain.CountryValue, error)
	LoadGlobalSeries(ctx context.Context) ([]domain.YearValue, error)
}

// PredictionRepository caches prediction lookups per year and for the global series.
type PredictionRepository struct {
	loader  PredictionLoader
	country *ttlCache[[]domain.CountryValue]
	global  *ttlCache[[]domain.YearValue]
}

func NewPredictionRepository(loader PredictionLoader, ttl time.Duration) *PredictionRepository {
	return &PredictionRepository{
		loader:  loader,
		country: newTTLCache[[]domain.CountryValue](ttl),
		global:  newTTLCache[[]domain.YearValue](ttl),
	}
}

func (r *PredictionRepository) CountryYear(ctx context.Context, year int) ([]domain.CountryValue, error) {
	return r.country.get(strconv.Itoa(year), func() ([]domain.CountryValue, error) {
		return r.loader.LoadCountryYear(ctx, year)
	})
}

func (r *PredictionRepository) GlobalSeries(ctx context.Context) ([]domain.YearValue, error) {
	return r.global.get("global", func() ([]domain.YearValue, error) {
		return r.loader.LoadGlobalSeries(ctx)
	})
}

// StaticPredictionLoader serves predictions held in memory.
type StaticPredictionLoader struct {
	byYear map[int][]domain.CountryValue
	global []domain.YearValue
}

func NewStaticPredictionLoader(country []domain.CountryValue, global []domain.YearValue) *StaticPredictionLoader {
	byYear := make(map[int][]domain.CountryValue)
	for _, row := range country {
		byYear[row.Year] = append(byYear[row.Year], row)
	}
	sorted := append([]domain.YearValue(nil), global...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })
	return &StaticPredictionLoader{byYear: byYear, global: sorted}
}

func (l *StaticPredictionLoader) LoadCountryYear(_ context.Context, year int) ([]domain.CountryValue, error) {
	rows, ok := l.byYear[year]
	if !ok {
		return nil, domain.ErrPredictionNotFound
	}
	return rows, nil
}

func (l *StaticPredictionLoader) LoadGlobalSeries(_ context.Context) ([]domain.YearValue, error) {
	if len(l.global) == 0 {
		return nil, domain.ErrPredictionNotFound
	}
	return l.global, nil
}
