package app

import (
	"context"
	"fmt"

	"hunger-insights/internal/domain"
	"hunger-insights/internal/insights"
)

// InsightService serves the dashboard figures.
type InsightService struct {
	predictions PredictionRepository
}

func NewInsightService(predictions PredictionRepository) *InsightService {
	return &InsightService{predictions: predictions}
}

func (s *InsightService) Countries(ctx context.Context, year int) ([]string, error) {
	rows, err := s.predictions.CountryYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return insights.Countries(rows), nil
}

func (s *InsightService) Severity(ctx context.Context, year int) ([]insights.Bucket, error) {
	rows, err := s.predictions.CountryYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return insights.SeverityDistribution(rows), nil
}

func (s *InsightService) Top(ctx context.Context, year, limit int) ([]domain.CountryValue, error) {
	rows, err := s.predictions.CountryYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return insights.TopCountries(rows, limit), nil
}

func (s *InsightService) Improvers(ctx context.Context, from, to, limit int) ([]insights.Improvement, error) {
	if from >= to {
		return nil, fmt.Errorf("%w: from year must precede to year", domain.ErrInvalidInput)
	}
	before, err := s.predictions.CountryYear(ctx, from)
	if err != nil {
		return nil, err
	}
	after, err := s.predictions.CountryYear(ctx, to)
	if err != nil {
		return nil, err
	}
	return insights.TopImprovers(before, after, limit), nil
}

// Trend summarizes the global series between from and to, inclusive. Zero
// bounds are open.
func (s *InsightService) Trend(ctx context.Context, from, to int) (insights.Trend, error) {
	series, err := s.predictions.GlobalSeries(ctx)
	if err != nil {
		return insights.Trend{}, err
	}
	window := make([]domain.YearValue, 0, len(series))
	for _, p := range series {
		if (from == 0 || p.Year >= from) && (to == 0 || p.Year <= to) {
			window = append(window, p)
		}
	}
	return insights.GlobalTrend(window), nil
}
