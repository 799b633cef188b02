package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"hunger-insights/internal/domain"
)

// PredictionLoader reads predicted index values from Postgres.
type PredictionLoader struct {
	pool *pgxpool.Pool
}

func NewPredictionLoader(pool *pgxpool.Pool) *PredictionLoader {
	return &PredictionLoader{pool: pool}
}

func (l *PredictionLoader) LoadCountryYear(ctx context.Context, year int) ([]domain.CountryValue, error) {
	rows, err := l.pool.Query(ctx, `SELECT country, year, value FROM country_predictions WHERE year=$1 ORDER BY country`, year)
	if err != nil {
		return nil, fmt.Errorf("query country predictions: %w", err)
	}
	defer rows.Close()

	var out []domain.CountryValue
	for rows.Next() {
		var row domain.CountryValue
		if err := rows.Scan(&row.Country, &row.Year, &row.Value); err != nil {
			return nil, fmt.Errorf("scan country prediction: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read country predictions: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("country predictions for %d: %w", year, domain.ErrPredictionNotFound)
	}
	return out, nil
}

func (l *PredictionLoader) LoadGlobalSeries(ctx context.Context) ([]domain.YearValue, error) {
	rows, err := l.pool.Query(ctx, `SELECT year, value FROM global_predictions ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("query global predictions: %w", err)
	}
	defer rows.Close()

	var out []domain.YearValue
	for rows.Next() {
		var p domain.YearValue
		if err := rows.Scan(&p.Year, &p.Value); err != nil {
			return nil, fmt.Errorf("scan global prediction: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read global predictions: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("global predictions: %w", domain.ErrPredictionNotFound)
	}
	return out, nil
}
