package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"hunger-insights/internal/domain"
)

type countryPrediction struct {
	bun.BaseModel `bun:"table:country_predictions"`

	Country string  `bun:"country,pk"`
	Year    int     `bun:"year,pk"`
	Value   float64 `bun:"value"`
}

type globalPrediction struct {
	bun.BaseModel `bun:"table:global_predictions"`

	Year  int     `bun:"year,pk"`
	Value float64 `bun:"value"`
}

// Importer upserts prediction exports and question banks.
type Importer struct {
	db *bun.DB
}

func NewImporter(db *bun.DB) *Importer {
	return &Importer{db: db}
}

// ImportPredictions replaces the values for every (country, year) and year given.
func (i *Importer) ImportPredictions(ctx context.Context, country []domain.CountryValue, global []domain.YearValue) error {
	return i.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(country) > 0 {
			rows := make([]countryPrediction, len(country))
			for n, c := range country {
				rows[n] = countryPrediction{Country: c.Country, Year: c.Year, Value: c.Value}
			}
			if _, err := tx.NewInsert().
				Model(&rows).
				On("CONFLICT (country, year) DO UPDATE").
				Set("value = EXCLUDED.value").
				Exec(ctx); err != nil {
				return fmt.Errorf("insert country predictions: %w", err)
			}
		}
		if len(global) > 0 {
			rows := make([]globalPrediction, len(global))
			for n, g := range global {
				rows[n] = globalPrediction{Year: g.Year, Value: g.Value}
			}
			if _, err := tx.NewInsert().
				Model(&rows).
				On("CONFLICT (year) DO UPDATE").
				Set("value = EXCLUDED.value").
				Exec(ctx); err != nil {
				return fmt.Errorf("insert global predictions: %w", err)
			}
		}
		return nil
	})
}

// SeedBank stores a question bank as JSONB.
func (i *Importer) SeedBank(ctx context.Context, bank domain.Bank) error {
	data, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	if _, err := i.db.ExecContext(ctx,
		`INSERT INTO question_banks (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
		bank.ID, string(data)); err != nil {
		return fmt.Errorf("insert bank: %w", err)
	}
	return nil
}
