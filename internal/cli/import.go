package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hunger-insights/internal/domain"
	"hunger-insights/internal/infra/csvfile"
	"hunger-insights/internal/infra/postgres"
	"hunger-insights/internal/quiz"
)

// NewImportCmd loads prediction CSVs and the built-in question bank into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var countryCSV, globalCSV string
	var skipBank bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import prediction CSVs and seed the question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			if countryCSV == "" {
				countryCSV = cfg.Predictions.CountryCSV
			}
			if globalCSV == "" {
				globalCSV = cfg.Predictions.GlobalCSV
			}
			if countryCSV == "" || globalCSV == "" {
				return fmt.Errorf("both --country-csv and --global-csv are required")
			}

			ctx := cmd.Context()
			if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
				return err
			}
			db, err := openBun(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			country, global, err := csvfile.ReadFiles(countryCSV, globalCSV)
			if err != nil {
				return err
			}
			importer := postgres.NewImporter(db)
			if err := importer.ImportPredictions(ctx, country, global); err != nil {
				return err
			}
			log.Info("predictions imported", zap.Int("country_rows", len(country)), zap.Int("global_rows", len(global)))

			if skipBank {
				return nil
			}
			bank := domain.Bank{ID: quiz.DefaultBankID, Questions: quiz.DefaultBank()}
			if err := importer.SeedBank(ctx, bank); err != nil {
				return err
			}
			log.Info("question bank seeded", zap.String("bank", bank.ID), zap.Int("questions", len(bank.Questions)))
			return nil
		},
	}
	cmd.Flags().StringVar(&countryCSV, "country-csv", "", "country predictions CSV (country,year,ghi_pred)")
	cmd.Flags().StringVar(&globalCSV, "global-csv", "", "global predictions CSV (year,global_ghi_mean)")
	cmd.Flags().BoolVar(&skipBank, "skip-bank", false, "do not seed the built-in question bank")
	return cmd
}
