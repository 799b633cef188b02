package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"hunger-insights/internal/config"
)

func TestBootstrapMissingConfigUsesDefaults(t *testing.T) {
	cfg, log, err := bootstrap(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if log == nil || cfg.Quiz.Bank != "hunger" || cfg.Server.Port != "8080" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestBootstrapRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := bootstrap(path); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestPredictionLoaderFromCSV(t *testing.T) {
	dir := t.TempDir()
	countryPath := filepath.Join(dir, "country.csv")
	globalPath := filepath.Join(dir, "global.csv")
	if err := os.WriteFile(countryPath, []byte("country,year,ghi_pred\nChad,2030,35\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(globalPath, []byte("year,global_ghi_mean\n2030,15\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := config.Default()
	cfg.Predictions.CountryCSV = countryPath
	cfg.Predictions.GlobalCSV = globalPath
	loader, err := newPredictionLoader(cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	rows, err := loader.LoadCountryYear(context.Background(), 2030)
	if err != nil || len(rows) != 1 || rows[0].Value != 35 {
		t.Fatalf("unexpected rows %+v err=%v", rows, err)
	}
}

func TestPredictionLoaderWithoutSource(t *testing.T) {
	loader, err := newPredictionLoader(config.Default(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	if _, err := loader.LoadGlobalSeries(context.Background()); err == nil {
		t.Fatalf("expected no data")
	}
}
