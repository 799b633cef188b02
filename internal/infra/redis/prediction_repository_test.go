package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"hunger-insights/internal/domain"
	"hunger-insights/internal/infra/memory"
)

func TestPredictionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{PredictionLoader: memory.NewStaticPredictionLoader(samplePredictions())}
	repo := NewPredictionRepository(client, loader, time.Minute)
	ctx := context.Background()

	rows, err := repo.CountryYear(ctx, 2030)
	if err != nil {
		t.Fatalf("country year: %v", err)
	}
	if len(rows) != 2 || loader.countryCalls != 1 {
		t.Fatalf("expected 2 rows from one load, got %d rows and %d loads", len(rows), loader.countryCalls)
	}
	if got := mr.HGet("predictions:country:2030", "Chad"); got != "31.5" {
		t.Fatalf("expected cached Chad value, got %q", got)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.CountryYear(ctx, 2030)
	if err != nil {
		t.Fatalf("cached country year: %v", err)
	}
	if loader.countryCalls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.countryCalls)
	}
	if cached[0].Country != "Chad" || cached[0].Value != 31.5 || cached[0].Year != 2030 {
		t.Fatalf("unexpected cached row %+v", cached[0])
	}

	series, err := repo.GlobalSeries(ctx)
	if err != nil {
		t.Fatalf("global: %v", err)
	}
	series, _ = repo.GlobalSeries(ctx)
	if loader.globalCalls != 1 {
		t.Fatalf("expected global cached, loader calls=%d", loader.globalCalls)
	}
	if len(series) != 2 || series[0].Year != 2025 || series[1].Value != 15.9 {
		t.Fatalf("unexpected cached series %+v", series)
	}
	if ttl := mr.TTL("predictions:global"); ttl < time.Minute || ttl > 66*time.Second {
		t.Fatalf("expected jittered ttl, got %v", ttl)
	}
}

func TestPredictionRepositoryPropagatesLoaderErrors(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewPredictionRepository(newClient(mr), memory.NewStaticPredictionLoader(nil, nil), time.Minute)
	if _, err := repo.CountryYear(context.Background(), 2030); err != domain.ErrPredictionNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if mr.Exists("predictions:country:2030") {
		t.Fatalf("expected nothing cached on miss")
	}
}

type countingLoader struct {
	memory.PredictionLoader
	countryCalls int
	globalCalls  int
}

func (l *countingLoader) LoadCountryYear(ctx context.Context, year int) ([]domain.CountryValue, error) {
	l.countryCalls++
	return l.PredictionLoader.LoadCountryYear(ctx, year)
}

func (l *countingLoader) LoadGlobalSeries(ctx context.Context) ([]domain.YearValue, error) {
	l.globalCalls++
	return l.PredictionLoader.LoadGlobalSeries(ctx)
}

func samplePredictions() ([]domain.CountryValue, []domain.YearValue) {
	return []domain.CountryValue{
			{Country: "Peru", Year: 2030, Value: 6.4},
			{Country: "Chad", Year: 2030, Value: 31.5},
		}, []domain.YearValue{
			{Year: 2030, Value: 15.9},
			{Year: 2025, Value: 17.4},
		}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
