package redis

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"hunger-insights/internal/domain"
)

// PredictionLoader fetches predictions from a backing store (e.g., Postgres).
type PredictionLoader interface {
	LoadCountryYear(ctx context.Context, year int) ([]domain.CountryValue, error)
	LoadGlobalSeries(ctx context.Context) ([]domain.YearValue, error)
}

// PredictionRepository caches predictions in Redis hashes and falls back to a loader on cache miss.
// Country values are stored as: HSET predictions:country:{year} {country} {value}
// Global values are stored as:  HSET predictions:global {year} {value}
type PredictionRepository struct {
	client *redis.Client
	loader PredictionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewPredictionRepository(client *redis.Client, loader PredictionLoader, ttl time.Duration) *PredictionRepository {
	return &PredictionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PredictionRepository) CountryYear(ctx context.Context, year int) ([]domain.CountryValue, error) {
	key := countryKey(year)
	if cached, err := r.client.HGetAll(ctx, key).Result(); err == nil && len(cached) > 0 {
		return countryRowsFromCache(year, cached), nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cached, err := r.client.HGetAll(ctx, key).Result(); err == nil && len(cached) > 0 {
			return countryRowsFromCache(year, cached), nil
		}

		rows, err := r.loader.LoadCountryYear(ctx, year)
		if err != nil {
			return nil, err
		}
		fields := make(map[string]interface{}, len(rows))
		for _, row := range rows {
			fields[row.Country] = row.Value
		}
		r.fill(ctx, key, fields)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CountryValue), nil
}

func (r *PredictionRepository) GlobalSeries(ctx context.Context) ([]domain.YearValue, error) {
	key := globalKey()
	if cached, err := r.client.HGetAll(ctx, key).Result(); err == nil && len(cached) > 0 {
		return globalSeriesFromCache(cached), nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		if cached, err := r.client.HGetAll(ctx, key).Result(); err == nil && len(cached) > 0 {
			return globalSeriesFromCache(cached), nil
		}

		series, err := r.loader.LoadGlobalSeries(ctx)
		if err != nil {
			return nil, err
		}
		fields := make(map[string]interface{}, len(series))
		for _, p := range series {
			fields[strconv.Itoa(p.Year)] = p.Value
		}
		r.fill(ctx, key, fields)
		return series, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.YearValue), nil
}

// fill writes a hash and its expiry; cache write failures are not fatal.
func (r *PredictionRepository) fill(ctx context.Context, key string, fields map[string]interface{}) {
	if len(fields) == 0 {
		return
	}
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	if ttl := r.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, _ = pipe.Exec(ctx)
}

func countryKey(year int) string {
	return "predictions:country:" + strconv.Itoa(year)
}

func globalKey() string {
	return "predictions:global"
}

func countryRowsFromCache(year int, cached map[string]string) []domain.CountryValue {
	rows := make([]domain.CountryValue, 0, len(cached))
	for country, raw := range cached {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		rows = append(rows, domain.CountryValue{Country: country, Year: year, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Country < rows[j].Country })
	return rows
}

func globalSeriesFromCache(cached map[string]string) []domain.YearValue {
	series := make([]domain.YearValue, 0, len(cached))
	for rawYear, raw := range cached {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		series = append(series, domain.YearValue{Year: year, Value: v})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

func (r *PredictionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
