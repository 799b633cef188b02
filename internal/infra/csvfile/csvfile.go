// Package csvfile reads the prediction exports produced by the modelling
// pipeline: "country,year,ghi_pred" rows and "year,global_ghi_mean" rows.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"hunger-insights/internal/domain"
	"hunger-insights/internal/infra/memory"
)

var (
	countryValueColumns = []string{"ghi_pred", "value", "ghi"}
	globalValueColumns  = []string{"global_ghi_mean", "value", "ghi"}
)

// ReadCountry parses country/year rows. Rows with an empty value are skipped.
func ReadCountry(r io.Reader) ([]domain.CountryValue, error) {
	records, cols, err := read(r)
	if err != nil {
		return nil, err
	}
	country, ok := cols["country"]
	if !ok {
		return nil, errors.New("country column missing")
	}
	year, ok := cols["year"]
	if !ok {
		return nil, errors.New("year column missing")
	}
	value, err := pick(cols, countryValueColumns)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CountryValue, 0, len(records))
	for n, rec := range records {
		if strings.TrimSpace(rec[value]) == "" {
			continue
		}
		y, v, err := parse(rec[year], rec[value])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		out = append(out, domain.CountryValue{Country: strings.TrimSpace(rec[country]), Year: y, Value: v})
	}
	return out, nil
}

// ReadGlobal parses global year rows.
func ReadGlobal(r io.Reader) ([]domain.YearValue, error) {
	records, cols, err := read(r)
	if err != nil {
		return nil, err
	}
	year, ok := cols["year"]
	if !ok {
		return nil, errors.New("year column missing")
	}
	value, err := pick(cols, globalValueColumns)
	if err != nil {
		return nil, err
	}

	out := make([]domain.YearValue, 0, len(records))
	for n, rec := range records {
		if strings.TrimSpace(rec[value]) == "" {
			continue
		}
		y, v, err := parse(rec[year], rec[value])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		out = append(out, domain.YearValue{Year: y, Value: v})
	}
	return out, nil
}

// ReadFiles reads both exports from disk. An empty path yields no rows.
func ReadFiles(countryPath, globalPath string) ([]domain.CountryValue, []domain.YearValue, error) {
	var (
		country []domain.CountryValue
		global  []domain.YearValue
	)
	if countryPath != "" {
		f, err := os.Open(countryPath)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		if country, err = ReadCountry(f); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", countryPath, err)
		}
	}
	if globalPath != "" {
		f, err := os.Open(globalPath)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		if global, err = ReadGlobal(f); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", globalPath, err)
		}
	}
	return country, global, nil
}

// NewLoader reads both exports once and serves them from memory.
func NewLoader(countryPath, globalPath string) (*memory.StaticPredictionLoader, error) {
	country, global, err := ReadFiles(countryPath, globalPath)
	if err != nil {
		return nil, err
	}
	return memory.NewStaticPredictionLoader(country, global), nil
}

func read(r io.Reader) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New("empty csv")
	}
	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	return records[1:], cols, nil
}

func pick(cols map[string]int, candidates []string) (int, error) {
	for _, name := range candidates {
		if i, ok := cols[name]; ok {
			return i, nil
		}
	}
	return 0, fmt.Errorf("value column missing, want one of %s", strings.Join(candidates, ", "))
}

func parse(rawYear, rawValue string) (int, float64, error) {
	y, err := strconv.Atoi(strings.TrimSpace(rawYear))
	if err != nil {
		return 0, 0, fmt.Errorf("year %q: %w", rawYear, err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rawValue), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("value %q: %w", rawValue, err)
	}
	return y, v, nil
}
