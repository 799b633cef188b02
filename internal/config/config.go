package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		Bank       string `yaml:"bank"`
		TTL        string `yaml:"ttl"`
		SessionTTL string `yaml:"session_ttl"`
	} `yaml:"quiz"`
	Predictions struct {
		CountryCSV string `yaml:"country_csv"`
		GlobalCSV  string `yaml:"global_csv"`
		TTL        string `yaml:"ttl"`
	} `yaml:"predictions"`
	Impact Impact `yaml:"impact"`
}

// Impact holds the calculator defaults used when a request omits a knob.
type Impact struct {
	BaseCost    float64 `yaml:"base_cost"`
	Sensitivity float64 `yaml:"sensitivity"`
	Elasticity  float64 `yaml:"elasticity"`
	Visibility  float64 `yaml:"visibility"`
	Donation    float64 `yaml:"donation"`
	Year        int     `yaml:"year"`
}

// Default returns a config that runs fully in memory.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Quiz.Bank = "hunger"
	cfg.Impact = Impact{
		BaseCost:    0.8,
		Sensitivity: 0.5,
		Elasticity:  0.5,
		Visibility:  1,
		Donation:    10,
		Year:        2030,
	}
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
