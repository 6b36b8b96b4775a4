package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Fetcher      FetcherConfig      `yaml:"fetcher"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Group        GroupConfig        `yaml:"group"`
	Availability AvailabilityConfig `yaml:"availability"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateBurst       int     `yaml:"rate_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// FetcherConfig holds the schedule fetcher configuration.
type FetcherConfig struct {
	Enabled         bool              `yaml:"enabled"`
	IntervalSeconds int               `yaml:"interval_seconds"`
	Interval        time.Duration     `yaml:"-"` // Ignored by YAML parser
	URL             string            `yaml:"url"`
	Term            string            `yaml:"term"`
	MaxPages        int               `yaml:"max_pages"`
	Headers         map[string]string `yaml:"headers"`
}

// CatalogConfig points at the static building seed data.
type CatalogConfig struct {
	BuildingsFile string `yaml:"buildings_file"`
}

// GroupConfig holds the group tracking configuration. A staleness of zero
// means a member's last known position counts toward the centroid forever.
type GroupConfig struct {
	StalenessSeconds int `yaml:"staleness_seconds"`
}

// AvailabilityConfig holds the availability resolution configuration.
type AvailabilityConfig struct {
	EnforceTermDates bool `yaml:"enforce_term_dates"`
}

// Load reads the configuration from the given path. A .env file, when
// present, is loaded first so the YAML may reference environment variables
// in the database DSN.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.Database.DSN = os.ExpandEnv(cfg.Database.DSN)
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateBurst <= 0 {
		cfg.Server.RateBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Fetcher.IntervalSeconds <= 0 {
		cfg.Fetcher.IntervalSeconds = 21600
	}
	cfg.Fetcher.Interval = time.Duration(cfg.Fetcher.IntervalSeconds) * time.Second

	if cfg.Fetcher.MaxPages <= 0 {
		cfg.Fetcher.MaxPages = 10
	}

	return &cfg, nil
}
