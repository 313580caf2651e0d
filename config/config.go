package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr     = ":8080"
	defaultRateLimit    = 10
	defaultRateBurst    = 20
	defaultImportLimit  = 1
	defaultImportBurst  = 5
	defaultStandingsTTL = 5 * time.Minute
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	Redis         RedisConfig         `yaml:"redis"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_URL"`
}

// RedisConfig holds the standings cache configuration. An empty URL disables the cache.
type RedisConfig struct {
	URL          string        `yaml:"url" env:"REDIS_URL"`
	StandingsTTL time.Duration `yaml:"standings_ttl" env:"STANDINGS_CACHE_TTL"`
}

// HTTPConfig holds the read API server configuration.
type HTTPConfig struct {
	Addr string `yaml:"addr" env:"HTTP_ADDR"`
	// RateLimit is the sustained number of requests per second allowed per client IP.
	RateLimit float64 `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`
	RateBurst int     `yaml:"rate_burst" env:"HTTP_RATE_BURST"`
	// ImportRateLimit and ImportRateBurst bound the routes that parse a request
	// body (sheet import and pass analysis), on top of the read limit.
	ImportRateLimit float64 `yaml:"import_rate_limit" env:"HTTP_IMPORT_RATE_LIMIT"`
	ImportRateBurst int     `yaml:"import_rate_burst" env:"HTTP_IMPORT_RATE_BURST"`
}

// ObservabilityConfig holds configuration for logging and metrics.
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat      string `yaml:"log_format" env:"LOG_FORMAT"` // json|text
	MetricsEnabled bool   `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
	Environment    string `yaml:"environment" env:"ENV"`
}

// LoadConfig loads the configuration from a YAML file, then applies any
// environment overrides. A missing file falls back to the environment alone.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = defaultHTTPAddr
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = defaultRateLimit
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = defaultRateBurst
	}
	if c.HTTP.ImportRateLimit <= 0 {
		c.HTTP.ImportRateLimit = defaultImportLimit
	}
	if c.HTTP.ImportRateBurst <= 0 {
		c.HTTP.ImportRateBurst = defaultImportBurst
	}
	if c.Redis.StandingsTTL <= 0 {
		c.Redis.StandingsTTL = defaultStandingsTTL
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = defaultLogLevel
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = defaultLogFormat
	}
}

// RequirePostgres reports an error when no database DSN is configured.
func (c *Config) RequirePostgres() error {
	if c.Postgres.DSN == "" {
		return errors.New("postgres dsn not configured: set postgres.dsn or DATABASE_URL")
	}
	return nil
}
