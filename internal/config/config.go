package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Port    string
	BaseURL string // Prefix of every short URL
	Env     string

	LogLevel  string
	LogFormat string // json or console; empty picks by Env

	StoreDriver     string
	DatabaseURL     string
	DBMaxRetries    int
	DBRetryDelay    time.Duration
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	RedisURL        string // Optional; caching is disabled when empty
	CacheTTL        time.Duration
	ShutdownTimeout time.Duration

	FraudDelay           time.Duration
	FraudPassProbability float64
	ShortCodeMaxAttempts int
}

var defaults = map[string]any{
	"port":                   "3000",
	"base_url":               "http://localhost:3000",
	"app_env":                "development",
	"log_level":              "info",
	"log_format":             "",
	"store_driver":           StoreDriverPostgres,
	"database_url":           "",
	"db_max_retries":         10,
	"db_retry_delay":         3 * time.Second,
	"db_max_open_conns":      10,
	"db_max_idle_conns":      10,
	"redis_url":              "",
	"cache_ttl":              time.Hour,
	"shutdown_timeout":       10 * time.Second,
	"fraud_delay":            500 * time.Millisecond,
	"fraud_pass_probability": 0.5,
	"shortcode_max_attempts": 5,
}

// Load reads .env when present, then the process environment, then defaults
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:                 v.GetString("port"),
		BaseURL:              strings.TrimRight(v.GetString("base_url"), "/"),
		Env:                  v.GetString("app_env"),
		LogLevel:             v.GetString("log_level"),
		LogFormat:            v.GetString("log_format"),
		StoreDriver:          strings.ToLower(v.GetString("store_driver")),
		DatabaseURL:          v.GetString("database_url"),
		DBMaxRetries:         v.GetInt("db_max_retries"),
		DBRetryDelay:         v.GetDuration("db_retry_delay"),
		DBMaxOpenConns:       v.GetInt("db_max_open_conns"),
		DBMaxIdleConns:       v.GetInt("db_max_idle_conns"),
		RedisURL:             v.GetString("redis_url"),
		CacheTTL:             v.GetDuration("cache_ttl"),
		ShutdownTimeout:      v.GetDuration("shutdown_timeout"),
		FraudDelay:           v.GetDuration("fraud_delay"),
		FraudPassProbability: v.GetFloat64("fraud_pass_probability"),
		ShortCodeMaxAttempts: v.GetInt("shortcode_max_attempts"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER is postgres"))
		}
	case StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.BaseURL == "" {
		errs = append(errs, errors.New("BASE_URL must not be empty"))
	}
	if c.FraudPassProbability < 0 || c.FraudPassProbability > 1 {
		errs = append(errs, fmt.Errorf("FRAUD_PASS_PROBABILITY must be within [0, 1], got %v", c.FraudPassProbability))
	}
	if c.ShortCodeMaxAttempts < 1 {
		errs = append(errs, errors.New("SHORTCODE_MAX_ATTEMPTS must be at least 1"))
	}
	if c.DBMaxRetries < 1 {
		errs = append(errs, errors.New("DB_MAX_RETRIES must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
