package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names recognized by ApplyEnvOverrides.
const (
	EnvGridWidth     = "TABLETOP_GRID_WIDTH"
	EnvGridHeight    = "TABLETOP_GRID_HEIGHT"
	EnvCacheEnabled  = "TABLETOP_CACHE_ENABLED"
	EnvCacheBackend  = "TABLETOP_CACHE_BACKEND"
	EnvCacheTTL      = "TABLETOP_CACHE_TTL"
	EnvRedisAddress  = "TABLETOP_REDIS_ADDRESS"
	EnvRedisPassword = "TABLETOP_REDIS_PASSWORD"
	EnvSQLiteDSN     = "TABLETOP_SQLITE_DSN"
	EnvBadgerDir     = "TABLETOP_BADGER_DIR"
	EnvPostgresHost  = "TABLETOP_POSTGRES_HOST"
	EnvLogLevel      = "TABLETOP_LOG_LEVEL"
	EnvLogFormat     = "TABLETOP_LOG_FORMAT"
)

// ApplyEnvOverrides applies TABLETOP_* environment variables on top of
// the configuration. Unset variables leave the corresponding field
// unchanged.
func (c *Config) ApplyEnvOverrides() error {
	if v, ok := os.LookupEnv(EnvGridWidth); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrValidationFailed, EnvGridWidth, v)
		}
		c.Grid.Width = n
	}
	if v, ok := os.LookupEnv(EnvGridHeight); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrValidationFailed, EnvGridHeight, v)
		}
		c.Grid.Height = n
	}
	if v, ok := os.LookupEnv(EnvCacheEnabled); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrValidationFailed, EnvCacheEnabled, v)
		}
		c.Cache.Enabled = b
	}
	if v, ok := os.LookupEnv(EnvCacheBackend); ok {
		c.Cache.Backend = v
	}
	if v, ok := os.LookupEnv(EnvCacheTTL); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrValidationFailed, EnvCacheTTL, v)
		}
		c.Cache.TTL = d
	}
	if v, ok := os.LookupEnv(EnvRedisAddress); ok {
		c.Cache.Redis.Address = v
	}
	if v, ok := os.LookupEnv(EnvRedisPassword); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := os.LookupEnv(EnvSQLiteDSN); ok {
		c.Cache.SQLite.DSN = v
	}
	if v, ok := os.LookupEnv(EnvBadgerDir); ok {
		c.Cache.Badger.Dir = v
		c.Cache.Badger.InMemory = false
	}
	if v, ok := os.LookupEnv(EnvPostgresHost); ok {
		c.Cache.Postgres.Host = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.Logging.Format = v
	}
	return nil
}

// FromEnv returns the default configuration with environment overrides
// applied.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, errs)
	}
	return cfg, nil
}
