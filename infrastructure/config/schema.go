package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Configuration errors.
var (
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidFormat     = errors.New("invalid config format")
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrValidationFailed  = errors.New("config validation failed")
	ErrMissingEnvVar     = errors.New("missing environment variable")
)

// Backend names accepted by CacheConfig.Backend.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Config is the root configuration for the simulator.
type Config struct {
	Grid      GridConfig      `yaml:"grid" json:"grid"`
	Cache     CacheConfig     `yaml:"cache" json:"cache"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
}

// GridConfig sets the tabletop dimensions.
type GridConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	// Enabled turns result and state caching on.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Backend selects the storage backend: memory, redis, sqlite,
	// badger, or postgres.
	Backend string `yaml:"backend" json:"backend"`

	// TTL bounds the lifetime of cached results.
	TTL time.Duration `yaml:"ttl" json:"ttl"`

	Memory   MemoryCacheConfig   `yaml:"memory" json:"memory"`
	Redis    RedisCacheConfig    `yaml:"redis" json:"redis"`
	SQLite   SQLiteCacheConfig   `yaml:"sqlite" json:"sqlite"`
	Badger   BadgerCacheConfig   `yaml:"badger" json:"badger"`
	Postgres PostgresCacheConfig `yaml:"postgres" json:"postgres"`
}

// MemoryCacheConfig configures the in-memory backend.
type MemoryCacheConfig struct {
	MaxSize int `yaml:"max_size" json:"max_size"`
}

// RedisCacheConfig configures the Redis backend.
type RedisCacheConfig struct {
	Address   string `yaml:"address" json:"address"`
	Password  string `yaml:"password" json:"password"`
	DB        int    `yaml:"db" json:"db"`
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`
}

// SQLiteCacheConfig configures the SQLite backend.
type SQLiteCacheConfig struct {
	DSN string `yaml:"dsn" json:"dsn"`
}

// BadgerCacheConfig configures the BadgerDB backend.
type BadgerCacheConfig struct {
	Dir      string `yaml:"dir" json:"dir"`
	InMemory bool   `yaml:"in_memory" json:"in_memory"`
}

// PostgresCacheConfig configures the PostgreSQL backend.
type PostgresCacheConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Database string `yaml:"database" json:"database"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	SSLMode  string `yaml:"ssl_mode" json:"ssl_mode"`
	Schema   string `yaml:"schema" json:"schema"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// RateLimitConfig configures the command rate limiter.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Rate    int  `yaml:"rate" json:"rate"`
	Burst   int  `yaml:"burst" json:"burst"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Width:  5,
			Height: 5,
		},
		Cache: CacheConfig{
			Enabled: false,
			Backend: BackendMemory,
			TTL:     5 * time.Minute,
			Memory:  MemoryCacheConfig{MaxSize: 1000},
			Redis: RedisCacheConfig{
				Address:   "localhost:6379",
				KeyPrefix: "tabletop:",
			},
			SQLite: SQLiteCacheConfig{
				DSN: "file:tabletop.db?cache=shared&mode=rwc",
			},
			Badger: BadgerCacheConfig{
				InMemory: true,
			},
			Postgres: PostgresCacheConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "tabletop",
				User:     "postgres",
				SSLMode:  "disable",
				Schema:   "public",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			Rate:    100,
			Burst:   100,
		},
	}
}

// ValidationErrors collects field-level validation failures.
type ValidationErrors struct {
	Errors []string
}

// Add records a failure for a field.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, field+": "+message)
}

// HasErrors reports whether any failure was recorded.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	return strings.Join(v.Errors, "; ")
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() *ValidationErrors {
	errs := &ValidationErrors{}

	if c.Grid.Width <= 0 {
		errs.Add("grid.width", "must be positive")
	}
	if c.Grid.Height <= 0 {
		errs.Add("grid.height", "must be positive")
	}

	if c.Cache.Enabled {
		switch c.Cache.Backend {
		case BackendMemory, BackendRedis, BackendSQLite, BackendBadger, BackendPostgres:
		default:
			errs.Add("cache.backend", fmt.Sprintf("unknown backend %q", c.Cache.Backend))
		}
		if c.Cache.TTL < 0 {
			errs.Add("cache.ttl", "must not be negative")
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs.Add("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Rate <= 0 {
			errs.Add("rate_limit.rate", "must be positive")
		}
		if c.RateLimit.Burst <= 0 {
			errs.Add("rate_limit.burst", "must be positive")
		}
	}

	return errs
}
