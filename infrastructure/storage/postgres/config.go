// Package postgres provides PostgreSQL-backed storage implementations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures PostgreSQL storage.
type Config struct {
	// Host is the database server host.
	Host string

	// Port is the database server port.
	Port int

	// Database is the database name.
	Database string

	// User for authentication.
	User string

	// Password for authentication.
	Password string

	// SSLMode sets the SSL mode (disable, require, verify-ca, verify-full).
	SSLMode string

	// MaxConns is the maximum pool size.
	MaxConns int32

	// MinConns is the minimum pool size.
	MinConns int32

	// MaxConnLifetime is the maximum connection lifetime.
	MaxConnLifetime time.Duration

	// MaxConnIdleTime is the maximum idle time for connections.
	MaxConnIdleTime time.Duration

	// ConnectTimeout is the timeout for establishing connections.
	ConnectTimeout time.Duration

	// Schema is the database schema to use.
	Schema string
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            5432,
		Database:        "tabletop",
		User:            "postgres",
		SSLMode:         "disable",
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		Schema:          "public",
	}
}

// ConnectionString builds a libpq-style connection string.
func (c Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode)
}

// ConfigOption configures the PostgreSQL connection.
type ConfigOption func(*Config)

// WithHost sets the database host.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithPort sets the database port.
func WithPort(port int) ConfigOption {
	return func(c *Config) {
		c.Port = port
	}
}

// WithDatabase sets the database name.
func WithDatabase(name string) ConfigOption {
	return func(c *Config) {
		c.Database = name
	}
}

// WithCredentials sets the user and password.
func WithCredentials(user, password string) ConfigOption {
	return func(c *Config) {
		c.User = user
		c.Password = password
	}
}

// WithSSLMode sets the SSL mode.
func WithSSLMode(mode string) ConfigOption {
	return func(c *Config) {
		c.SSLMode = mode
	}
}

// WithPoolSize sets the minimum and maximum pool size.
func WithPoolSize(minConns, maxConns int32) ConfigOption {
	return func(c *Config) {
		c.MinConns = minConns
		c.MaxConns = maxConns
	}
}

// WithSchema sets the database schema.
func WithSchema(schema string) ConfigOption {
	return func(c *Config) {
		c.Schema = schema
	}
}

// Errors
var (
	ErrConnectionFailed = errors.New("postgres: connection failed")
	ErrMigrationFailed  = errors.New("postgres: migration failed")
)

// NewPool creates a pgx connection pool from the configuration.
func NewPool(ctx context.Context, cfg Config, opts ...ConfigOption) (*pgxpool.Pool, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return pool, nil
}
