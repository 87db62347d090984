package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/tabletop/domain/cache"
	"github.com/felixgeelhaar/tabletop/infrastructure/config"
	"github.com/felixgeelhaar/tabletop/infrastructure/resilience"
	"github.com/felixgeelhaar/tabletop/infrastructure/storage/badger"
	"github.com/felixgeelhaar/tabletop/infrastructure/storage/memory"
	"github.com/felixgeelhaar/tabletop/infrastructure/storage/postgres"
	"github.com/felixgeelhaar/tabletop/infrastructure/storage/redis"
	"github.com/felixgeelhaar/tabletop/infrastructure/storage/sqlite"
)

// newCacheService constructs the cache backend selected by the
// configuration and wraps it in the resilient service. The returned
// cleanup function releases backend resources and is safe to call once.
func newCacheService(ctx context.Context, cfg *config.Config) (cache.Service, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}

	var (
		backend cache.Cache
		cleanup = func() {}
	)

	switch cfg.Cache.Backend {
	case config.BackendMemory:
		opts := []memory.CacheOption{}
		if cfg.Cache.Memory.MaxSize > 0 {
			opts = append(opts, memory.WithMaxSize(cfg.Cache.Memory.MaxSize))
		}
		backend = memory.NewCache(opts...)

	case config.BackendRedis:
		c, err := redis.NewCache(redis.DefaultConfig(),
			redis.WithAddress(cfg.Cache.Redis.Address),
			redis.WithPassword(cfg.Cache.Redis.Password),
			redis.WithDB(cfg.Cache.Redis.DB),
			redis.WithKeyPrefix(cfg.Cache.Redis.KeyPrefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis backend: %w", err)
		}
		backend = c
		cleanup = func() { _ = c.Close() }

	case config.BackendSQLite:
		c, err := sqlite.NewCache(sqlite.DefaultConfig(),
			sqlite.WithDSN(cfg.Cache.SQLite.DSN),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite backend: %w", err)
		}
		backend = c
		cleanup = func() { _ = c.Close() }

	case config.BackendBadger:
		opts := []badger.Option{}
		if cfg.Cache.Badger.InMemory {
			opts = append(opts, badger.WithInMemory())
		} else {
			opts = append(opts, badger.WithDir(cfg.Cache.Badger.Dir))
		}
		c, err := badger.NewCache(badger.DefaultConfig(), opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("badger backend: %w", err)
		}
		backend = c
		cleanup = func() { _ = c.Close() }

	case config.BackendPostgres:
		pg := cfg.Cache.Postgres
		pool, err := postgres.NewPool(ctx, postgres.DefaultConfig(),
			postgres.WithHost(pg.Host),
			postgres.WithPort(pg.Port),
			postgres.WithDatabase(pg.Database),
			postgres.WithCredentials(pg.User, pg.Password),
			postgres.WithSSLMode(pg.SSLMode),
			postgres.WithSchema(pg.Schema),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres backend: %w", err)
		}
		c, err := postgres.NewCache(ctx, pool, pg.Schema, "")
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres backend: %w", err)
		}
		backend = c
		cleanup = func() { _ = c.Close() }

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	return resilience.NewDefaultService(backend), cleanup, nil
}
