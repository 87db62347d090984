package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/tabletop/domain/cache"
)

// Cache is a PostgreSQL-backed implementation of cache.Cache.
type Cache struct {
	pool      *pgxpool.Pool
	schema    string
	keyPrefix string
	hits      atomic.Int64
	misses    atomic.Int64
}

// NewCache creates a cache on an existing connection pool and runs the
// schema migration.
func NewCache(ctx context.Context, pool *pgxpool.Pool, schema, keyPrefix string) (*Cache, error) {
	if schema == "" {
		schema = "public"
	}

	c := &Cache{
		pool:      pool,
		schema:    schema,
		keyPrefix: keyPrefix,
	}

	if err := c.migrate(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// NewCacheFromPool creates a cache without running migrations.
func NewCacheFromPool(pool *pgxpool.Pool, schema, keyPrefix string) *Cache {
	if schema == "" {
		schema = "public"
	}
	return &Cache{
		pool:      pool,
		schema:    schema,
		keyPrefix: keyPrefix,
	}
}

// tableName returns the fully qualified table name.
func (c *Cache) tableName() string {
	return fmt.Sprintf("%s.cache", c.schema)
}

// migrate creates the cache table if it doesn't exist.
func (c *Cache) migrate(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_cache_expires_at ON %s (expires_at);
	`, c.tableName(), c.tableName())

	if _, err := c.pool.Exec(ctx, schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// prefixKey adds the key prefix.
func (c *Cache) prefixKey(key string) string {
	return c.keyPrefix + key
}

// Get retrieves a value from the cache.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	prefixedKey := c.prefixKey(key)

	var value []byte
	var expiresAt *time.Time

	err := c.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT value, expires_at FROM %s WHERE key = $1", c.tableName()),
		prefixedKey,
	).Scan(&value, &expiresAt)

	if errors.Is(err, pgx.ErrNoRows) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, c.wrapError(err)
	}

	// Check expiration
	if expiresAt != nil && !expiresAt.After(time.Now()) {
		_, _ = c.pool.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE key = $1", c.tableName()),
			prefixedKey,
		)
		c.misses.Add(1)
		return nil, false, nil
	}

	c.hits.Add(1)
	return value, true, nil
}

// Set stores a value in the cache.
func (c *Cache) Set(ctx context.Context, key string, value []byte, opts cache.SetOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if key == "" {
		return cache.ErrInvalidKey
	}

	prefixedKey := c.prefixKey(key)

	var expiresAt *time.Time
	if opts.TTL > 0 {
		t := time.Now().Add(opts.TTL)
		expiresAt = &t
	}

	_, err := c.pool.Exec(ctx,
		fmt.Sprintf(`
			INSERT INTO %s (key, value, expires_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET
				value = EXCLUDED.value,
				expires_at = EXCLUDED.expires_at,
				updated_at = now()
		`, c.tableName()),
		prefixedKey, value, expiresAt,
	)

	return c.wrapError(err)
}

// Delete removes a value from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.pool.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE key = $1", c.tableName()),
		c.prefixKey(key),
	)
	return c.wrapError(err)
}

// Exists checks if a key exists in the cache.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var exists bool
	err := c.pool.QueryRow(ctx,
		fmt.Sprintf(
			"SELECT EXISTS (SELECT 1 FROM %s WHERE key = $1 AND (expires_at IS NULL OR expires_at > now()))",
			c.tableName()),
		c.prefixKey(key),
	).Scan(&exists)
	if err != nil {
		return false, c.wrapError(err)
	}

	return exists, nil
}

// Keys returns all keys matching the given prefix, excluding expired
// entries, with the namespace prefix stripped.
func (c *Cache) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx,
		fmt.Sprintf(
			`SELECT key FROM %s WHERE key LIKE $1 AND (expires_at IS NULL OR expires_at > now())`,
			c.tableName()),
		escapeLike(c.prefixKey(prefix))+"%",
	)
	if err != nil {
		return nil, c.wrapError(err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, c.wrapError(err)
		}
		keys = append(keys, strings.TrimPrefix(key, c.keyPrefix))
	}
	return keys, c.wrapError(rows.Err())
}

// escapeLike escapes LIKE wildcards in a literal prefix.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// Clear removes all entries with the cache prefix.
func (c *Cache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	if c.keyPrefix != "" {
		_, err = c.pool.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE key LIKE $1", c.tableName()),
			escapeLike(c.keyPrefix)+"%",
		)
	} else {
		_, err = c.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", c.tableName()))
	}
	return c.wrapError(err)
}

// Cleanup removes expired entries.
func (c *Cache) Cleanup(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tag, err := c.pool.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE expires_at IS NOT NULL AND expires_at <= now()", c.tableName()),
	)
	if err != nil {
		return 0, c.wrapError(err)
	}

	return tag.RowsAffected(), nil
}

// Stats returns cache statistics.
func (c *Cache) Stats() cache.Stats {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var size int64
	_ = c.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s", c.tableName()),
	).Scan(&size)

	return cache.Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   size,
	}
}

// Ping checks the database connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	c.pool.Close()
	return nil
}

// Pool returns the underlying connection pool.
func (c *Cache) Pool() *pgxpool.Pool {
	return c.pool
}

// wrapError wraps database errors with domain errors.
func (c *Cache) wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(cache.ErrOperationTimeout, err)
	}

	return err
}

// Ensure Cache implements cache.Cache and cache.StatsProvider
var (
	_ cache.Cache         = (*Cache)(nil)
	_ cache.StatsProvider = (*Cache)(nil)
)
