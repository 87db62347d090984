package badger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/felixgeelhaar/tabletop/domain/cache"
)

// Cache is a BadgerDB-backed implementation of cache.Cache.
type Cache struct {
	db        *badger.DB
	keyPrefix string
	hits      atomic.Int64
	misses    atomic.Int64
	gcStop    chan struct{}
	gcWg      sync.WaitGroup
}

// NewCache creates a new BadgerDB cache with the given configuration.
func NewCache(cfg Config, opts ...Option) (*Cache, error) {
	// Apply options
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		db:        db,
		keyPrefix: cfg.KeyPrefix,
		gcStop:    make(chan struct{}),
	}

	// Start GC goroutine
	if cfg.GCInterval > 0 {
		c.startGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}

	return c, nil
}

// NewCacheFromDB creates a cache from an existing BadgerDB database.
func NewCacheFromDB(db *badger.DB, keyPrefix string) *Cache {
	return &Cache{
		db:        db,
		keyPrefix: keyPrefix,
		gcStop:    make(chan struct{}),
	}
}

// startGC starts the garbage collection goroutine.
func (c *Cache) startGC(interval time.Duration, discardRatio float64) {
	c.gcWg.Add(1)
	go func() {
		defer c.gcWg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.gcStop:
				return
			case <-ticker.C:
				for {
					err := c.db.RunValueLogGC(discardRatio)
					if err != nil {
						break
					}
				}
			}
		}
	}()
}

// prefixKey adds the key prefix.
func (c *Cache) prefixKey(key string) []byte {
	return []byte(c.keyPrefix + key)
}

// Get retrieves a value from the cache. Expired entries are handled by
// Badger's native TTL and surface as misses.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	prefixedKey := c.prefixKey(key)
	var value []byte

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(prefixedKey)
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
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

	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(prefixedKey, value)

		if opts.TTL > 0 {
			e = e.WithTTL(opts.TTL)
		}

		return txn.SetEntry(e)
	})
}

// Delete removes a value from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefixedKey := c.prefixKey(key)

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(prefixedKey)
	})
}

// Exists checks if a key exists in the cache.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	prefixedKey := c.prefixKey(key)

	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(prefixedKey)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// Keys returns all cache keys matching the given prefix, with the
// namespace prefix stripped.
func (c *Cache) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPrefix := c.prefixKey(prefix)
	prefixLen := len(c.keyPrefix)

	var keys []string

	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = fullPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key()[prefixLen:])
			keys = append(keys, key)
		}
		return nil
	})

	return keys, err
}

// Clear removes all entries with the cache prefix.
func (c *Cache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.DropPrefix([]byte(c.keyPrefix))
}

// Stats returns cache statistics.
func (c *Cache) Stats() cache.Stats {
	var size int64

	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(c.keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			size++
		}
		return nil
	})

	return cache.Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   size,
	}
}

// Ping reports whether the database is usable. Badger is embedded, so
// this only checks the handle has not been closed.
func (c *Cache) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.db.IsClosed() {
		return cache.ErrConnectionFailed
	}
	return nil
}

// Close closes the database.
func (c *Cache) Close() error {
	// Stop GC goroutine
	close(c.gcStop)
	c.gcWg.Wait()

	return c.db.Close()
}

// DB returns the underlying BadgerDB database.
func (c *Cache) DB() *badger.DB {
	return c.db
}

// Ensure Cache implements cache.Cache and cache.StatsProvider
var (
	_ cache.Cache         = (*Cache)(nil)
	_ cache.StatsProvider = (*Cache)(nil)
)
