// Package cache provides the domain contracts for result and state
// caching: the backend key-value interface, the resilient service
// consumed by the pipeline, and the key derivation scheme.
package cache

import (
	"context"
	"time"
)

// Cache defines the backend key-value contract. Any namespaced store
// with TTL support satisfies it: in-memory map, Redis, SQLite, BadgerDB,
// Postgres. Backends are safe for concurrent use; each operation is
// independent and idempotent.
type Cache interface {
	// Get retrieves a cached value by key.
	// Returns the value, whether it was found, and any error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given key and options.
	Set(ctx context.Context, key string, value []byte, opts SetOptions) error

	// Delete removes a cached entry by key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)

	// Keys returns the keys matching the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error

	// Ping checks backend availability.
	Ping(ctx context.Context) error
}

// SetOptions configures how a value is stored in the cache.
type SetOptions struct {
	// TTL is the time-to-live for the cached entry.
	// Zero means no expiration.
	TTL time.Duration
}

// Stats provides backend cache statistics.
type Stats struct {
	// Hits is the number of cache hits.
	Hits int64
	// Misses is the number of cache misses.
	Misses int64
	// Size is the current number of entries.
	Size int64
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int64
}

// HitRate returns the fraction of lookups served from cache.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// StatsProvider is an optional interface for backends that support
// statistics.
type StatsProvider interface {
	// Stats returns current cache statistics.
	Stats() Stats
}
