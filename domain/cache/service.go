package cache

import "context"

// Service is the cache surface the pipeline consumes. Implementations
// must be resilient: when the backend is unavailable, reads degrade to
// misses and writes to no-ops, and the pipeline behaves identically
// minus the speed benefit. Get and Set never surface backend errors;
// their error returns carry only caller-side failures such as a
// cancelled context.
type Service interface {
	// Get retrieves a value; unavailability is reported as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value; unavailability makes it a no-op.
	Set(ctx context.Context, key string, value []byte, opts SetOptions) error

	// InvalidateAgent removes exactly the keys namespaced under the
	// given agent id and no others.
	InvalidateAgent(ctx context.Context, agentID string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Stats summarizes the service's view of the backend.
	Stats(ctx context.Context) ServiceStats

	// HealthCheck reports backend availability together with stats.
	HealthCheck(ctx context.Context) Health
}

// ServiceStats summarizes cache usage for operators.
type ServiceStats struct {
	// TotalKeys is the number of live keys in the namespace.
	TotalKeys int64 `json:"total_keys"`
	// HitRate is the fraction of lookups served from cache.
	HitRate float64 `json:"hit_rate"`
	// KeysByType counts keys per type segment (state, result, ...).
	KeysByType map[string]int64 `json:"keys_by_type"`
}

// Health reports cache backend availability.
type Health struct {
	Available bool         `json:"available"`
	Stats     ServiceStats `json:"stats"`
}
