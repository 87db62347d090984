// Package resilience provides a degrading cache service using fortify.
// Cache failures never fail command processing: reads degrade to misses
// and writes degrade to no-ops while the circuit is open.
package resilience

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/tabletop/domain/cache"
	"github.com/felixgeelhaar/tabletop/infrastructure/logging"
)

// Service wraps a cache backend with circuit breaker and retry patterns.
type Service struct {
	backend cache.Cache
	breaker circuitbreaker.CircuitBreaker[[]byte]
	retry   retry.Retry[[]byte]
	timeout time.Duration
}

// ServiceConfig configures the resilient cache service.
type ServiceConfig struct {
	// CircuitBreakerThreshold is the number of consecutive failures before opening.
	CircuitBreakerThreshold int

	// CircuitBreakerTimeout is how long the circuit stays open.
	CircuitBreakerTimeout time.Duration

	// MaxRequests limits half-open probe requests.
	MaxRequests int

	// RetryMaxAttempts is the maximum number of retry attempts.
	RetryMaxAttempts int

	// RetryInitialDelay is the initial delay between retries.
	RetryInitialDelay time.Duration

	// RetryBackoffMultiplier is the exponential backoff multiplier.
	RetryBackoffMultiplier float64

	// OperationTimeout bounds each backend operation.
	OperationTimeout time.Duration
}

// DefaultServiceConfig returns a configuration with sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   30 * time.Second,
		MaxRequests:             3,
		RetryMaxAttempts:        2,
		RetryInitialDelay:       50 * time.Millisecond,
		RetryBackoffMultiplier:  2.0,
		OperationTimeout:        2 * time.Second,
	}
}

// NewService creates a resilient cache service over the given backend.
func NewService(backend cache.Cache, config ServiceConfig) *Service {
	threshold := config.CircuitBreakerThreshold
	if threshold <= 0 {
		threshold = 5
	}
	maxRequests := config.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 3
	}

	return &Service{
		backend: backend,
		breaker: circuitbreaker.New[[]byte](circuitbreaker.Config{
			MaxRequests: uint32(maxRequests), // #nosec G115 -- bounds checked above
			Interval:    config.CircuitBreakerTimeout,
			Timeout:     config.CircuitBreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- bounds checked above
			},
		}),
		retry: retry.New[[]byte](retry.Config{
			MaxAttempts:   config.RetryMaxAttempts,
			InitialDelay:  config.RetryInitialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    config.RetryBackoffMultiplier,
		}),
		timeout: config.OperationTimeout,
	}
}

// NewDefaultService creates a service with default configuration.
func NewDefaultService(backend cache.Cache) *Service {
	return NewService(backend, DefaultServiceConfig())
}

// execute runs one backend operation through the breaker and retry.
// Composition order: Timeout → Circuit Breaker → Retry.
func (s *Service) execute(ctx context.Context, op func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.breaker.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		return s.retry.Do(ctx, op)
	})
}

// Get retrieves a value. Backend failure degrades to a miss.
func (s *Service) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var found bool
	value, err := s.execute(ctx, func(ctx context.Context) ([]byte, error) {
		v, ok, err := s.backend.Get(ctx, key)
		found = ok
		return v, err
	})
	if err != nil {
		logging.Warn().
			Add(logging.Key(key)).
			Add(logging.ErrorField(err)).
			Msg("cache read degraded to miss")
		return nil, false, nil
	}
	return value, found, nil
}

// Set stores a value. Backend failure degrades to a no-op.
func (s *Service) Set(ctx context.Context, key string, value []byte, opts cache.SetOptions) error {
	_, err := s.execute(ctx, func(ctx context.Context) ([]byte, error) {
		return nil, s.backend.Set(ctx, key, value, opts)
	})
	if err != nil {
		logging.Warn().
			Add(logging.Key(key)).
			Add(logging.ErrorField(err)).
			Msg("cache write dropped")
	}
	return nil
}

// InvalidateAgent removes every key in the agent's namespace.
func (s *Service) InvalidateAgent(ctx context.Context, agentID string) error {
	prefix := cache.AgentPrefix(agentID)

	var keys []string
	_, err := s.execute(ctx, func(ctx context.Context) ([]byte, error) {
		var err error
		keys, err = s.backend.Keys(ctx, prefix)
		return nil, err
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		if _, err := s.execute(ctx, func(ctx context.Context) ([]byte, error) {
			return nil, s.backend.Delete(ctx, key)
		}); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all entries from the backend.
func (s *Service) Clear(ctx context.Context) error {
	_, err := s.execute(ctx, func(ctx context.Context) ([]byte, error) {
		return nil, s.backend.Clear(ctx)
	})
	return err
}

// Stats aggregates key counts by type. A degraded backend yields empty
// stats rather than an error.
func (s *Service) Stats(ctx context.Context) cache.ServiceStats {
	stats := cache.ServiceStats{
		KeysByType: make(map[string]int64),
	}

	var keys []string
	_, err := s.execute(ctx, func(ctx context.Context) ([]byte, error) {
		var err error
		keys, err = s.backend.Keys(ctx, cache.Root())
		return nil, err
	})
	if err != nil {
		return stats
	}

	stats.TotalKeys = int64(len(keys))
	for _, key := range keys {
		stats.KeysByType[cache.KeyType(key)]++
	}

	if provider, ok := s.backend.(cache.StatsProvider); ok {
		stats.HitRate = provider.Stats().HitRate()
	}

	return stats
}

// HealthCheck reports backend availability.
func (s *Service) HealthCheck(ctx context.Context) cache.Health {
	_, err := s.execute(ctx, func(ctx context.Context) ([]byte, error) {
		return nil, s.backend.Ping(ctx)
	})
	if err != nil {
		return cache.Health{Available: false}
	}

	return cache.Health{
		Available: true,
		Stats:     s.Stats(ctx),
	}
}

// State returns the current circuit breaker state.
func (s *Service) State() circuitbreaker.State {
	return s.breaker.State()
}

// Ensure Service implements cache.Service
var _ cache.Service = (*Service)(nil)
