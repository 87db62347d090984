package resilience

import (
	"time"

	"github.com/felixgeelhaar/tabletop/domain/cache"
)

// Option configures the cache service.
type Option func(*ServiceConfig)

// WithCircuitBreakerThreshold sets the failure threshold for the circuit breaker.
func WithCircuitBreakerThreshold(n int) Option {
	return func(c *ServiceConfig) {
		c.CircuitBreakerThreshold = n
	}
}

// WithCircuitBreakerTimeout sets the circuit breaker open duration.
func WithCircuitBreakerTimeout(d time.Duration) Option {
	return func(c *ServiceConfig) {
		c.CircuitBreakerTimeout = d
	}
}

// WithRetryAttempts sets the maximum retry attempts.
func WithRetryAttempts(n int) Option {
	return func(c *ServiceConfig) {
		c.RetryMaxAttempts = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *ServiceConfig) {
		c.RetryInitialDelay = d
	}
}

// WithOperationTimeout sets the per-operation timeout.
func WithOperationTimeout(d time.Duration) Option {
	return func(c *ServiceConfig) {
		c.OperationTimeout = d
	}
}

// NewServiceWithOptions creates a service with the given options.
func NewServiceWithOptions(backend cache.Cache, opts ...Option) *Service {
	config := DefaultServiceConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewService(backend, config)
}
