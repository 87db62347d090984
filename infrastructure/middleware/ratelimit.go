package middleware

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/middleware"
	"github.com/felixgeelhaar/tabletop/infrastructure/logging"
)

// ErrRateLimitExceeded is returned when a command is rejected by the
// rate limiter.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// RateLimitScope defines the scope for rate limiting.
type RateLimitScope string

const (
	// ScopeGlobal applies rate limiting across all agents and commands.
	ScopeGlobal RateLimitScope = "global"
	// ScopePerAgent applies rate limiting per agent.
	ScopePerAgent RateLimitScope = "per_agent"
	// ScopePerCommand applies rate limiting per command type.
	ScopePerCommand RateLimitScope = "per_command"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Limiter is the rate limiter to use.
	// If nil, a default limiter will be created with the specified options.
	Limiter ratelimit.RateLimiter

	// Scope determines how rate limiting keys are generated.
	// Default is ScopeGlobal.
	Scope RateLimitScope

	// Rate is the number of tokens added per interval.
	// Only used if Limiter is nil.
	Rate int

	// Burst is the maximum number of tokens (bucket capacity).
	// Only used if Limiter is nil.
	Burst int

	// FailOpen allows commands through when the rate limiter fails.
	FailOpen bool

	// OnLimitExceeded is called when a command is rate limited.
	OnLimitExceeded func(ctx context.Context, execCtx *middleware.ExecutionContext)
}

// DefaultRateLimitConfig returns a sensible default rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Scope: ScopeGlobal,
		Rate:  100,
		Burst: 100,
	}
}

// RateLimit returns middleware that enforces rate limits on command
// dispatch using fortify's token bucket rate limiter.
func RateLimit(cfg RateLimitConfig) middleware.Middleware {
	limiter := cfg.Limiter
	if limiter == nil {
		rate := cfg.Rate
		if rate <= 0 {
			rate = 100
		}
		burst := cfg.Burst
		if burst <= 0 {
			burst = rate
		}
		limiter = ratelimit.New(&ratelimit.Config{
			Rate:     rate,
			Burst:    burst,
			FailOpen: cfg.FailOpen,
		})
	}

	scope := cfg.Scope
	if scope == "" {
		scope = ScopeGlobal
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
			key := rateLimitKey(scope, execCtx)

			if !limiter.Allow(ctx, key) {
				logging.Warn().
					Add(logging.AgentID(execCtx.AgentID)).
					Add(logging.Cmd(execCtx.Command.Name())).
					Add(logging.Str("scope", string(scope))).
					Add(logging.Key(key)).
					Msg("rate limit exceeded")

				if cfg.OnLimitExceeded != nil {
					cfg.OnLimitExceeded(ctx, execCtx)
				}

				return command.Result{}, ErrRateLimitExceeded
			}

			return next(ctx, execCtx)
		}
	}
}

// rateLimitKey generates a rate limiting key based on scope.
func rateLimitKey(scope RateLimitScope, execCtx *middleware.ExecutionContext) string {
	switch scope {
	case ScopePerAgent:
		return execCtx.AgentID
	case ScopePerCommand:
		return execCtx.Command.Name()
	default:
		return "global"
	}
}
