// Package middleware provides the infrastructure decorators for the
// command dispatch chain: result caching, state snapshots, logging,
// metrics, tracing, and rate limiting.
package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/tabletop/domain/cache"
	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/middleware"
	"github.com/felixgeelhaar/tabletop/infrastructure/logging"
)

// ResultCachingConfig configures the result caching middleware.
type ResultCachingConfig struct {
	// TTL bounds the lifetime of cached results. Zero means no expiry.
	TTL time.Duration
}

// DefaultResultCachingConfig returns a sensible default configuration.
func DefaultResultCachingConfig() ResultCachingConfig {
	return ResultCachingConfig{
		TTL: 5 * time.Minute,
	}
}

// ResultCaching returns middleware that serves command results from the
// cache service. The cache key covers the normalized command text and
// the robot's state signature, so a hit can only occur for a (command,
// state) pair that has executed before. A hit skips execution entirely,
// including its side effects; pair this with StateSnapshot when the
// robot's pose must survive hits on mutating commands.
func ResultCaching(service cache.Service, cfg ResultCachingConfig) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
			// A nil command is the dispatcher's no-op; there is
			// nothing worth caching for it.
			if service == nil || execCtx.Command == nil {
				return next(ctx, execCtx)
			}

			key := cache.ResultKey(execCtx.AgentID, execCtx.Raw, execCtx.Signature)

			if data, found, err := service.Get(ctx, key); err == nil && found {
				result, err := command.UnmarshalResult(data)
				if err == nil {
					result.Cached = true
					logging.Debug().
						Add(logging.AgentID(execCtx.AgentID)).
						Add(logging.Cmd(execCtx.Command.Name())).
						Add(logging.Key(key)).
						Msg("result served from cache")
					return result, nil
				}
				// A corrupt entry falls through and is overwritten below.
			}

			result, err := next(ctx, execCtx)
			if err != nil {
				return result, err
			}

			// Error and terminating results are never cached.
			if result.IsError() || result.Terminate {
				return result, nil
			}

			if data, merr := result.Marshal(); merr == nil {
				_ = service.Set(ctx, key, data, cache.SetOptions{TTL: cfg.TTL})
			}

			return result, nil
		}
	}
}
