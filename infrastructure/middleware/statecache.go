package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/tabletop/domain/cache"
	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/middleware"
	"github.com/felixgeelhaar/tabletop/domain/robot"
	"github.com/felixgeelhaar/tabletop/infrastructure/logging"
)

// StateSnapshotConfig configures the state snapshot middleware.
type StateSnapshotConfig struct {
	// TTL bounds the lifetime of stored snapshots. Zero means no expiry.
	TTL time.Duration
}

// StateSnapshot returns middleware that persists the robot's pose to the
// cache service after every successfully dispatched command, so a later
// session can resume where this one left off. Snapshot failures are
// logged and absorbed; they never affect the command result.
func StateSnapshot(service cache.Service, cfg StateSnapshotConfig) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
			result, err := next(ctx, execCtx)
			if err != nil || service == nil {
				return result, err
			}

			if result.IsError() {
				return result, nil
			}

			snap := execCtx.Robot.Snapshot()
			data, merr := snap.Marshal()
			if merr != nil {
				logging.Warn().
					Add(logging.AgentID(execCtx.AgentID)).
					Add(logging.ErrorField(merr)).
					Msg("snapshot marshal failed")
				return result, nil
			}

			key := cache.StateKey(execCtx.AgentID)
			_ = service.Set(ctx, key, data, cache.SetOptions{TTL: cfg.TTL})

			return result, nil
		}
	}
}

// LoadSnapshot restores a robot's pose from its cached snapshot. A
// missing or unreadable snapshot leaves the robot untouched and reports
// false.
func LoadSnapshot(ctx context.Context, service cache.Service, r *robot.Robot) (bool, error) {
	if service == nil {
		return false, nil
	}

	data, found, err := service.Get(ctx, cache.StateKey(r.ID()))
	if err != nil || !found {
		return false, err
	}

	snap, err := robot.UnmarshalSnapshot(data)
	if err != nil {
		logging.Warn().
			Add(logging.AgentID(r.ID())).
			Add(logging.ErrorField(err)).
			Msg("discarding unreadable snapshot")
		return false, nil
	}

	if err := r.Restore(snap); err != nil {
		return false, err
	}
	return true, nil
}
