package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/middleware"
	"github.com/felixgeelhaar/tabletop/infrastructure/logging"
)

// LoggingConfig configures the logging middleware.
type LoggingConfig struct {
	// LogRaw logs the raw command line.
	LogRaw bool
	// LogOutput logs the result message.
	LogOutput bool
}

// Logging returns middleware that logs command dispatch.
func Logging(cfg LoggingConfig) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
			start := time.Now()

			entry := logging.Info().
				Add(logging.AgentID(execCtx.AgentID)).
				Add(logging.Cmd(execCtx.Command.Name())).
				Add(logging.Signature(execCtx.Signature))

			if cfg.LogRaw {
				entry = entry.Add(logging.Raw(execCtx.Raw))
			}

			entry.Msg("dispatching command")

			result, err := next(ctx, execCtx)
			duration := time.Since(start)

			if err != nil {
				logging.Error().
					Add(logging.AgentID(execCtx.AgentID)).
					Add(logging.Cmd(execCtx.Command.Name())).
					Add(logging.ErrorField(err)).
					Add(logging.Duration(duration)).
					Msg("command dispatch failed")
				return result, err
			}

			logEntry := logging.Info().
				Add(logging.AgentID(execCtx.AgentID)).
				Add(logging.Cmd(execCtx.Command.Name())).
				Add(logging.Duration(duration)).
				Add(logging.Cached(result.Cached))

			if cfg.LogOutput && result.Message != "" {
				logEntry = logEntry.Add(logging.Str("message", result.Message))
			}

			logEntry.Msg("command dispatched")

			return result, nil
		}
	}
}
