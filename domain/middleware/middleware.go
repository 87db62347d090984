// Package middleware provides composable middleware for command dispatch.
package middleware

import (
	"context"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/robot"
)

// ExecutionContext contains all information needed for middleware decisions.
type ExecutionContext struct {
	// AgentID is the robot's stable identifier for cache namespacing.
	AgentID string
	// Raw is the original command line as received.
	Raw string
	// Signature is the robot's state signature before execution.
	Signature string
	// Command is the parsed command being dispatched.
	Command command.Command
	// Robot is the robot the command executes against.
	Robot *robot.Robot
}

// Handler dispatches a command and returns its result.
type Handler func(ctx context.Context, execCtx *ExecutionContext) (command.Result, error)

// Middleware wraps a Handler with additional behavior.
// Middleware can:
// - Execute code before the next handler
// - Execute code after the next handler
// - Short-circuit by not calling next
// - Transform results or errors
type Middleware func(next Handler) Handler

// Chain composes multiple middleware into a single middleware.
// Middleware are executed in the order provided, with each wrapping the next.
// For example, Chain(A, B, C) produces: A -> B -> C -> handler
func Chain(middlewares ...Middleware) Middleware {
	return func(final Handler) Handler {
		// Build chain from right to left so execution is left to right
		handler := final
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// Noop returns a middleware that does nothing, just passes through.
func Noop() Middleware {
	return func(next Handler) Handler {
		return next
	}
}
