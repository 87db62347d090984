// Package application provides the application layer for the tabletop
// pipeline: the dispatcher and the processor façade composing parser,
// middleware chain, and output routing.
package application

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/middleware"
)

// Dispatch is the terminal handler of the middleware chain: it executes
// the parsed command against the robot. Commands convert domain errors
// to Error results themselves; Dispatch additionally absorbs panics from
// dynamically registered commands so that execution-level failures never
// propagate past the dispatcher boundary.
func Dispatch(_ context.Context, execCtx *middleware.ExecutionContext) (res command.Result, err error) {
	if execCtx.Command == nil {
		return command.Success(), nil
	}

	defer func() {
		if r := recover(); r != nil {
			res = command.Failure(fmt.Errorf("command %s panicked: %v", execCtx.Command.Name(), r))
			err = nil
		}
	}()

	return execCtx.Command.Execute(execCtx.Robot), nil
}
