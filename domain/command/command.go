// Package command provides the parsed command model for the tabletop
// pipeline: the command variants, the tolerant text parser, the execution
// result variant, and the registry contract for dynamically added commands.
package command

import (
	"fmt"

	"github.com/felixgeelhaar/tabletop/domain/grid"
	"github.com/felixgeelhaar/tabletop/domain/robot"
)

// Command is a parsed instruction ready to execute against a robot.
// Commands are immutable once constructed. Valid reports syntactic
// validity only; robot-state preconditions (such as "must be placed")
// are checked at execution time.
type Command interface {
	// Name returns the canonical command name (PLACE, MOVE, ...).
	Name() string

	// Valid reports whether the command is well-formed independent of
	// robot state.
	Valid() bool

	// Execute runs the command against the robot and returns the result.
	// Domain errors are converted to Error results, never propagated.
	Execute(r *robot.Robot) Result
}

// Canonical command names.
const (
	NamePlace  = "PLACE"
	NameMove   = "MOVE"
	NameLeft   = "LEFT"
	NameRight  = "RIGHT"
	NameReport = "REPORT"
	NameExit   = "EXIT"
	NameQuit   = "QUIT"
)

// GoodbyeMessage is emitted when an exit command terminates the session.
const GoodbyeMessage = "Goodbye!"

// Place sets the robot's pose.
type Place struct {
	X      int
	Y      int
	Facing grid.Direction
}

// Name returns PLACE.
func (Place) Name() string { return NamePlace }

// Valid requires non-negative coordinates and a recognized direction.
func (c Place) Valid() bool {
	return c.X >= 0 && c.Y >= 0 && c.Facing.IsValid()
}

// Execute places the robot, replacing any prior pose.
func (c Place) Execute(r *robot.Robot) Result {
	if err := r.Place(grid.NewPosition(c.X, c.Y), c.Facing); err != nil {
		return Failure(err)
	}
	return Success()
}

// String returns the canonical text form.
func (c Place) String() string {
	return fmt.Sprintf("%s %d,%d,%s", NamePlace, c.X, c.Y, c.Facing)
}

// Move advances the robot one cell in its facing direction.
type Move struct{}

// Name returns MOVE.
func (Move) Name() string { return NameMove }

// Valid is always true for argument-less commands.
func (Move) Valid() bool { return true }

// Execute moves the robot; boundary moves are silent no-ops.
func (Move) Execute(r *robot.Robot) Result {
	if err := r.Move(); err != nil {
		return Failure(err)
	}
	return Success()
}

// Left rotates the robot counterclockwise.
type Left struct{}

// Name returns LEFT.
func (Left) Name() string { return NameLeft }

// Valid is always true for argument-less commands.
func (Left) Valid() bool { return true }

// Execute rotates the robot left.
func (Left) Execute(r *robot.Robot) Result {
	if err := r.TurnLeft(); err != nil {
		return Failure(err)
	}
	return Success()
}

// Right rotates the robot clockwise.
type Right struct{}

// Name returns RIGHT.
func (Right) Name() string { return NameRight }

// Valid is always true for argument-less commands.
func (Right) Valid() bool { return true }

// Execute rotates the robot right.
func (Right) Execute(r *robot.Robot) Result {
	if err := r.TurnRight(); err != nil {
		return Failure(err)
	}
	return Success()
}

// Report emits the robot's position and facing.
type Report struct{}

// Name returns REPORT.
func (Report) Name() string { return NameReport }

// Valid is always true for argument-less commands.
func (Report) Valid() bool { return true }

// Execute produces an Output result with the canonical report string.
func (Report) Execute(r *robot.Robot) Result {
	msg, err := r.Report()
	if err != nil {
		return Failure(err)
	}
	return Output(msg)
}

// Exit terminates the session. It matches both EXIT and QUIT.
type Exit struct{}

// Name returns EXIT.
func (Exit) Name() string { return NameExit }

// Valid is always true for argument-less commands.
func (Exit) Valid() bool { return true }

// Execute emits the goodbye message and signals termination.
func (Exit) Execute(_ *robot.Robot) Result {
	res := Output(GoodbyeMessage)
	res.Terminate = true
	return res
}
