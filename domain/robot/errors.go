package robot

import "errors"

// Domain errors for robot operations.
var (
	// ErrNotPlaced indicates a mutating or reporting operation on an
	// unplaced robot.
	ErrNotPlaced = errors.New("robot not placed")

	// ErrInvalidPosition indicates a placement outside the grid bounds.
	ErrInvalidPosition = errors.New("invalid position")
)
