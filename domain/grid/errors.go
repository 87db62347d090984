package grid

import "errors"

// Domain errors for the grid.
var (
	// ErrInvalidDirection indicates an unrecognized direction name.
	ErrInvalidDirection = errors.New("invalid direction")
)
