// Package robot provides the robot aggregate: a mutable pose on a grid
// with the "must be placed before acting" invariant enforced on every
// operation.
package robot

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/tabletop/domain/grid"
)

// Robot holds an optional position and direction on a grid.
// Either both are set ("placed") or both are unset; the pose is never
// partially set. All mutating operations change only the robot's own state.
//
// Robot is not safe for concurrent use; callers sharing a robot across
// goroutines must serialize access externally.
type Robot struct {
	id      string
	surface grid.Grid
	pos     grid.Position
	facing  grid.Direction
	placed  bool
}

// New creates an unplaced robot on the given grid with a generated agent id.
func New(surface grid.Grid) *Robot {
	return &Robot{
		id:      uuid.NewString(),
		surface: surface,
	}
}

// NewWithID creates an unplaced robot with a caller-supplied agent id.
// Used when restoring a robot from a cached snapshot.
func NewWithID(id string, surface grid.Grid) *Robot {
	if id == "" {
		id = uuid.NewString()
	}
	return &Robot{id: id, surface: surface}
}

// ID returns the stable agent identifier used for cache namespacing.
func (r *Robot) ID() string {
	return r.id
}

// Grid returns the surface the robot moves on.
func (r *Robot) Grid() grid.Grid {
	return r.surface
}

// Placed reports whether the robot has a defined position and direction.
func (r *Robot) Placed() bool {
	return r.placed
}

// Position returns the current position. Only meaningful when placed.
func (r *Robot) Position() grid.Position {
	return r.pos
}

// Facing returns the current direction. Only meaningful when placed.
func (r *Robot) Facing() grid.Direction {
	return r.facing
}

// Place sets the robot's pose. Re-placement is always allowed regardless of
// prior state; an out-of-grid position fails with ErrInvalidPosition and
// leaves prior state untouched.
func (r *Robot) Place(p grid.Position, d grid.Direction) error {
	if !d.IsValid() {
		return grid.ErrInvalidDirection
	}
	if !r.surface.Valid(p) {
		return ErrInvalidPosition
	}
	r.pos = p
	r.facing = d
	r.placed = true
	return nil
}

// Move advances the robot one cell in its facing direction. A move that
// would leave the grid is a silent no-op; the robot stays put. Fails with
// ErrNotPlaced when the robot has no pose.
func (r *Robot) Move() error {
	if !r.placed {
		return ErrNotPlaced
	}
	dx, dy := r.facing.Delta()
	next := r.pos.Move(dx, dy)
	if r.surface.Valid(next) {
		r.pos = next
	}
	return nil
}

// TurnLeft rotates the robot 90 degrees counterclockwise.
func (r *Robot) TurnLeft() error {
	if !r.placed {
		return ErrNotPlaced
	}
	r.facing = r.facing.TurnLeft()
	return nil
}

// TurnRight rotates the robot 90 degrees clockwise.
func (r *Robot) TurnRight() error {
	if !r.placed {
		return ErrNotPlaced
	}
	r.facing = r.facing.TurnRight()
	return nil
}

// Report returns the canonical "x,y,DIRECTION" report string.
func (r *Robot) Report() (string, error) {
	if !r.placed {
		return "", ErrNotPlaced
	}
	return fmt.Sprintf("%d,%d,%s", r.pos.X, r.pos.Y, r.facing), nil
}

// Signature returns the cache key signature for the current state:
// "unplaced", or the report string when placed.
func (r *Robot) Signature() string {
	if !r.placed {
		return SignatureUnplaced
	}
	return fmt.Sprintf("%d,%d,%s", r.pos.X, r.pos.Y, r.facing)
}

// SignatureUnplaced is the state signature of a robot with no pose.
const SignatureUnplaced = "unplaced"
