// Package grid provides the core value types for the tabletop surface:
// positions, compass directions, and the bounded grid itself.
package grid

import "fmt"

// Position is an immutable coordinate pair on the grid.
// Operations return a new Position; a Position is never mutated in place.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewPosition creates a position at the given coordinates.
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// Move returns the position translated by the given delta.
func (p Position) Move(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// String returns the canonical "x,y" form.
func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Grid is a bounded rectangular surface. It is constructed once at startup
// and immutable thereafter.
type Grid struct {
	width  int
	height int
}

// DefaultSize is the classic 5x5 tabletop.
const DefaultSize = 5

// New creates a grid with the given dimensions. Negative dimensions are
// clamped to zero; a zero-sized grid makes every position invalid.
func New(width, height int) Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Grid{width: width, height: height}
}

// NewDefault creates the standard 5x5 grid.
func NewDefault() Grid {
	return New(DefaultSize, DefaultSize)
}

// Width returns the grid width.
func (g Grid) Width() int {
	return g.width
}

// Height returns the grid height.
func (g Grid) Height() int {
	return g.height
}

// Valid reports whether the position lies on the grid.
func (g Grid) Valid(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}
