package grid

import "strings"

// Direction is one of the four compass directions.
// Directions are identified by stable strings, carry a movement delta,
// and rotate as a pure function of the current value.
type Direction string

// Canonical directions.
const (
	North Direction = "NORTH"
	East  Direction = "EAST"
	South Direction = "SOUTH"
	West  Direction = "WEST"
)

// ParseDirection resolves a direction name case-insensitively.
// Unrecognized names fail with ErrInvalidDirection.
func ParseDirection(name string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(name))) {
	case North:
		return North, nil
	case East:
		return East, nil
	case South:
		return South, nil
	case West:
		return West, nil
	default:
		return "", ErrInvalidDirection
	}
}

// IsValid reports whether the direction is a recognized compass value.
func (d Direction) IsValid() bool {
	switch d {
	case North, East, South, West:
		return true
	default:
		return false
	}
}

// Delta returns the unit movement vector for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// TurnRight returns the direction rotated 90 degrees clockwise.
// Rotation order is fixed: NORTH -> EAST -> SOUTH -> WEST -> NORTH.
func (d Direction) TurnRight() Direction {
	switch d {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	case West:
		return North
	default:
		return d
	}
}

// TurnLeft returns the direction rotated 90 degrees counterclockwise.
func (d Direction) TurnLeft() Direction {
	switch d {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	case East:
		return North
	default:
		return d
	}
}

// String returns the string representation of the direction.
func (d Direction) String() string {
	return string(d)
}

// AllDirections returns all compass directions in rotation order.
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}
