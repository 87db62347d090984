package command

import (
	"strconv"
	"strings"

	"github.com/felixgeelhaar/tabletop/domain/grid"
)

// Parse converts a raw command line into a Command. It tolerates
// surrounding whitespace, arbitrary internal whitespace runs, and
// case-insensitive command and direction names. PLACE arguments may be
// comma-separated (X,Y,DIR), space-separated (X Y DIR), or parenthesized
// ((X,Y,DIR)).
//
// Unparseable input returns (nil, false); parse failures are never
// errors. Non-numeric coordinates are rejected outright. Negative
// coordinates parse fine; the grid rejects them at execution time.
func Parse(line string) (Command, bool) {
	name, args := Split(line)

	switch name {
	case NamePlace:
		return parsePlace(args)
	case NameMove:
		return noArgs(Move{}, args)
	case NameLeft:
		return noArgs(Left{}, args)
	case NameRight:
		return noArgs(Right{}, args)
	case NameReport:
		return noArgs(Report{}, args)
	case NameExit, NameQuit:
		return noArgs(Exit{}, args)
	default:
		return nil, false
	}
}

// Split tokenizes a raw line into an uppercase command name and its
// argument tokens, with commas and parentheses normalized to spaces.
func Split(line string) (name string, args []string) {
	fields := strings.Fields(normalize(line))
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToUpper(fields[0]), fields[1:]
}

// normalize rewrites argument separators so that every supported PLACE
// layout tokenizes identically.
func normalize(line string) string {
	replacer := strings.NewReplacer(",", " ", "(", " ", ")", " ")
	return replacer.Replace(strings.TrimSpace(line))
}

// parsePlace builds a Place command from normalized argument tokens.
func parsePlace(args []string) (Command, bool) {
	if len(args) != 3 {
		return nil, false
	}

	x, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, false
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, false
	}
	facing, err := grid.ParseDirection(args[2])
	if err != nil {
		return nil, false
	}

	return Place{X: x, Y: y, Facing: facing}, true
}

// noArgs accepts an argument-less command only when no arguments follow.
func noArgs(cmd Command, args []string) (Command, bool) {
	if len(args) != 0 {
		return nil, false
	}
	return cmd, true
}
