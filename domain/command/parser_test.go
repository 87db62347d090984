package command_test

import (
	"testing"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/grid"
)

func TestParse_Place(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want command.Place
	}{
		{"comma separated", "PLACE 1,2,NORTH", command.Place{X: 1, Y: 2, Facing: grid.North}},
		{"space separated", "PLACE 1 2 NORTH", command.Place{X: 1, Y: 2, Facing: grid.North}},
		{"parenthesized", "PLACE (1,2,NORTH)", command.Place{X: 1, Y: 2, Facing: grid.North}},
		{"lowercase", "place 0,0,west", command.Place{X: 0, Y: 0, Facing: grid.West}},
		{"surrounding whitespace", "  PLACE 3,3,EAST  ", command.Place{X: 3, Y: 3, Facing: grid.East}},
		{"internal whitespace runs", "PLACE   4 ,  4 , SOUTH", command.Place{X: 4, Y: 4, Facing: grid.South}},
		{"negative coordinates parse", "PLACE -1,-2,NORTH", command.Place{X: -1, Y: -2, Facing: grid.North}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd, ok := command.Parse(tt.line)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.line)
			}
			place, isPlace := cmd.(command.Place)
			if !isPlace {
				t.Fatalf("Parse(%q) = %T, want Place", tt.line, cmd)
			}
			if place != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, place, tt.want)
			}
		})
	}
}

func TestParse_PlaceRejections(t *testing.T) {
	t.Parallel()

	lines := []string{
		"PLACE a,b,NORTH", // non-numeric coordinates are rejected, not coerced
		"PLACE 1,NORTH",
		"PLACE 1,2,3,NORTH",
		"PLACE 1,2,NORTHEAST",
		"PLACE 1.5,2,NORTH",
		"PLACE",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			t.Parallel()
			if cmd, ok := command.Parse(line); ok {
				t.Errorf("Parse(%q) = %+v, want failure", line, cmd)
			}
		})
	}
}

func TestParse_SimpleCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want string
	}{
		{"MOVE", command.NameMove},
		{"move", command.NameMove},
		{"  LEFT  ", command.NameLeft},
		{"Right", command.NameRight},
		{"REPORT", command.NameReport},
		{"EXIT", command.NameExit},
		{"quit", command.NameExit},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			cmd, ok := command.Parse(tt.line)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.line)
			}
			if cmd.Name() != tt.want {
				t.Errorf("Parse(%q).Name() = %s, want %s", tt.line, cmd.Name(), tt.want)
			}
		})
	}
}

func TestParse_Rejections(t *testing.T) {
	t.Parallel()

	lines := []string{
		"",
		"   ",
		"JUMP",
		"MOVE 2",
		"REPORT now",
		"MOVEIT",
	}

	for _, line := range lines {
		t.Run("line "+line, func(t *testing.T) {
			t.Parallel()
			if cmd, ok := command.Parse(line); ok {
				t.Errorf("Parse(%q) = %+v, want failure", line, cmd)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	name, args := command.Split("  place (1, 2, north) ")
	if name != command.NamePlace {
		t.Errorf("name = %s, want PLACE", name)
	}
	if len(args) != 3 || args[0] != "1" || args[1] != "2" || args[2] != "north" {
		t.Errorf("args = %v, want [1 2 north]", args)
	}

	name, args = command.Split("   ")
	if name != "" || args != nil {
		t.Errorf("Split of blank line = %q %v, want empty", name, args)
	}
}
