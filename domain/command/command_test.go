package command_test

import (
	"testing"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/grid"
	"github.com/felixgeelhaar/tabletop/domain/robot"
)

func newRobot(t *testing.T) *robot.Robot {
	t.Helper()
	return robot.New(grid.NewDefault())
}

func TestPlace_Execute(t *testing.T) {
	t.Parallel()

	t.Run("valid placement succeeds silently", func(t *testing.T) {
		t.Parallel()
		r := newRobot(t)

		res := command.Place{X: 0, Y: 0, Facing: grid.North}.Execute(r)
		if !res.IsSuccess() {
			t.Errorf("result = %+v, want success", res)
		}
		if !r.Placed() {
			t.Error("robot should be placed")
		}
	})

	t.Run("off-grid placement yields invalid_position error", func(t *testing.T) {
		t.Parallel()
		r := newRobot(t)

		res := command.Place{X: 9, Y: 9, Facing: grid.North}.Execute(r)
		if !res.IsError() || res.ErrorKind != command.ErrorInvalidPosition {
			t.Errorf("result = %+v, want invalid_position error", res)
		}
	})
}

func TestPlace_Valid(t *testing.T) {
	t.Parallel()

	if !(command.Place{X: 0, Y: 0, Facing: grid.North}).Valid() {
		t.Error("non-negative placement with recognized direction should be valid")
	}
	if (command.Place{X: -1, Y: 0, Facing: grid.North}).Valid() {
		t.Error("negative x should be invalid")
	}
	if (command.Place{X: 0, Y: 0, Facing: grid.Direction("UP")}).Valid() {
		t.Error("unrecognized direction should be invalid")
	}
}

func TestUnplacedCommands_YieldNotPlaced(t *testing.T) {
	t.Parallel()

	cmds := []command.Command{command.Move{}, command.Left{}, command.Right{}, command.Report{}}
	for _, cmd := range cmds {
		t.Run(cmd.Name(), func(t *testing.T) {
			t.Parallel()
			res := cmd.Execute(newRobot(t))
			if !res.IsError() || res.ErrorKind != command.ErrorNotPlaced {
				t.Errorf("%s result = %+v, want not_placed error", cmd.Name(), res)
			}
		})
	}
}

func TestReport_Execute(t *testing.T) {
	t.Parallel()

	r := newRobot(t)
	if res := (command.Place{X: 2, Y: 1, Facing: grid.East}).Execute(r); !res.IsSuccess() {
		t.Fatalf("place result = %+v", res)
	}

	res := command.Report{}.Execute(r)
	if !res.IsOutput() {
		t.Fatalf("result = %+v, want output", res)
	}
	if res.Message != "2,1,EAST" {
		t.Errorf("message = %s, want 2,1,EAST", res.Message)
	}
}

func TestExit_Execute(t *testing.T) {
	t.Parallel()

	res := command.Exit{}.Execute(newRobot(t))
	if !res.IsOutput() || !res.Terminate {
		t.Errorf("result = %+v, want terminating output", res)
	}
	if res.Message != command.GoodbyeMessage {
		t.Errorf("message = %s, want goodbye", res.Message)
	}
}

func TestResult_MarshalRoundTrip(t *testing.T) {
	t.Parallel()

	orig := command.Output("1,2,NORTH")
	data, err := orig.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got, err := command.UnmarshalResult(data)
	if err != nil {
		t.Fatalf("UnmarshalResult() error = %v", err)
	}
	if got != orig {
		t.Errorf("round-trip = %+v, want %+v", got, orig)
	}
}
