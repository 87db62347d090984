package middleware_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/grid"
	"github.com/felixgeelhaar/tabletop/domain/robot"
	infra "github.com/felixgeelhaar/tabletop/infrastructure/middleware"
)

func TestStateSnapshot_PersistsAfterDispatch(t *testing.T) {
	t.Parallel()

	svc := newService()
	mw := infra.StateSnapshot(svc, infra.StateSnapshotConfig{})
	r := placedRobot(t)

	calls := 0
	handler := mw(countingHandler(&calls, command.Success()))
	ctx := context.Background()

	if _, err := handler(ctx, execContext(r, "MOVE", command.Move{})); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	// A fresh robot with the same id resumes from the snapshot.
	restored := robot.NewWithID(r.ID(), grid.NewDefault())
	ok, err := infra.LoadSnapshot(ctx, svc, restored)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if !ok {
		t.Fatal("LoadSnapshot() should find the snapshot")
	}
	if restored.Signature() != r.Signature() {
		t.Errorf("restored signature = %s, want %s", restored.Signature(), r.Signature())
	}
}

func TestStateSnapshot_ErrorResultSkipsSnapshot(t *testing.T) {
	t.Parallel()

	svc := newService()
	mw := infra.StateSnapshot(svc, infra.StateSnapshotConfig{})
	r := robot.New(grid.NewDefault())

	calls := 0
	handler := mw(countingHandler(&calls, command.Failure(robot.ErrNotPlaced)))
	ctx := context.Background()

	if _, err := handler(ctx, execContext(r, "MOVE", command.Move{})); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	restored := robot.NewWithID(r.ID(), grid.NewDefault())
	ok, err := infra.LoadSnapshot(ctx, svc, restored)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if ok {
		t.Error("rejected commands should not write snapshots")
	}
}

func TestLoadSnapshot_MissLeavesRobotUntouched(t *testing.T) {
	t.Parallel()

	svc := newService()
	r := robot.New(grid.NewDefault())

	ok, err := infra.LoadSnapshot(context.Background(), svc, r)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if ok {
		t.Error("LoadSnapshot() without a snapshot should report false")
	}
	if r.Placed() {
		t.Error("robot should stay unplaced")
	}
}
