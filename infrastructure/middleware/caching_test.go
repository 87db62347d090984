package middleware_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/tabletop/domain/cache"
	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/grid"
	"github.com/felixgeelhaar/tabletop/domain/middleware"
	"github.com/felixgeelhaar/tabletop/domain/robot"
	infra "github.com/felixgeelhaar/tabletop/infrastructure/middleware"
	"github.com/felixgeelhaar/tabletop/infrastructure/resilience"
	"github.com/felixgeelhaar/tabletop/infrastructure/storage/memory"
)

func placedRobot(t *testing.T) *robot.Robot {
	t.Helper()
	r := robot.New(grid.NewDefault())
	if err := r.Place(grid.NewPosition(1, 2), grid.North); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	return r
}

func execContext(r *robot.Robot, raw string, cmd command.Command) *middleware.ExecutionContext {
	return &middleware.ExecutionContext{
		AgentID:   r.ID(),
		Raw:       raw,
		Signature: r.Signature(),
		Command:   cmd,
		Robot:     r,
	}
}

func countingHandler(calls *int, result command.Result) middleware.Handler {
	return func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
		*calls++
		return result, nil
	}
}

func newService() cache.Service {
	return resilience.NewDefaultService(memory.NewCache())
}

func TestResultCaching_HitSkipsHandler(t *testing.T) {
	t.Parallel()

	svc := newService()
	mw := infra.ResultCaching(svc, infra.DefaultResultCachingConfig())
	r := placedRobot(t)

	calls := 0
	handler := mw(countingHandler(&calls, command.Output("1,2,NORTH")))
	ctx := context.Background()

	res, err := handler(ctx, execContext(r, "REPORT", command.Report{}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if res.Cached {
		t.Error("first dispatch should not be cached")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	res, err = handler(ctx, execContext(r, "REPORT", command.Report{}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !res.Cached {
		t.Error("second dispatch should be served from cache")
	}
	if res.Message != "1,2,NORTH" {
		t.Errorf("cached message = %s, want 1,2,NORTH", res.Message)
	}
	if calls != 1 {
		t.Errorf("cache hit must not reach the handler (calls = %d)", calls)
	}
}

func TestResultCaching_StateChangeMisses(t *testing.T) {
	t.Parallel()

	svc := newService()
	mw := infra.ResultCaching(svc, infra.DefaultResultCachingConfig())
	r := placedRobot(t)

	calls := 0
	handler := mw(countingHandler(&calls, command.Output("1,2,NORTH")))
	ctx := context.Background()

	if _, err := handler(ctx, execContext(r, "REPORT", command.Report{})); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	// Moving changes the signature, so the next report must recompute.
	if err := r.Move(); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	res, err := handler(ctx, execContext(r, "REPORT", command.Report{}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if res.Cached {
		t.Error("report after a state change must not be served from cache")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestResultCaching_IdenticalStateHitSkipsDispatch(t *testing.T) {
	t.Parallel()

	svc := newService()
	mw := infra.ResultCaching(svc, infra.DefaultResultCachingConfig())
	r := placedRobot(t)

	calls := 0
	handler := mw(countingHandler(&calls, command.Success()))
	ctx := context.Background()

	// Same command text against the same signature: the second dispatch
	// is a hit and never reaches the handler. Side effects are skipped
	// on hits; that is the documented tradeoff of result caching.
	if _, err := handler(ctx, execContext(r, "MOVE", command.Move{})); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	res, err := handler(ctx, execContext(r, "MOVE", command.Move{}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !res.Cached {
		t.Error("identical (command, state) pair should be served from cache")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestResultCaching_ErrorResultsNotCached(t *testing.T) {
	t.Parallel()

	svc := newService()
	mw := infra.ResultCaching(svc, infra.DefaultResultCachingConfig())
	r := robot.New(grid.NewDefault()) // unplaced

	calls := 0
	handler := mw(countingHandler(&calls, command.Failure(robot.ErrNotPlaced)))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := handler(ctx, execContext(r, "REPORT", command.Report{}))
		if err != nil {
			t.Fatalf("handler error = %v", err)
		}
		if res.Cached {
			t.Error("error results must never be served from cache")
		}
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestResultCaching_NilCommandPassesThrough(t *testing.T) {
	t.Parallel()

	svc := newService()
	mw := infra.ResultCaching(svc, infra.DefaultResultCachingConfig())
	r := placedRobot(t)

	calls := 0
	handler := mw(countingHandler(&calls, command.Success()))
	ctx := context.Background()

	// Blank input dispatches with no command; both passes must reach the
	// handler and neither may be served from cache.
	for i := 0; i < 2; i++ {
		res, err := handler(ctx, execContext(r, "", nil))
		if err != nil {
			t.Fatalf("handler error = %v", err)
		}
		if res.Cached {
			t.Error("nil commands must never be served from cache")
		}
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestResultCaching_NilServicePassesThrough(t *testing.T) {
	t.Parallel()

	mw := infra.ResultCaching(nil, infra.DefaultResultCachingConfig())
	r := placedRobot(t)

	calls := 0
	handler := mw(countingHandler(&calls, command.Output("1,2,NORTH")))

	if _, err := handler(context.Background(), execContext(r, "REPORT", command.Report{})); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
