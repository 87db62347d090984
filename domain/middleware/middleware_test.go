package middleware_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/middleware"
)

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next middleware.Handler) middleware.Handler {
			return func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
				order = append(order, name+":before")
				res, err := next(ctx, execCtx)
				order = append(order, name+":after")
				return res, err
			}
		}
	}

	final := func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
		order = append(order, "handler")
		return command.Success(), nil
	}

	handler := middleware.Chain(tag("a"), tag("b"))(final)
	if _, err := handler(context.Background(), &middleware.ExecutionContext{}); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	want := []string{"a:before", "b:before", "handler", "b:after", "a:after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestChain_ShortCircuit(t *testing.T) {
	t.Parallel()

	cut := func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
			return command.Output("cached"), nil
		}
	}

	called := false
	final := func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
		called = true
		return command.Success(), nil
	}

	res, err := middleware.Chain(cut)(final)(context.Background(), &middleware.ExecutionContext{})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if called {
		t.Error("short-circuiting middleware should not invoke the final handler")
	}
	if res.Message != "cached" {
		t.Errorf("message = %s, want cached", res.Message)
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	final := func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
		return command.Success(), nil
	}

	res, err := middleware.Noop()(final)(context.Background(), &middleware.ExecutionContext{})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !res.IsSuccess() {
		t.Errorf("result = %+v, want success", res)
	}
}
