package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/tabletop/domain/cache"
)

func TestNewCacheFromPool(t *testing.T) {
	t.Parallel()

	t.Run("defaults to public schema", func(t *testing.T) {
		t.Parallel()
		c := NewCacheFromPool(nil, "", "tabletop:")
		if c.schema != "public" {
			t.Errorf("schema = %s, want public", c.schema)
		}
	})

	t.Run("keeps custom schema", func(t *testing.T) {
		t.Parallel()
		c := NewCacheFromPool(nil, "app", "")
		if c.schema != "app" {
			t.Errorf("schema = %s, want app", c.schema)
		}
	})
}

func TestCache_tableName(t *testing.T) {
	t.Parallel()

	c := NewCacheFromPool(nil, "app", "")
	if c.tableName() != "app.cache" {
		t.Errorf("tableName() = %s, want app.cache", c.tableName())
	}
}

func TestCache_prefixKey(t *testing.T) {
	t.Parallel()

	c := NewCacheFromPool(nil, "", "tabletop:")
	got := c.prefixKey("robot:a:state")
	if got != "tabletop:robot:a:state" {
		t.Errorf("prefixKey() = %s, want tabletop:robot:a:state", got)
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"robot:a:", "robot:a:"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCache_wrapError(t *testing.T) {
	t.Parallel()

	c := NewCacheFromPool(nil, "", "")

	t.Run("returns nil for nil error", func(t *testing.T) {
		t.Parallel()
		if err := c.wrapError(nil); err != nil {
			t.Errorf("wrapError(nil) = %v, want nil", err)
		}
	})

	t.Run("wraps deadline exceeded as timeout", func(t *testing.T) {
		t.Parallel()
		err := c.wrapError(context.DeadlineExceeded)
		if !errors.Is(err, cache.ErrOperationTimeout) {
			t.Error("wrapError(DeadlineExceeded) should wrap as ErrOperationTimeout")
		}
	})
}

func TestCache_ContextCancellation(t *testing.T) {
	t.Parallel()

	c := NewCacheFromPool(nil, "", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := c.Get(ctx, "key"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
	if err := c.Set(ctx, "key", []byte("v"), cache.SetOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
	if _, err := c.Keys(ctx, "robot:"); !errors.Is(err, context.Canceled) {
		t.Errorf("Keys() error = %v, want context.Canceled", err)
	}
}

// TestCache_InterfaceCompliance verifies that Cache implements the required interfaces.
func TestCache_InterfaceCompliance(t *testing.T) {
	t.Parallel()

	var _ cache.Cache = (*Cache)(nil)
	var _ cache.StatsProvider = (*Cache)(nil)
}
