package cache_test

import (
	"strings"
	"testing"

	"github.com/felixgeelhaar/tabletop/domain/cache"
)

func TestResultKey_Determinism(t *testing.T) {
	t.Parallel()

	a := cache.ResultKey("agent-1", "MOVE", "0,0,NORTH")
	b := cache.ResultKey("agent-1", "MOVE", "0,0,NORTH")
	if a != b {
		t.Errorf("identical (command, state) pairs should produce identical keys: %s != %s", a, b)
	}
}

func TestResultKey_StateSensitivity(t *testing.T) {
	t.Parallel()

	a := cache.ResultKey("agent-1", "MOVE", "0,0,NORTH")
	b := cache.ResultKey("agent-1", "MOVE", "0,1,NORTH")
	if a == b {
		t.Error("differing agent state should produce different keys")
	}

	c := cache.ResultKey("agent-1", "MOVE", "unplaced")
	if a == c {
		t.Error("unplaced state should produce a different key")
	}
}

func TestResultKey_TextNormalization(t *testing.T) {
	t.Parallel()

	a := cache.ResultKey("agent-1", "MOVE", "0,0,NORTH")
	b := cache.ResultKey("agent-1", "  move  ", "0,0,NORTH")
	if a != b {
		t.Error("whitespace and case variants of a command should share a key")
	}
}

func TestResultKey_AgentNamespacing(t *testing.T) {
	t.Parallel()

	a := cache.ResultKey("agent-1", "MOVE", "0,0,NORTH")
	b := cache.ResultKey("agent-2", "MOVE", "0,0,NORTH")
	if a == b {
		t.Error("different agents should not share result keys")
	}
	if !strings.HasPrefix(a, cache.AgentPrefix("agent-1")) {
		t.Errorf("key %s should carry the agent-1 prefix", a)
	}
}

func TestStateKey(t *testing.T) {
	t.Parallel()

	key := cache.StateKey("agent-1")
	if key != "robot:agent-1:state" {
		t.Errorf("StateKey = %s, want robot:agent-1:state", key)
	}
}

func TestKeyType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{cache.StateKey("a"), "state"},
		{cache.ResultKey("a", "MOVE", "unplaced"), "result"},
		{"garbage", ""},
		{"other:a:state", ""},
	}

	for _, tt := range tests {
		if got := cache.KeyType(tt.key); got != tt.want {
			t.Errorf("KeyType(%s) = %s, want %s", tt.key, got, tt.want)
		}
	}
}
