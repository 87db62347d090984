package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for tabletop pipeline logging.

// AgentID adds the robot's agent id.
func AgentID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("agent_id", id)
	}
}

// Cmd adds the canonical command name.
func Cmd(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("command", name)
	}
}

// Raw adds the raw command line.
func Raw(line string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("raw", line)
	}
}

// Signature adds the robot state signature.
func Signature(sig string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("signature", sig)
	}
}

// Cached adds whether a result was served from cache.
func Cached(cached bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("cached", cached)
	}
}

// Key adds a cache key.
func Key(key string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("key", key)
	}
}

// Backend adds the cache backend name.
func Backend(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("backend", name)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Str adds an arbitrary string field.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// Int adds an arbitrary int field.
func Int(key string, value int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, value)
	}
}
