// Package memory provides in-memory storage implementations.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/tabletop/domain/command"
)

// CommandRegistry is an in-memory implementation of command.Registry.
type CommandRegistry struct {
	ctors map[string]command.Constructor
	mu    sync.RWMutex
}

// NewCommandRegistry creates a new in-memory command registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		ctors: make(map[string]command.Constructor),
	}
}

// Register maps a name to a constructor. Re-registering a name replaces
// its constructor.
func (r *CommandRegistry) Register(name string, ctor command.Constructor) {
	if name == "" || ctor == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[normalize(name)] = ctor
}

// Create builds a command by name. Constructor errors and panics are
// absorbed; Create is a total function over (name, args).
func (r *CommandRegistry) Create(name string, args []string) (cmd command.Command, ok bool) {
	r.mu.RLock()
	ctor, found := r.ctors[normalize(name)]
	r.mu.RUnlock()

	if !found {
		return nil, false
	}

	defer func() {
		if recover() != nil {
			cmd = nil
			ok = false
		}
	}()

	built, err := ctor(args)
	if err != nil || built == nil {
		return nil, false
	}
	return built, true
}

// Names returns the registered command names in sorted order.
func (r *CommandRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has checks whether a name is registered.
func (r *CommandRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.ctors[normalize(name)]
	return ok
}

// normalize upcases names so registration and lookup are
// case-insensitive, matching the parser.
func normalize(name string) string {
	return strings.ToUpper(name)
}

// Ensure CommandRegistry implements command.Registry
var _ command.Registry = (*CommandRegistry)(nil)
