package command

// Constructor builds a command from pre-tokenized arguments.
type Constructor func(args []string) (Command, error)

// Registry defines the contract for dynamic command registration.
// This is a repository interface; implementations live in infrastructure.
type Registry interface {
	// Register maps a name to a constructor. Re-registering a name
	// replaces its constructor.
	Register(name string, ctor Constructor)

	// Create builds a command by name. Construction failures, including
	// panicking constructors, are absorbed and reported as (nil, false);
	// Create is a total function over (name, args).
	Create(name string, args []string) (Command, bool)

	// Names returns the registered command names in sorted order.
	Names() []string

	// Has checks whether a name is registered.
	Has(name string) bool
}
