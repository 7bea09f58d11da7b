package exec

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry errors.
var (
	ErrInvalidCommand   = errors.New("invalid command")
	ErrDuplicateCommand = errors.New("command already registered")
	ErrUnknownCommand   = errors.New("unknown command")
)

// CommandWrapper is an external command that recipes run by name, such as
// the package install of the detected package manager.
type CommandWrapper interface {
	Name() string
	Description() string
	Execute(ctx context.Context, exec *Executor) error
}

// CommandRegistry looks command wrappers up by name. It is safe for
// concurrent use.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[string]CommandWrapper
}

// NewCommandRegistry returns an empty registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{commands: make(map[string]CommandWrapper)}
}

// Register adds cmd. Names must be non-empty and unique.
func (r *CommandRegistry) Register(cmd CommandWrapper) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", ErrInvalidCommand)
	}
	name := cmd.Name()
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCommand)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.commands[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	r.commands[name] = cmd
	return nil
}

// Get returns the wrapper registered as name.
func (r *CommandRegistry) Get(name string) (CommandWrapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Has reports whether name is registered.
func (r *CommandRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns the registered names, sorted.
func (r *CommandRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.commands))
}

// Unregister removes name and reports whether it was registered.
func (r *CommandRegistry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.commands[name]
	delete(r.commands, name)
	return ok
}

// Execute runs the wrapper registered as name with e.
func (r *CommandRegistry) Execute(ctx context.Context, name string, e *Executor) error {
	cmd, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd.Execute(ctx, e)
}
