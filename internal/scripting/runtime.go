// Package scripting bridges active missions to the embedded script runtime
// that supplies quest-specific logic. The interpreter itself is pluggable;
// the package ships a registry-backed runtime whose modules are hook tables
// registered by the embedding game.
package scripting

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotImplemented is returned when a script module does not provide a
// requested entry point. Optional hooks report it; callers skip silently.
var ErrNotImplemented = errors.New("entry point not implemented")

// ErrUnknownModule is returned when no module is registered under a name.
var ErrUnknownModule = errors.New("unknown script module")

// Context is passed to every hook invocation. Owner is the engine-side handle
// the state was created with (the mission controller); Vars is per-state
// scratch storage that lives as long as the state does.
type Context struct {
	Owner any
	Vars  map[string]any
}

// HookFunc is a single script entry point.
type HookFunc func(ctx *Context, args ...any) (any, error)

// State is one live script instance. Each active mission owns exactly one.
type State interface {
	// Call invokes a named entry point. A missing entry point returns
	// ErrNotImplemented.
	Call(entry string, args ...any) (any, error)
	Close()
}

// Runtime creates script states for named modules.
type Runtime interface {
	NewState(module string, owner any) (State, error)
}

// Module is a registered hook table.
type Module struct {
	name  string
	hooks map[string]HookFunc
}

// Registry is the built-in Runtime: modules register Go hook tables under the
// names the mission catalog refers to.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Register adds a module under the given name. Re-registering a name is a
// programming error and fails.
func (r *Registry) Register(name string, hooks map[string]HookFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.modules[name]; dup {
		return fmt.Errorf("script module %q already registered", name)
	}
	cloned := make(map[string]HookFunc, len(hooks))
	for k, v := range hooks {
		cloned[k] = v
	}
	r.modules[name] = &Module{name: name, hooks: cloned}
	return nil
}

// Has reports whether a module is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[name]
	return ok
}

// NewState instantiates a state bound to the named module.
func (r *Registry) NewState(module string, owner any) (State, error) {
	r.mu.RLock()
	m, ok := r.modules[module]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, module)
	}
	return &registryState{
		module: m,
		ctx:    &Context{Owner: owner, Vars: make(map[string]any)},
	}, nil
}

type registryState struct {
	module *Module
	ctx    *Context
	closed bool
}

func (s *registryState) Call(entry string, args ...any) (any, error) {
	if s.closed {
		return nil, fmt.Errorf("call %q on closed state of module %q", entry, s.module.name)
	}
	hook, ok := s.module.hooks[entry]
	if !ok {
		return nil, ErrNotImplemented
	}
	return hook(s.ctx, args...)
}

// Implements reports whether the module provides the entry point. The bridge
// uses it to probe optional hooks without invoking them.
func (s *registryState) Implements(entry string) bool {
	_, ok := s.module.hooks[entry]
	return ok
}

func (s *registryState) Close() {
	s.closed = true
	s.ctx.Vars = nil
}
