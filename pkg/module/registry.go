package module

import (
	"fmt"
	"sync"
)

// lifecycle is the state of a single registry entry. Resolve performs the
// stateRegistered -> stateInitialized transition exactly once.
type lifecycle int

const (
	stateRegistered lifecycle = iota
	stateInitialized
)

// entry tracks one registered widget: its factory, enabled flag, lifecycle
// state, and the singleton instance once resolved.
type entry struct {
	factory  Factory
	enabled  bool
	state    lifecycle
	instance Module
}

// Registry maps widget names to their factories and manages lazy singleton
// instantiation. It is an explicit object passed to the orchestrator rather
// than package-global state, so tests and callers control its contents.
//
// Registration and enable/disable are expected to happen at startup, before
// steady-state polling; the mutex makes that ordering safe even if a caller
// adds multi-threaded rendering later.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string // registration order, drives left-to-right rendering
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// Register associates name with a widget factory. The factory is not
// invoked; instantiation is deferred to Resolve.
//
// Registering a name twice replaces the previous entry (last registration
// wins): any prior instance and enabled override are discarded and the name
// keeps its original position in the iteration order.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = &entry{
		factory: factory,
		enabled: true,
		state:   stateRegistered,
	}
}

// Enable marks a registered widget as participating in output composition.
// Unknown names are ignored.
func (r *Registry) Enable(name string) {
	r.setEnabled(name, true)
}

// Disable removes a registered widget from output composition without
// unregistering it. Unknown names are ignored.
func (r *Registry) Disable(name string) {
	r.setEnabled(name, false)
}

func (r *Registry) setEnabled(name string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok {
		e.enabled = enabled
	}
}

// Enabled reports whether name is registered and currently enabled.
func (r *Registry) Enabled(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	return ok && e.enabled
}

// Names returns all registered widget names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// EnabledNames returns the currently enabled widget names in registration
// order. This ordering is what determines widget position in the line.
func (r *Registry) EnabledNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, name := range r.order {
		if r.entries[name].enabled {
			out = append(out, name)
		}
	}
	return out
}

// Resolve returns the singleton instance for name, constructing and
// initializing it on first call. A factory panic or Initialize error is
// reported as a *LoadError naming the offending widget; the registry entry
// stays registered so other widgets are unaffected.
func (r *Registry) Resolve(name string) (Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if e.state == stateInitialized {
		return e.instance, nil
	}

	inst, err := r.construct(name, e.factory)
	if err != nil {
		return nil, err
	}
	if err := inst.Initialize(); err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}

	e.instance = inst
	e.state = stateInitialized
	return inst, nil
}

// construct invokes the factory, converting a panic into a *LoadError so
// one broken widget cannot take down the whole registry.
func (r *Registry) construct(name string, factory Factory) (inst Module, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &LoadError{Name: name, Err: fmt.Errorf("constructor panic: %v", rec)}
		}
	}()

	inst = factory()
	if inst == nil {
		return nil, &LoadError{Name: name, Err: fmt.Errorf("factory returned nil")}
	}
	return inst, nil
}

// ResolveEnabled resolves every enabled widget in registration order. A
// widget that fails to load contributes its error instead of aborting the
// rest; callers decide how to surface per-widget failures.
func (r *Registry) ResolveEnabled() ([]Module, map[string]error) {
	names := r.EnabledNames()

	var mods []Module
	errs := make(map[string]error)
	for _, name := range names {
		m, err := r.Resolve(name)
		if err != nil {
			errs[name] = err
			continue
		}
		mods = append(mods, m)
	}
	return mods, errs
}

// CleanupAll calls Cleanup on every instantiated widget, in registration
// order, at most once per instance. Widgets that were never resolved are
// skipped. The first error is returned after all cleanups have run.
func (r *Registry) CleanupAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var first error
	for _, name := range r.order {
		e := r.entries[name]
		if e.state != stateInitialized || e.instance == nil {
			continue
		}
		if err := e.instance.Cleanup(); err != nil && first == nil {
			first = fmt.Errorf("cleanup %s: %w", name, err)
		}
		e.instance = nil
		e.state = stateRegistered
	}
	return first
}
