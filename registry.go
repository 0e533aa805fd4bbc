package pathway

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry errors.
var (
	ErrUnknownPlugin   = errors.New("unknown plugin")
	ErrDuplicatePlugin = errors.New("duplicate plugin")
)

// Factory builds a plugin from its configuration settings. Settings may be
// nil when a plugin is requested by name only.
type Factory func(settings map[string]any) (Plugin, error)

// Registry maps plugin names to factories. Definitions resolve plugin names
// against a registry once, when they are built; a registry is never
// consulted during Call.
//
// Registry is safe for concurrent use.
type Registry struct {
	factories map[Name]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Name]Factory)}
}

// DefaultRegistry holds the built-in plugins and is used when a
// configuration names plugins without supplying a registry.
var DefaultRegistry = NewRegistry().
	MustRegister(AuthPluginName, newAuthFromSettings).
	MustRegister(DefaultsPluginName, newDefaultsFromSettings)

// Register adds a factory under name.
func (r *Registry) Register(name Name, factory Factory) error {
	if name == "" {
		return fmt.Errorf("register plugin: %w", ErrEmptyName)
	}
	if factory == nil {
		return fmt.Errorf("register plugin %q: factory is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePlugin, name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is like Register but panics on error. It returns the
// Registry for chaining in package-level declarations.
func (r *Registry) MustRegister(name Name, factory Factory) *Registry {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
	return r
}

// Has reports whether a factory is registered under name.
func (r *Registry) Has(name Name) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

// Resolve builds one plugin per configuration entry, in order.
func (r *Registry) Resolve(configs ...PluginConfig) ([]Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]Plugin, 0, len(configs))
	for _, pc := range configs {
		factory, ok := r.factories[pc.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, pc.Name)
		}
		p, err := factory(pc.Settings)
		if err != nil {
			return nil, fmt.Errorf("plugin %q: %w", pc.Name, err)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}
