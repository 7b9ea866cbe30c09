package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownRenderer is returned when no renderer carries the asked name.
	ErrUnknownRenderer = errors.New("render: unknown renderer")
	// ErrNoRenderers is returned when resolving against an empty registry.
	ErrNoRenderers = errors.New("render: no renderers registered")
)

// Registry holds the renderers a form can be sent to. The first renderer
// registered is the one Resolve falls back to.
type Registry struct {
	mu    sync.RWMutex
	named map[string]Renderer
	first string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{named: make(map[string]Renderer)}
}

// Register adds renderer under its Name(). A name can be taken once.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.named[name]; taken {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.named[name] = renderer
	if r.first == "" {
		r.first = name
	}
	return nil
}

// MustRegister is Register for wiring code that cannot recover.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get returns the renderer registered as name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if renderer, ok := r.named[name]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownRenderer, name)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.named[name]
	return ok
}

// List returns the registered names sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.named))
	for name := range r.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the renderer registered as name. An empty name resolves to
// the first renderer registered.
func (r *Registry) Resolve(name string) (Renderer, error) {
	if name != "" {
		return r.Get(name)
	}
	r.mu.RLock()
	first := r.first
	r.mu.RUnlock()
	if first == "" {
		return nil, ErrNoRenderers
	}
	return r.Get(first)
}
