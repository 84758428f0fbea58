package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ErrUnknownType is returned when no factory is registered for a Type.
var ErrUnknownType = errors.New("unknown compiler type")

// Factory creates a compiler instance from its effective options.
type Factory func(ctx context.Context, opts *Options) (Compiler, error)

// Module is implemented by packages that provide compiler implementations.
type Module interface {
	Register(r *Registry)
}

// Registry maps compiler type tags to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Type]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Type]Factory)}
}

// Register adds a factory for typ. Registering the same type twice is a
// programming error and panics.
func (r *Registry) Register(typ Type, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[typ]; exists {
		panic(fmt.Sprintf("compiler factory for type '%s' already registered", typ))
	}
	slog.Debug("Registering compiler factory.", "type", typ)
	r.factories[typ] = f
}

// New creates a compiler of the given type.
func (r *Registry) New(ctx context.Context, typ Type, opts *Options) (Compiler, error) {
	r.mu.RLock()
	f, ok := r.factories[typ]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return f(ctx, opts)
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]Type, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
