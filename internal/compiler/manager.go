package compiler

import (
	"context"
	"errors"
	"sync"

	"github.com/specialistvlad/statscheck/internal/ctxlog"
)

// ErrCompilerNotCreated is returned by Manager.Build before CreateCompiler succeeded.
var ErrCompilerNotCreated = errors.New("compiler has not been created")

// Manager is the handle around one named compiler instance of a test task.
type Manager struct {
	name     string
	typ      Type
	registry *Registry

	mu       sync.Mutex
	options  *Options
	compiler Compiler
	stats    Stats
	builds   int
}

// NewManager creates a handle that will create its compiler through registry.
func NewManager(name string, typ Type, registry *Registry) *Manager {
	return &Manager{name: name, typ: typ, registry: registry}
}

// Name returns the handle's name.
func (m *Manager) Name() string { return m.name }

// Type returns the compiler type tag of the handle.
func (m *Manager) Type() Type { return m.typ }

// SetOptions stores the effective options used by the next CreateCompiler.
func (m *Manager) SetOptions(opts *Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options = opts
}

// Options returns the effective options.
func (m *Manager) Options() *Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.options
}

// CreateCompiler instantiates the compiler from the stored options and starts
// tracking the Stats of its builds.
func (m *Manager) CreateCompiler(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	opts := m.Options()
	if opts == nil {
		opts = &Options{}
	}
	c, err := m.registry.New(ctx, m.typ, opts)
	if err != nil {
		return err
	}
	c.OnDone(m.recordStats)

	m.mu.Lock()
	m.compiler = c
	m.stats = nil
	m.mu.Unlock()

	logger.Debug("Compiler created.", "compiler", m.name, "type", m.typ)
	return nil
}

// Build runs the compiler once.
func (m *Manager) Build(ctx context.Context) (Stats, error) {
	c := m.Compiler()
	if c == nil {
		return nil, ErrCompilerNotCreated
	}
	return c.Run(ctx)
}

// Compiler returns the created instance, or nil.
func (m *Manager) Compiler() Compiler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.compiler
}

// Stats returns the Stats of the most recent build, or nil.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// BuildCount returns how many builds of the instance have finished.
func (m *Manager) BuildCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.builds
}

// Close closes the instance, if one was created, and forgets it.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	c := m.compiler
	m.compiler = nil
	m.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close(ctx)
}

func (m *Manager) recordStats(s Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = s
	m.builds++
}
