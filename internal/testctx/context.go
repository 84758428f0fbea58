package testctx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/specialistvlad/statscheck/internal/compiler"
)

// Config describes a Context.
type Config struct {
	// Name is the test case name.
	Name string
	// Source is the directory the test case's sources live in.
	Source string
	// Dist is the directory compilers are expected to write to.
	Dist string
	// PrintLogger is the verbose-logging toggle. When false, stages are
	// expected to keep compiler logging down to errors.
	PrintLogger bool
	// Registry creates the compilers behind the Context's handles.
	Registry *compiler.Registry
}

// Context is the per-task state shared by the stages of one test task.
type Context struct {
	id  uuid.UUID
	cfg Config

	mu       sync.Mutex
	managers map[string]*compiler.Manager
	order    []string
	errs     map[string][]error

	values sync.Map // Key: valueKey, Value: any
}

type valueKey struct {
	name string
	key  string
}

// New creates a Context. A nil Registry yields a Context whose handles cannot
// create compilers.
func New(cfg Config) *Context {
	if cfg.Registry == nil {
		cfg.Registry = compiler.NewRegistry()
	}
	return &Context{
		id:       uuid.New(),
		cfg:      cfg,
		managers: make(map[string]*compiler.Manager),
		errs:     make(map[string][]error),
	}
}

// ID returns the unique id of this task run.
func (c *Context) ID() string { return c.id.String() }

func (c *Context) Name() string      { return c.cfg.Name }
func (c *Context) Source() string    { return c.cfg.Source }
func (c *Context) Dist() string      { return c.cfg.Dist }
func (c *Context) PrintLogger() bool { return c.cfg.PrintLogger }

// Compiler returns the handle registered under name, creating it with typ on
// first use. Later calls return the same handle regardless of typ.
func (c *Context) Compiler(name string, typ compiler.Type) *compiler.Manager {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.managers[name]; ok {
		return m
	}
	m := compiler.NewManager(name, typ, c.cfg.Registry)
	c.managers[name] = m
	c.order = append(c.order, name)
	return m
}

// EmitError records err against the handle name.
func (c *Context) EmitError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[name] = append(c.errs[name], err)
}

// Errors returns a copy of the errors recorded against name.
func (c *Context) Errors(name string) []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errs[name]) == 0 {
		return nil
	}
	return append([]error(nil), c.errs[name]...)
}

// HasError reports whether any error was recorded against name, or against
// any name when name is empty.
func (c *Context) HasError(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name != "" {
		return len(c.errs[name]) > 0
	}
	for _, errs := range c.errs {
		if len(errs) > 0 {
			return true
		}
	}
	return false
}

// ClearError forgets the errors recorded against name.
func (c *Context) ClearError(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.errs, name)
}

// SetValue stores a value scoped to the handle name.
func (c *Context) SetValue(name, key string, value any) {
	c.values.Store(valueKey{name, key}, value)
}

// Value retrieves a value stored with SetValue.
func (c *Context) Value(name, key string) (any, bool) {
	return c.values.Load(valueKey{name, key})
}

// Close closes every handle in creation order and returns their joined errors.
func (c *Context) Close(ctx context.Context) error {
	c.mu.Lock()
	managers := make([]*compiler.Manager, 0, len(c.order))
	for _, name := range c.order {
		managers = append(managers, c.managers[name])
	}
	c.mu.Unlock()

	var errs []error
	for _, m := range managers {
		if err := m.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close compiler %q: %w", m.Name(), err))
		}
	}
	return errors.Join(errs...)
}
