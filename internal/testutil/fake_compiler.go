package testutil

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/spf13/afero"

	"github.com/specialistvlad/statscheck/internal/compiler"
)

// FakeType is the compiler type tag registered by FakeModule.
const FakeType compiler.Type = "fake"

// FakeStats is a compiler.Stats with fixed content.
type FakeStats struct {
	Errors   int
	Warnings int
	Build    int
}

func (s *FakeStats) HasErrors() bool   { return s.Errors > 0 }
func (s *FakeStats) HasWarnings() bool { return s.Warnings > 0 }

func (s *FakeStats) ToJSON() *compiler.StatsCompilation {
	out := &compiler.StatsCompilation{}
	for range s.Errors {
		out.Errors = append(out.Errors, compiler.StatsError{Message: "fake error"})
	}
	for range s.Warnings {
		out.Warnings = append(out.Warnings, compiler.StatsError{Message: "fake warning"})
	}
	return out
}

// FakeCompiler records how it is used. Each Run yields a new FakeStats.
type FakeCompiler struct {
	opts     *compiler.Options
	runs     atomic.Int32
	closed   atomic.Bool
	RunErr   error
	Template FakeStats
	// NilStats makes Run report a nil *FakeStats.
	NilStats bool

	mu     sync.Mutex
	input  afero.Fs
	output afero.Fs
	done   []func(compiler.Stats)
}

// Options implements compiler.Compiler.
func (c *FakeCompiler) Options() *compiler.Options { return c.opts }

// Run implements compiler.Compiler.
func (c *FakeCompiler) Run(ctx context.Context) (compiler.Stats, error) {
	if c.RunErr != nil {
		return nil, c.RunErr
	}
	n := c.runs.Add(1)
	stats := &FakeStats{}
	if c.NilStats {
		stats = nil
	} else {
		*stats = c.Template
		stats.Build = int(n)
	}

	c.mu.Lock()
	done := slices.Clone(c.done)
	c.mu.Unlock()
	for _, fn := range done {
		fn(stats)
	}
	return stats, nil
}

// RunCount returns how many times Run succeeded.
func (c *FakeCompiler) RunCount() int { return int(c.runs.Load()) }

// Closed reports whether Close was called.
func (c *FakeCompiler) Closed() bool { return c.closed.Load() }

func (c *FakeCompiler) OnDone(fn func(compiler.Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = append(c.done, fn)
}

func (c *FakeCompiler) InputFileSystem() afero.Fs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

func (c *FakeCompiler) SetInputFileSystem(fs afero.Fs) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = fs
}

func (c *FakeCompiler) OutputFileSystem() afero.Fs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output
}

func (c *FakeCompiler) SetOutputFileSystem(fs afero.Fs) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.output = fs
}

func (c *FakeCompiler) Close(ctx context.Context) error {
	c.closed.Store(true)
	return nil
}

// FakeModule registers FakeType and remembers every compiler it creates.
type FakeModule struct {
	// CreateErr, when set, makes every creation fail with it.
	CreateErr error

	mu      sync.Mutex
	created []*FakeCompiler
}

// Register implements the compiler.Module interface.
func (m *FakeModule) Register(r *compiler.Registry) {
	r.Register(FakeType, func(ctx context.Context, opts *compiler.Options) (compiler.Compiler, error) {
		if m.CreateErr != nil {
			return nil, m.CreateErr
		}
		c := &FakeCompiler{opts: opts, input: afero.NewOsFs(), output: afero.NewOsFs()}
		m.mu.Lock()
		m.created = append(m.created, c)
		m.mu.Unlock()
		return c, nil
	})
}

// Created returns the compilers created so far.
func (m *FakeModule) Created() []*FakeCompiler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*FakeCompiler(nil), m.created...)
}

// NewRegistry returns a registry with every given module registered.
func NewRegistry(modules ...compiler.Module) *compiler.Registry {
	r := compiler.NewRegistry()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}
