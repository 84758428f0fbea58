package bundler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/ctxlog"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("bundler: compiler is closed")

const defaultEntryRequest = "./index.js"

// Compiler is the bundler's compiler.Compiler implementation.
type Compiler struct {
	opts *compiler.Options

	runMu sync.Mutex

	mu     sync.Mutex
	input  afero.Fs
	output afero.Fs
	done   []func(compiler.Stats)
	closed bool
}

// New is the compiler.Factory of the bundler. The given options are cloned
// and completed with defaults; invalid options fail creation.
func New(ctx context.Context, opts *compiler.Options) (compiler.Compiler, error) {
	o := opts.Clone()
	if o == nil {
		o = &compiler.Options{}
	}

	switch o.Mode {
	case "":
		o.Mode = "production"
	case "production", "development":
	default:
		return nil, fmt.Errorf("bundler: invalid mode %q: must be 'production' or 'development'", o.Mode)
	}
	if len(o.Entry) == 0 {
		o.Entry = map[string]string{"main": defaultEntryRequest}
	}
	for name, request := range o.Entry {
		if name == "" || request == "" {
			return nil, fmt.Errorf("bundler: invalid entry %q: %q", name, request)
		}
	}
	if o.Output == nil {
		o.Output = &compiler.Output{}
	}
	if o.Output.Path == "" {
		o.Output.Path = filepath.Join(o.Context, "dist")
	}

	ctxlog.FromContext(ctx).Debug("Bundler created.", "name", o.Name, "entries", len(o.Entry))
	osFs := afero.NewOsFs()
	return &Compiler{opts: o, input: osFs, output: osFs}, nil
}

// Options implements compiler.Compiler.
func (c *Compiler) Options() *compiler.Options { return c.opts }

// OnDone implements compiler.Compiler.
func (c *Compiler) OnDone(fn func(compiler.Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = append(c.done, fn)
}

func (c *Compiler) InputFileSystem() afero.Fs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

func (c *Compiler) SetInputFileSystem(fs afero.Fs) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = fs
}

func (c *Compiler) OutputFileSystem() afero.Fs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output
}

func (c *Compiler) SetOutputFileSystem(fs afero.Fs) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.output = fs
}

// Close implements compiler.Compiler.
func (c *Compiler) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.done = nil
	return nil
}

// Run implements compiler.Compiler. Builds of one instance never overlap.
func (c *Compiler) Run(ctx context.Context) (compiler.Stats, error) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	c.mu.Lock()
	closed, input, output := c.closed, c.input, c.output
	done := slices.Clone(c.done)
	c.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := compiler.InfrastructureLogger(ctxlog.FromContext(ctx), c.opts.LoggingLevel()).
		With("compiler", c.opts.Name)
	start := time.Now()

	comp := &compilation{
		opts:    c.opts,
		input:   input,
		logger:  logger,
		modules: make(map[string]*compiler.StatsModule),
	}

	names := make([]string, 0, len(c.opts.Entry))
	for name := range c.opts.Entry {
		names = append(names, name)
	}
	sort.Strings(names)

	report := &compiler.StatsCompilation{
		Name:        c.opts.Name,
		Mode:        c.opts.Mode,
		OutputPath:  c.opts.Output.Path,
		Assets:      []compiler.StatsAsset{},
		Entrypoints: make(map[string][]string),
		Errors:      []compiler.StatsError{},
		Warnings:    []compiler.StatsError{},
	}
	if c.opts.BundlerInfoForced() {
		report.BundlerInfo = &compiler.StatsBundlerInfo{Name: Name, Version: Version}
	}

	hash := xxhash.New()
	for _, name := range names {
		ch := comp.buildChunk(name, c.opts.Entry[name])
		if ch.failed {
			logger.Debug("Chunk not emitted due to errors.", "chunk", name)
			continue
		}
		assets := ch.render(report.BundlerInfo, c.opts.Mode == "development")
		for _, a := range assets {
			if err := writeAsset(output, c.opts.Output.Path, a.name, a.content); err != nil {
				return nil, fmt.Errorf("bundler: emit %s: %w", a.name, err)
			}
			_, _ = hash.Write(a.content)
			report.Assets = append(report.Assets, compiler.StatsAsset{
				Name: a.name, Size: len(a.content), Type: a.kind, Emitted: true,
			})
			report.Entrypoints[name] = append(report.Entrypoints[name], a.name)
		}
	}

	report.Errors = append(report.Errors, comp.errors...)
	report.Warnings = append(report.Warnings, comp.warnings...)
	report.Modules = comp.sortedModules()
	report.Hash = fmt.Sprintf("%016x", hash.Sum64())
	report.Time = time.Since(start).Milliseconds()

	stats := &Stats{json: report}
	logger.Info("Compilation finished.", "assets", len(report.Assets), "errors", len(report.Errors), "warnings", len(report.Warnings))
	for _, fn := range done {
		fn(stats)
	}
	return stats, nil
}

func writeAsset(fsys afero.Fs, dir, name string, content []byte) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fsys, filepath.Join(dir, name), content, 0o644)
}
