package processor

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/ctxlog"
	"github.com/specialistvlad/statscheck/internal/memfs"
	"github.com/specialistvlad/statscheck/internal/testctx"
)

// ErrStatsNotObject is returned by StatsAPIProcessor.Check when the handle
// holds no stats.
var ErrStatsNotObject = errors.New("expected stats to be an object")

// StatsKey is the Test Context value key under which Check stores the
// compiler.Stats it verified.
const StatsKey = "stats"

// StatsAPIOptions configures a StatsAPIProcessor. It is read-only once the
// processor is created.
type StatsAPIOptions struct {
	// Name identifies the test case and its compiler handle.
	Name string
	// CompilerType selects the compiler implementation.
	CompilerType compiler.Type
	// SnapshotName is metadata for the outer harness.
	SnapshotName string

	Options  OptionsFunc
	Compiler CompilerHook
	Build    BuildHook
	Check    CheckHook
}

// StatsAPIProcessor drives a compiler end to end and hands its stats to a
// check hook. Compilers it creates always write to a fresh in-memory
// filesystem.
type StatsAPIProcessor struct {
	opts   StatsAPIOptions
	simple *SimpleProcessor
}

var _ Processor = (*StatsAPIProcessor)(nil)

// NewStatsAPIProcessor creates a StatsAPIProcessor.
func NewStatsAPIProcessor(opts StatsAPIOptions) *StatsAPIProcessor {
	p := &StatsAPIProcessor{opts: opts}
	p.simple = NewSimpleProcessor(SimpleOptions{
		Name:         opts.Name,
		CompilerType: opts.CompilerType,
		Options:      p.Configure,
		Build:        opts.Build,
	})
	return p
}

func (p *StatsAPIProcessor) Name() string         { return p.opts.Name }
func (p *StatsAPIProcessor) SnapshotName() string { return p.opts.SnapshotName }

// Configure returns the effective options for tc: the caller's options, or
// empty options, with the stats defaults applied. An unset context or output
// path falls back to the Test Context's source and dist directories.
func (p *StatsAPIProcessor) Configure(tc *testctx.Context) (*compiler.Options, error) {
	var opts *compiler.Options
	if p.opts.Options != nil {
		o, err := p.opts.Options(tc)
		if err != nil {
			return nil, err
		}
		opts = o
	}
	res := ApplyStatsDefaults(opts, tc.PrintLogger())
	if res.Context == "" {
		res.Context = tc.Source()
	}
	if tc.Dist() != "" && (res.Output == nil || res.Output.Path == "") {
		res.Output = &compiler.Output{Path: tc.Dist()}
	}
	return res, nil
}

// Config stores the effective options on the task's compiler handle.
func (p *StatsAPIProcessor) Config(ctx context.Context, tc *testctx.Context) error {
	return p.simple.Config(ctx, tc)
}

// Compiler creates the compiler, points its output at a new in-memory
// filesystem and then runs the compiler hook.
func (p *StatsAPIProcessor) Compiler(ctx context.Context, tc *testctx.Context) error {
	if err := p.simple.CreateCompiler(ctx, tc); err != nil {
		return err
	}
	c := p.simple.Handle(tc).Compiler()
	if c != nil {
		c.SetOutputFileSystem(memfs.New())
		ctxlog.FromContext(ctx).Debug("Output filesystem replaced with in-memory filesystem.", "compiler", p.opts.Name)
	}
	if p.opts.Compiler != nil {
		return p.opts.Compiler(ctx, tc, c)
	}
	return nil
}

// Build runs the build hook when present, otherwise the handle's default build.
func (p *StatsAPIProcessor) Build(ctx context.Context, tc *testctx.Context) error {
	return p.simple.Build(ctx, tc)
}

// Run is intentionally inert: it never triggers a build.
func (p *StatsAPIProcessor) Run(ctx context.Context, env Env, tc *testctx.Context) error {
	return nil
}

// Check fails unless the handle holds stats, then runs the check hook with
// the stats and the raw compiler. The stats are kept on tc under StatsKey.
func (p *StatsAPIProcessor) Check(ctx context.Context, env Env, tc *testctx.Context) error {
	h := p.simple.Handle(tc)
	stats := h.Stats()
	if isNil(stats) {
		return fmt.Errorf("%w, got %T", ErrStatsNotObject, stats)
	}
	tc.SetValue(p.opts.Name, StatsKey, stats)
	env.Logf("%s: stats received (errors: %t, warnings: %t)", env.Name(), stats.HasErrors(), stats.HasWarnings())

	if p.opts.Check != nil {
		return p.opts.Check(ctx, stats, h.Compiler())
	}
	return nil
}

func (p *StatsAPIProcessor) After(ctx context.Context, tc *testctx.Context) error {
	return p.simple.After(ctx, tc)
}

func isNil(stats compiler.Stats) bool {
	if stats == nil {
		return true
	}
	v := reflect.ValueOf(stats)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
