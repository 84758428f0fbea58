package processor

import (
	"context"

	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/testctx"
)

// SimpleOptions configures a SimpleProcessor.
type SimpleOptions struct {
	Name         string
	CompilerType compiler.Type

	Options  OptionsFunc
	Compiler CompilerHook
	Build    BuildHook
	Check    CheckHook
}

// SimpleProcessor is the base lifecycle: configure, create, build with the
// build hook or the handle's default build, and check with the check hook.
type SimpleProcessor struct {
	opts SimpleOptions
}

var _ Processor = (*SimpleProcessor)(nil)

// NewSimpleProcessor creates a SimpleProcessor.
func NewSimpleProcessor(opts SimpleOptions) *SimpleProcessor {
	return &SimpleProcessor{opts: opts}
}

func (p *SimpleProcessor) Name() string { return p.opts.Name }

// Handle returns the task's compiler handle for this processor.
func (p *SimpleProcessor) Handle(tc *testctx.Context) *compiler.Manager {
	return tc.Compiler(p.opts.Name, p.opts.CompilerType)
}

// Config stores the options produced by the options factory, or empty
// options when there is none.
func (p *SimpleProcessor) Config(ctx context.Context, tc *testctx.Context) error {
	opts := &compiler.Options{}
	if p.opts.Options != nil {
		o, err := p.opts.Options(tc)
		if err != nil {
			return err
		}
		if o != nil {
			opts = o
		}
	}
	p.Handle(tc).SetOptions(opts)
	return nil
}

// CreateCompiler creates the compiler without running the compiler hook.
func (p *SimpleProcessor) CreateCompiler(ctx context.Context, tc *testctx.Context) error {
	return p.Handle(tc).CreateCompiler(ctx)
}

// Compiler creates the compiler and then runs the compiler hook.
func (p *SimpleProcessor) Compiler(ctx context.Context, tc *testctx.Context) error {
	if err := p.CreateCompiler(ctx, tc); err != nil {
		return err
	}
	if p.opts.Compiler != nil {
		return p.opts.Compiler(ctx, tc, p.Handle(tc).Compiler())
	}
	return nil
}

// Build runs the build hook when present, otherwise the handle's default build.
func (p *SimpleProcessor) Build(ctx context.Context, tc *testctx.Context) error {
	h := p.Handle(tc)
	c := h.Compiler()
	if c == nil {
		return compiler.ErrCompilerNotCreated
	}
	if p.opts.Build != nil {
		return p.opts.Build(ctx, tc, c)
	}
	_, err := h.Build(ctx)
	return err
}

// Run does nothing.
func (p *SimpleProcessor) Run(ctx context.Context, env Env, tc *testctx.Context) error {
	return nil
}

// Check runs the check hook, if any, with the handle's current stats.
func (p *SimpleProcessor) Check(ctx context.Context, env Env, tc *testctx.Context) error {
	if p.opts.Check == nil {
		return nil
	}
	h := p.Handle(tc)
	return p.opts.Check(ctx, h.Stats(), h.Compiler())
}

// After does nothing; handles are closed by the owner of the Test Context.
func (p *SimpleProcessor) After(ctx context.Context, tc *testctx.Context) error {
	return nil
}
