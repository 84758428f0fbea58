// Package tester sequences the stages of processors for one test case.
package tester

import (
	"context"
	"fmt"

	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/ctxlog"
	"github.com/specialistvlad/statscheck/internal/processor"
	"github.com/specialistvlad/statscheck/internal/testctx"
)

// Config describes one test case.
type Config struct {
	Name        string
	Source      string
	Dist        string
	PrintLogger bool
	Registry    *compiler.Registry
	Steps       []processor.Processor
}

// Tester owns the Test Context of one test case and drives its steps.
type Tester struct {
	cfg Config
	tc  *testctx.Context
}

// New creates a Tester with a fresh Test Context.
func New(cfg Config) *Tester {
	return &Tester{
		cfg: cfg,
		tc: testctx.New(testctx.Config{
			Name:        cfg.Name,
			Source:      cfg.Source,
			Dist:        cfg.Dist,
			PrintLogger: cfg.PrintLogger,
			Registry:    cfg.Registry,
		}),
	}
}

// Context returns the Test Context.
func (t *Tester) Context() *testctx.Context { return t.tc }

// Compile runs Config, Compiler and Build of every step.
func (t *Tester) Compile(ctx context.Context) error {
	ctx = t.logContext(ctx)
	for _, step := range t.cfg.Steps {
		t.tc.ClearError(step.Name())
	}
	for _, step := range t.cfg.Steps {
		if err := t.stage(ctx, step, "config", func() error { return step.Config(ctx, t.tc) }); err != nil {
			return err
		}
		if err := t.stage(ctx, step, "compiler", func() error { return step.Compiler(ctx, t.tc) }); err != nil {
			return err
		}
		if err := t.stage(ctx, step, "build", func() error { return step.Build(ctx, t.tc) }); err != nil {
			return err
		}
	}
	return nil
}

// Check runs Run and Check of every step.
func (t *Tester) Check(ctx context.Context, env processor.Env) error {
	ctx = t.logContext(ctx)
	for _, step := range t.cfg.Steps {
		if err := t.stage(ctx, step, "run", func() error { return step.Run(ctx, env, t.tc) }); err != nil {
			return err
		}
		if err := t.stage(ctx, step, "check", func() error { return step.Check(ctx, env, t.tc) }); err != nil {
			return err
		}
	}
	return nil
}

// Close runs After of every step and closes the Test Context. It attempts
// every step and returns the first error.
func (t *Tester) Close(ctx context.Context) error {
	ctx = t.logContext(ctx)
	var first error
	for _, step := range t.cfg.Steps {
		if err := t.stage(ctx, step, "after", func() error { return step.After(ctx, t.tc) }); err != nil && first == nil {
			first = err
		}
	}
	if err := t.tc.Close(ctx); err != nil && first == nil {
		first = err
	}
	return first
}

// Run compiles and checks the case, then closes it. The first stage error is
// returned as is; a Close error is only returned when every stage passed.
func (t *Tester) Run(ctx context.Context, env processor.Env) error {
	err := t.Compile(ctx)
	if err == nil {
		err = t.Check(ctx, env)
	}
	if closeErr := t.Close(ctx); err == nil {
		err = closeErr
	}
	return err
}

func (t *Tester) logContext(ctx context.Context) context.Context {
	return ctxlog.With(ctx, "case", t.cfg.Name, "run_id", t.tc.ID())
}

// stage runs fn and records a failure against the step, labelled with the
// stage name. The error itself is returned unchanged.
func (t *Tester) stage(ctx context.Context, step processor.Processor, name string, fn func() error) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Stage started.", "step", step.Name(), "stage", name)
	err := fn()
	if err != nil {
		logger.Debug("Stage failed.", "step", step.Name(), "stage", name, "error", err)
		t.tc.EmitError(step.Name(), fmt.Errorf("%s stage: %w", name, err))
	}
	return err
}
