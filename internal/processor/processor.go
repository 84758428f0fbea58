package processor

import (
	"context"

	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/testctx"
)

// Env is the reporting surface of the outer harness. *testing.T satisfies it.
type Env interface {
	Name() string
	Logf(format string, args ...any)
}

// Processor is one test task's lifecycle.
type Processor interface {
	Name() string
	Config(ctx context.Context, tc *testctx.Context) error
	Compiler(ctx context.Context, tc *testctx.Context) error
	Build(ctx context.Context, tc *testctx.Context) error
	Run(ctx context.Context, env Env, tc *testctx.Context) error
	Check(ctx context.Context, env Env, tc *testctx.Context) error
	After(ctx context.Context, tc *testctx.Context) error
}

// OptionsFunc produces the caller's compiler options for a task.
type OptionsFunc func(tc *testctx.Context) (*compiler.Options, error)

// CompilerHook customizes a freshly created compiler.
type CompilerHook func(ctx context.Context, tc *testctx.Context, c compiler.Compiler) error

// BuildHook replaces the default build of a task.
type BuildHook func(ctx context.Context, tc *testctx.Context, c compiler.Compiler) error

// CheckHook verifies the stats of a task against the raw compiler.
type CheckHook func(ctx context.Context, stats compiler.Stats, c compiler.Compiler) error
