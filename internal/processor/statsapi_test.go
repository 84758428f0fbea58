package processor_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/memfs"
	"github.com/specialistvlad/statscheck/internal/processor"
	"github.com/specialistvlad/statscheck/internal/testctx"
	"github.com/specialistvlad/statscheck/internal/testutil"
)

func newContext(t *testing.T, printLogger bool) (context.Context, *testctx.Context, *testutil.FakeModule) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	mod := &testutil.FakeModule{}
	tc := testctx.New(testctx.Config{
		Name:        t.Name(),
		PrintLogger: printLogger,
		Registry:    testutil.NewRegistry(mod),
	})
	t.Cleanup(func() { _ = tc.Close(ctx) })
	return ctx, tc, mod
}

func TestStatsAPI_ConfigureWithoutFactory(t *testing.T) {
	_, tc, _ := newContext(t, false)
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{Name: "basic", CompilerType: testutil.FakeType})

	opts, err := p.Configure(tc)

	require.NoError(t, err)
	assert.True(t, *opts.Experiments.CSS)
	assert.False(t, *opts.Experiments.RspackFuture.BundlerInfo.Force)
	assert.Equal(t, compiler.LogLevelError, opts.InfrastructureLogging.Level)
}

func TestStatsAPI_ConfigureKeepsExplicitCSSFalse(t *testing.T) {
	_, tc, _ := newContext(t, true)
	given := &compiler.Options{
		Experiments:           &compiler.Experiments{CSS: compiler.Bool(false)},
		InfrastructureLogging: &compiler.InfrastructureLogging{Level: compiler.LogLevelVerbose},
	}
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
		Name:         "css-off",
		CompilerType: testutil.FakeType,
		Options:      func(*testctx.Context) (*compiler.Options, error) { return given, nil },
	})

	opts, err := p.Configure(tc)

	require.NoError(t, err)
	assert.False(t, *opts.Experiments.CSS)
	assert.Equal(t, compiler.LogLevelVerbose, opts.InfrastructureLogging.Level)
	assert.Nil(t, given.Experiments.RspackFuture, "caller options must not be modified")
}

func TestStatsAPI_ConfigStoresEffectiveOptions(t *testing.T) {
	ctx, tc, _ := newContext(t, false)
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{Name: "basic", CompilerType: testutil.FakeType})

	require.NoError(t, p.Config(ctx, tc))

	opts := tc.Compiler("basic", testutil.FakeType).Options()
	require.NotNil(t, opts)
	assert.True(t, opts.CSSEnabled())
}

func TestStatsAPI_FactoryErrorIsReturnedUnmodified(t *testing.T) {
	ctx, tc, _ := newContext(t, false)
	wantErr := errors.New("factory exploded")
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
		Name:         "broken",
		CompilerType: testutil.FakeType,
		Options:      func(*testctx.Context) (*compiler.Options, error) { return nil, wantErr },
	})

	err := p.Config(ctx, tc)

	require.Same(t, wantErr, err)
}

func TestStatsAPI_CompilerOutputIsAlwaysInMemory(t *testing.T) {
	t.Run("without hook", func(t *testing.T) {
		ctx, tc, mod := newContext(t, false)
		p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{Name: "basic", CompilerType: testutil.FakeType})

		require.NoError(t, p.Config(ctx, tc))
		require.NoError(t, p.Compiler(ctx, tc))

		require.Len(t, mod.Created(), 1)
		assert.True(t, memfs.IsMemory(mod.Created()[0].OutputFileSystem()))
	})

	t.Run("hook sees the in-memory filesystem", func(t *testing.T) {
		ctx, tc, mod := newContext(t, false)
		var hookCalls int
		p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
			Name:         "hooked",
			CompilerType: testutil.FakeType,
			Compiler: func(_ context.Context, got *testctx.Context, c compiler.Compiler) error {
				hookCalls++
				assert.Same(t, tc, got)
				assert.True(t, memfs.IsMemory(c.OutputFileSystem()))
				return nil
			},
		})

		require.NoError(t, p.Config(ctx, tc))
		require.NoError(t, p.Compiler(ctx, tc))

		assert.Equal(t, 1, hookCalls)
		assert.True(t, memfs.IsMemory(mod.Created()[0].OutputFileSystem()))
	})

	t.Run("each task gets its own filesystem", func(t *testing.T) {
		ctx, tcA, modA := newContext(t, false)
		_, tcB, modB := newContext(t, false)
		p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{Name: "shared-name", CompilerType: testutil.FakeType})

		for _, tc := range []*testctx.Context{tcA, tcB} {
			require.NoError(t, p.Config(ctx, tc))
			require.NoError(t, p.Compiler(ctx, tc))
		}

		assert.NotSame(t, modA.Created()[0].OutputFileSystem(), modB.Created()[0].OutputFileSystem())
	})
}

func TestStatsAPI_CompilerErrorsPropagate(t *testing.T) {
	t.Run("creation", func(t *testing.T) {
		ctx, _ := testutil.Context(t)
		wantErr := errors.New("cannot create")
		tc := testctx.New(testctx.Config{Registry: testutil.NewRegistry(&testutil.FakeModule{CreateErr: wantErr})})
		hookCalled := false
		p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
			Name:         "x",
			CompilerType: testutil.FakeType,
			Compiler: func(context.Context, *testctx.Context, compiler.Compiler) error {
				hookCalled = true
				return nil
			},
		})

		require.NoError(t, p.Config(ctx, tc))
		require.Same(t, wantErr, p.Compiler(ctx, tc))
		assert.False(t, hookCalled)
	})

	t.Run("hook", func(t *testing.T) {
		ctx, tc, _ := newContext(t, false)
		wantErr := errors.New("hook rejected")
		p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
			Name:         "x",
			CompilerType: testutil.FakeType,
			Compiler: func(context.Context, *testctx.Context, compiler.Compiler) error {
				return wantErr
			},
		})

		require.NoError(t, p.Config(ctx, tc))
		require.Same(t, wantErr, p.Compiler(ctx, tc))
	})
}

func TestStatsAPI_RunNeverBuilds(t *testing.T) {
	ctx, tc, mod := newContext(t, false)
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{Name: "inert", CompilerType: testutil.FakeType})

	require.NoError(t, p.Config(ctx, tc))
	require.NoError(t, p.Compiler(ctx, tc))
	require.NoError(t, p.Run(ctx, t, tc))

	assert.Equal(t, 0, mod.Created()[0].RunCount())
	assert.Nil(t, tc.Compiler("inert", testutil.FakeType).Stats())
}

func TestStatsAPI_BuildUsesHookInsteadOfDefault(t *testing.T) {
	ctx, tc, mod := newContext(t, false)
	var hookCompiler compiler.Compiler
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
		Name:         "hooked-build",
		CompilerType: testutil.FakeType,
		Build: func(_ context.Context, _ *testctx.Context, c compiler.Compiler) error {
			hookCompiler = c
			return nil
		},
	})

	require.NoError(t, p.Config(ctx, tc))
	require.NoError(t, p.Compiler(ctx, tc))
	require.NoError(t, p.Build(ctx, tc))

	assert.Same(t, mod.Created()[0], hookCompiler)
	assert.Equal(t, 0, mod.Created()[0].RunCount())
}

func TestStatsAPI_BuildWithoutHookUsesDefault(t *testing.T) {
	ctx, tc, mod := newContext(t, false)
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{Name: "default-build", CompilerType: testutil.FakeType})

	require.NoError(t, p.Config(ctx, tc))
	require.NoError(t, p.Compiler(ctx, tc))
	require.NoError(t, p.Build(ctx, tc))

	assert.Equal(t, 1, mod.Created()[0].RunCount())
}

func TestStatsAPI_CheckWithoutStatsFailsBeforeHook(t *testing.T) {
	ctx, tc, _ := newContext(t, false)
	hookCalled := false
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
		Name:         "no-stats",
		CompilerType: testutil.FakeType,
		Check: func(context.Context, compiler.Stats, compiler.Compiler) error {
			hookCalled = true
			return nil
		},
	})

	require.NoError(t, p.Config(ctx, tc))
	require.NoError(t, p.Compiler(ctx, tc))

	err := p.Check(ctx, t, tc)

	require.ErrorIs(t, err, processor.ErrStatsNotObject)
	assert.False(t, hookCalled)
}

func TestStatsAPI_CheckRejectsTypedNilStatsBeforeHook(t *testing.T) {
	ctx, tc, mod := newContext(t, false)
	hookCalled := false
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
		Name:         "nil-stats",
		CompilerType: testutil.FakeType,
		Check: func(context.Context, compiler.Stats, compiler.Compiler) error {
			hookCalled = true
			return nil
		},
	})

	require.NoError(t, p.Config(ctx, tc))
	require.NoError(t, p.Compiler(ctx, tc))
	mod.Created()[0].NilStats = true
	require.NoError(t, p.Build(ctx, tc))
	require.True(t, tc.Compiler("nil-stats", testutil.FakeType).Stats() != nil, "handle holds a non-nil interface")

	err := p.Check(ctx, t, tc)

	require.ErrorIs(t, err, processor.ErrStatsNotObject)
	assert.Contains(t, err.Error(), "*testutil.FakeStats")
	assert.False(t, hookCalled)
	_, stored := tc.Value("nil-stats", processor.StatsKey)
	assert.False(t, stored)
}

func TestStatsAPI_ConfigureFallsBackToSourceAndDist(t *testing.T) {
	tc := testctx.New(testctx.Config{Name: "dirs", Source: "/project", Dist: "/project/out"})
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{Name: "dirs", CompilerType: testutil.FakeType})

	opts, err := p.Configure(tc)

	require.NoError(t, err)
	assert.Equal(t, "/project", opts.Context)
	assert.Equal(t, "/project/out", opts.Output.Path)

	explicit := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
		Name:         "dirs",
		CompilerType: testutil.FakeType,
		Options: func(*testctx.Context) (*compiler.Options, error) {
			return &compiler.Options{Context: "/elsewhere", Output: &compiler.Output{Path: "/elsewhere/build"}}, nil
		},
	})
	opts, err = explicit.Configure(tc)

	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", opts.Context)
	assert.Equal(t, "/elsewhere/build", opts.Output.Path)
}

func TestStatsAPI_CheckPassesStatsAndCompiler(t *testing.T) {
	ctx, tc, mod := newContext(t, false)
	wantErr := errors.New("assertion failed")
	var gotStats compiler.Stats
	var gotCompiler compiler.Compiler
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{
		Name:         "check",
		CompilerType: testutil.FakeType,
		Check: func(_ context.Context, s compiler.Stats, c compiler.Compiler) error {
			gotStats, gotCompiler = s, c
			return wantErr
		},
	})

	require.NoError(t, p.Config(ctx, tc))
	require.NoError(t, p.Compiler(ctx, tc))
	require.NoError(t, p.Build(ctx, tc))

	err := p.Check(ctx, t, tc)

	require.Same(t, wantErr, err)
	assert.Same(t, tc.Compiler("check", testutil.FakeType).Stats(), gotStats)
	assert.Same(t, mod.Created()[0], gotCompiler)

	stored, ok := tc.Value("check", processor.StatsKey)
	require.True(t, ok)
	assert.Same(t, gotStats, stored)
}

func TestStatsAPI_SnapshotNameIsMetadata(t *testing.T) {
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{Name: "n", SnapshotName: "n.snap.json"})
	assert.Equal(t, "n", p.Name())
	assert.Equal(t, "n.snap.json", p.SnapshotName())
}

type recordingEnv struct {
	lines []string
}

func (e *recordingEnv) Name() string { return "recording" }

func (e *recordingEnv) Logf(format string, args ...any) {
	e.lines = append(e.lines, fmt.Sprintf(format, args...))
}

func TestStatsAPI_CheckReportsThroughEnv(t *testing.T) {
	ctx, tc, mod := newContext(t, false)
	p := processor.NewStatsAPIProcessor(processor.StatsAPIOptions{Name: "env", CompilerType: testutil.FakeType})

	require.NoError(t, p.Config(ctx, tc))
	require.NoError(t, p.Compiler(ctx, tc))
	mod.Created()[0].Template = testutil.FakeStats{Warnings: 1}
	require.NoError(t, p.Build(ctx, tc))

	env := &recordingEnv{}
	require.NoError(t, p.Check(ctx, env, tc))

	assert.Equal(t, []string{"recording: stats received (errors: false, warnings: true)"}, env.lines)
}
