package compiler_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/testutil"
)

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := testutil.NewRegistry(&testutil.FakeModule{})
	require.Panics(t, func() { (&testutil.FakeModule{}).Register(r) })
	assert.Equal(t, []compiler.Type{testutil.FakeType}, r.Types())
}

func TestRegistry_UnknownType(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := compiler.NewRegistry()

	_, err := r.New(ctx, "missing", &compiler.Options{})
	require.ErrorIs(t, err, compiler.ErrUnknownType)
}

func TestManager_Lifecycle(t *testing.T) {
	// --- Arrange ---
	ctx, _ := testutil.Context(t)
	mod := &testutil.FakeModule{}
	m := compiler.NewManager("main", testutil.FakeType, testutil.NewRegistry(mod))
	opts := &compiler.Options{Name: "main"}
	m.SetOptions(opts)

	// --- Act / Assert ---
	_, err := m.Build(ctx)
	require.ErrorIs(t, err, compiler.ErrCompilerNotCreated)
	assert.Nil(t, m.Compiler())
	assert.Nil(t, m.Stats())

	require.NoError(t, m.CreateCompiler(ctx))
	require.Len(t, mod.Created(), 1)
	assert.Same(t, opts, m.Compiler().Options())

	stats, err := m.Build(ctx)
	require.NoError(t, err)
	assert.Same(t, stats, m.Stats())
	assert.Equal(t, 1, m.BuildCount())

	require.NoError(t, m.Close(ctx))
	assert.True(t, mod.Created()[0].Closed())
	assert.Nil(t, m.Compiler())
	require.NoError(t, m.Close(ctx), "closing twice is a no-op")
}

func TestManager_TracksRunsOutsideBuild(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := compiler.NewManager("main", testutil.FakeType, testutil.NewRegistry(&testutil.FakeModule{}))
	require.NoError(t, m.CreateCompiler(ctx))

	// A hook may drive the compiler directly instead of going through the handle.
	stats, err := m.Compiler().Run(ctx)
	require.NoError(t, err)

	assert.Same(t, stats, m.Stats())
	assert.Equal(t, 1, m.BuildCount())
}

func TestManager_CreateErrorPropagates(t *testing.T) {
	ctx, _ := testutil.Context(t)
	wantErr := errors.New("bad options")
	m := compiler.NewManager("main", testutil.FakeType, testutil.NewRegistry(&testutil.FakeModule{CreateErr: wantErr}))

	err := m.CreateCompiler(ctx)
	require.Same(t, wantErr, err)
	assert.Nil(t, m.Compiler())
}

func TestManager_DefaultsToEmptyOptions(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := compiler.NewManager("main", testutil.FakeType, testutil.NewRegistry(&testutil.FakeModule{}))

	require.NoError(t, m.CreateCompiler(ctx))
	assert.NotNil(t, m.Compiler().Options())
}
