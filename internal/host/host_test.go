package host

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/ipcrecipe/internal/ctxlog"
	"github.com/specialistvlad/ipcrecipe/internal/layout"
	"github.com/specialistvlad/ipcrecipe/internal/reference"
	"github.com/specialistvlad/ipcrecipe/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

func TestGraph_DeclarationsAndContexts(t *testing.T) {
	g := NewGraph()
	ctx := testCtx()

	require.NoError(t, g.Require(ctx, reference.MustParse("gtest/1.14.0")))
	require.NoError(t, g.ToolRequire(ctx, reference.MustParse("cmake/3.26.3")))
	// The same package may live in both contexts.
	require.NoError(t, g.ToolRequire(ctx, reference.MustParse("gtest/1.14.0")))

	var got []string
	for _, n := range g.Nodes() {
		got = append(got, n.String())
	}
	assert.Equal(t, []string{"host:gtest/1.14.0", "build:cmake/3.26.3", "build:gtest/1.14.0"}, got)
}

func TestGraph_SameVersionIsNoop(t *testing.T) {
	g := NewGraph()
	ctx := testCtx()

	require.NoError(t, g.Require(ctx, reference.MustParse("flow/1.0")))
	require.NoError(t, g.Require(ctx, reference.MustParse("flow/1.0.0")))

	assert.Len(t, g.Nodes(), 1)
}

func TestGraph_VersionConflict(t *testing.T) {
	g := NewGraph()
	ctx := testCtx()

	require.NoError(t, g.Require(ctx, reference.MustParse("jemalloc/5.2.1")))
	err := g.Require(ctx, reference.MustParse("jemalloc/5.3.0"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionConflict))
	assert.Contains(t, err.Error(), "jemalloc/5.3.0 already declared as jemalloc/5.2.1")
}

func TestFileEmitter_WritesGeneratorFiles(t *testing.T) {
	// --- Arrange ---
	l := layout.CMake(t.TempDir(), "Release")
	e := NewFileEmitter()
	ctx := testCtx()

	// --- Act ---
	err := e.EmitDeps(ctx, l,
		[]reference.Reference{reference.MustParse("capnproto/1.0.1")},
		[]resolver.BuildContext{
			{Ref: reference.MustParse("cmake/3.26.3")},
			{Ref: reference.MustParse("doxygen/1.9.4"), Activated: true},
		},
	)
	require.NoError(t, err)
	err = e.EmitToolchain(ctx, l, []resolver.ToolchainVariable{
		{Key: "CFG_ENABLE_TEST_SUITE", Value: "ON"},
		{Key: "JEMALLOC_PREFIX", Value: "je_"},
	})
	require.NoError(t, err)

	// --- Assert ---
	deps, err := os.ReadFile(filepath.Join(l.GeneratorsFolder, DepsFile))
	require.NoError(t, err)
	assert.Equal(t, generatedHeader+
		"set(CAPNPROTO_VERSION \"1.0.1\")\n"+
		"set(CMAKE_BUILD_CONTEXT_ACTIVATED OFF)\n"+
		"set(DOXYGEN_BUILD_CONTEXT_ACTIVATED ON)\n", string(deps))

	toolchain, err := os.ReadFile(filepath.Join(l.GeneratorsFolder, ToolchainFile))
	require.NoError(t, err)
	assert.Contains(t, string(toolchain), `set(CFG_ENABLE_TEST_SUITE "ON" CACHE STRING "Variable CFG_ENABLE_TEST_SUITE defined by the recipe" FORCE)`)
	assert.Contains(t, string(toolchain), `set(JEMALLOC_PREFIX "je_" CACHE STRING`)
}

func TestRenderToolchain_Empty(t *testing.T) {
	assert.Equal(t, generatedHeader, string(RenderToolchain(nil)))
}

func TestCMakeQuote(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "je_", want: `"je_"`},
		{in: "", want: `""`},
		{in: "${HOME}", want: `"\${HOME}"`},
		{in: "a;b", want: `"a\;b"`},
		{in: `C:\sdk "x"`, want: `"C:\\sdk \"x\""`},
		{in: "line1\nline2\t", want: `"line1\nline2\t"`},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, cmakeQuote(tc.in), "input %q", tc.in)
	}
}

func TestRenderToolchain_EscapesValues(t *testing.T) {
	out := string(RenderToolchain([]resolver.ToolchainVariable{{Key: "PREFIX", Value: "$ENV{X};y"}}))
	assert.Contains(t, out, `set(PREFIX "\$ENV{X}\;y" CACHE STRING`)
}

func TestLogEmitter(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	l := layout.CMake("/src", "Release")
	e := NewLogEmitter()

	require.NoError(t, e.EmitDeps(ctx, l, nil, []resolver.BuildContext{{Ref: reference.MustParse("doxygen/1.9.4"), Activated: true}}))
	require.NoError(t, e.EmitToolchain(ctx, l, []resolver.ToolchainVariable{{Key: "JEMALLOC_PREFIX", Value: "je_"}}))

	out := buf.String()
	assert.Contains(t, out, "ref=doxygen/1.9.4 activated=true")
	assert.Contains(t, out, "key=JEMALLOC_PREFIX value=je_")
	assert.Contains(t, out, "dry run")
}

func TestPlanInvoker(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlanInvoker(&buf)
	l := layout.CMake("/src/ipc", "Debug")

	require.NoError(t, p.Configure(testCtx(), l))
	require.NoError(t, p.Build(testCtx(), l))

	gen := filepath.Join("/src/ipc", "build", "Debug", "generators", ToolchainFile)
	build := filepath.Join("/src/ipc", "build", "Debug")
	assert.Equal(t, [][]string{
		{"cmake", "-S", "/src/ipc", "-B", build, "-DCMAKE_TOOLCHAIN_FILE=" + gen, "-DCMAKE_BUILD_TYPE=Debug"},
		{"cmake", "--build", build},
	}, p.Commands())
	assert.Contains(t, buf.String(), "cmake --build "+build+"\n")
}
