package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/specialistvlad/ipcrecipe/internal/ctxlog"
	"github.com/specialistvlad/ipcrecipe/internal/hcl_adapter"
	"github.com/specialistvlad/ipcrecipe/internal/options"
	"github.com/specialistvlad/ipcrecipe/internal/reference"
	"github.com/specialistvlad/ipcrecipe/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadIPC(t *testing.T) *config.Recipe {
	t.Helper()
	r, err := hcl_adapter.NewLoader().Load(ctxlog.Discard(context.Background()), "")
	require.NoError(t, err)
	return r
}

func loadSrc(t *testing.T, src string) *config.Recipe {
	t.Helper()
	r, err := hcl_adapter.NewLoader().LoadBytes(ctxlog.Discard(context.Background()), "test.recipe.hcl", []byte(src))
	require.NoError(t, err)
	return r
}

func resolve(t *testing.T, r *config.Recipe, rawOpts, rawSettings map[string]string) ResolvedConfiguration {
	t.Helper()
	opts, err := options.Parse(r.Options, rawOpts)
	require.NoError(t, err)
	s, err := settings.Parse(r, rawSettings)
	require.NoError(t, err)
	out, err := Resolve(r, opts, s)
	require.NoError(t, err)
	return out
}

func refs(raw ...string) []reference.Reference {
	out := []reference.Reference{}
	for _, r := range raw {
		out = append(out, reference.MustParse(r))
	}
	return out
}

var (
	runtimeDeps  = refs("capnproto/1.0.1", "flow/1.0", "gtest/1.14.0", "jemalloc/5.2.1")
	buildVars    = []ToolchainVariable{{Key: "CFG_ENABLE_TEST_SUITE", Value: "ON"}, {Key: "JEMALLOC_PREFIX", Value: "je_"}}
	cmakeOnly    = refs("cmake/3.26.3")
	cmakeDoxygen = refs("cmake/3.26.3", "doxygen/1.9.4")
)

func TestResolve_IPCTable(t *testing.T) {
	testCases := []struct {
		build, doc string
		want       ResolvedConfiguration
	}{
		{
			build: "false", doc: "false",
			want: ResolvedConfiguration{
				Dependencies:               refs(),
				ToolRequirements:           cmakeOnly,
				ToolchainVariables:         []ToolchainVariable{},
				ActivatedGeneratorContexts: refs(),
				BuildContexts:              []BuildContext{{Ref: reference.MustParse("cmake/3.26.3")}},
			},
		},
		{
			build: "false", doc: "true",
			want: ResolvedConfiguration{
				Dependencies:               refs(),
				ToolRequirements:           cmakeDoxygen,
				ToolchainVariables:         []ToolchainVariable{},
				ActivatedGeneratorContexts: refs("doxygen/1.9.4"),
				BuildContexts: []BuildContext{
					{Ref: reference.MustParse("cmake/3.26.3")},
					{Ref: reference.MustParse("doxygen/1.9.4"), Activated: true},
				},
			},
		},
		{
			build: "true", doc: "false",
			want: ResolvedConfiguration{
				Dependencies:               runtimeDeps,
				ToolRequirements:           cmakeOnly,
				ToolchainVariables:         buildVars,
				ActivatedGeneratorContexts: refs(),
				BuildContexts:              []BuildContext{{Ref: reference.MustParse("cmake/3.26.3")}},
			},
		},
		{
			build: "true", doc: "true",
			want: ResolvedConfiguration{
				Dependencies:               runtimeDeps,
				ToolRequirements:           cmakeDoxygen,
				ToolchainVariables:         buildVars,
				ActivatedGeneratorContexts: refs("doxygen/1.9.4"),
				BuildContexts: []BuildContext{
					{Ref: reference.MustParse("cmake/3.26.3")},
					{Ref: reference.MustParse("doxygen/1.9.4"), Activated: true},
				},
			},
		},
	}

	r := loadIPC(t)
	for _, tc := range testCases {
		t.Run("build="+tc.build+",doc="+tc.doc, func(t *testing.T) {
			got := resolve(t, r, map[string]string{"build": tc.build, "doc": tc.doc}, nil)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("resolution mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_DefaultsMatchBuildOnlyRow(t *testing.T) {
	r := loadIPC(t)

	got := resolve(t, r, nil, nil)
	want := resolve(t, r, map[string]string{"build": "true", "doc": "false"}, nil)

	assert.Empty(t, cmp.Diff(want, got))
	assert.Equal(t, []string{"capnproto", "flow", "gtest", "jemalloc"}, reference.Names(got.Dependencies))
}

func TestResolve_Idempotent(t *testing.T) {
	r := loadIPC(t)
	opts, err := options.Parse(r.Options, map[string]string{"doc": "true"})
	require.NoError(t, err)
	s, err := settings.Parse(r, nil)
	require.NoError(t, err)

	first, err := Resolve(r, opts, s)
	require.NoError(t, err)
	second, err := Resolve(r, opts, s)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second resolution differs (-first +second):\n%s", diff)
	}

	// Results are independent values.
	first.Dependencies[0].Name = "mutated"
	third, err := Resolve(r, opts, s)
	require.NoError(t, err)
	assert.Equal(t, "capnproto", third.Dependencies[0].Name)
}

func TestResolve_ScenarioDocOnly(t *testing.T) {
	got := resolve(t, loadIPC(t), map[string]string{"build": "false", "doc": "true"}, nil)

	assert.Empty(t, got.Dependencies)
	assert.Equal(t, []string{"cmake", "doxygen"}, reference.Names(got.ToolRequirements))
	assert.Empty(t, got.ToolchainVariables)
	assert.Equal(t, []string{"doxygen"}, reference.Names(got.ActivatedGeneratorContexts))
}

func TestResolve_ScenarioBuildOnly(t *testing.T) {
	got := resolve(t, loadIPC(t), map[string]string{"build": "true", "doc": "false"}, nil)

	assert.Equal(t, []string{"capnproto", "flow", "gtest", "jemalloc"}, reference.Names(got.Dependencies))
	assert.Equal(t, map[string]string{"CFG_ENABLE_TEST_SUITE": "ON", "JEMALLOC_PREFIX": "je_"}, got.Variables())
	assert.Empty(t, got.ActivatedGeneratorContexts)
}

func TestResolve_SettingsConditions(t *testing.T) {
	r := loadSrc(t, `
name     = "x"
settings = ["os", "build_type"]

requires "liburing" {
  version = "2.5"
  when    = settings.os == "Linux"
}

toolchain_variable "ENABLE_ASSERTS" {
  value = "ON"
  when  = settings.build_type == "Debug"
}
`)

	linuxDebug := resolve(t, r, nil, map[string]string{"os": "Linux", "build_type": "Debug"})
	assert.Equal(t, []string{"liburing"}, reference.Names(linuxDebug.Dependencies))
	assert.Equal(t, map[string]string{"ENABLE_ASSERTS": "ON"}, linuxDebug.Variables())

	unsetOS := resolve(t, r, nil, nil)
	assert.Empty(t, unsetOS.Dependencies, "a null setting never equals a literal")
	assert.Empty(t, unsetOS.ToolchainVariables, "build_type defaults to Release")
}

func TestResolve_BuildContextRequiresActiveTool(t *testing.T) {
	r := loadSrc(t, `
name = "x"
options {
  version = 1
  option "doc" {}
}
tool_requires "doxygen" {
  version       = "1.9.4"
  when          = option.doc
  build_context = true
}
`)

	got := resolve(t, r, map[string]string{"doc": "false"}, nil)
	assert.Empty(t, got.ToolRequirements)
	assert.Empty(t, got.ActivatedGeneratorContexts)
	assert.Empty(t, got.BuildContexts)
}

func TestResolve_UnknownConditionIsAnError(t *testing.T) {
	r := loadSrc(t, `
name     = "x"
settings = ["os"]
requires "gtest" {
  version = "1.14.0"
}
`)
	// Swap in a condition the loader would have rejected.
	r.Requires[0].When = hclStringExpr(t)

	opts, err := options.Parse(r.Options, nil)
	require.NoError(t, err)
	s, err := settings.Parse(r, map[string]string{"os": "Linux"})
	require.NoError(t, err)

	_, err = Resolve(r, opts, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))
	assert.Contains(t, err.Error(), "requires.gtest.when")
}

func TestResolve_NullConditionIsAnError(t *testing.T) {
	r := loadSrc(t, `
name = "x"
options {
  version = 1
  option "doc" {}
}
requires "gtest" {
  version = "1.14.0"
  when    = option.doc ? true : null
}
tool_requires "doxygen" {
  version       = "1.9.4"
  build_context = option.doc ? true : null
}
`)

	opts, err := options.Parse(r.Options, map[string]string{"doc": "false"})
	require.NoError(t, err)
	s, err := settings.Parse(r, nil)
	require.NoError(t, err)

	got, err := Resolve(r, opts, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))
	assert.Contains(t, err.Error(), "requires.gtest.when")
	assert.Contains(t, err.Error(), "got null")
	assert.Empty(t, got.Dependencies, "a failed resolution returns nothing")

	// With the requirement gate fixed, the null build context still fails.
	r.Requires = nil
	_, err = Resolve(r, opts, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool_requires.doxygen.build_context")
}

func TestResolve_OmittedConditionsUseDefaults(t *testing.T) {
	r := loadSrc(t, `
name = "x"
tool_requires "cmake" {
  version = "3.26.3"
}
`)
	require.Len(t, r.ToolRequires, 1)
	assert.Nil(t, r.ToolRequires[0].When)
	assert.Nil(t, r.ToolRequires[0].BuildContext)

	got := resolve(t, r, nil, nil)
	assert.Equal(t, cmakeOnly, got.ToolRequirements)
	assert.Equal(t, []BuildContext{{Ref: reference.MustParse("cmake/3.26.3")}}, got.BuildContexts)
}
