package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/specialistvlad/ipcrecipe/internal/lifecycle"
	"github.com/specialistvlad/ipcrecipe/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonReport struct {
	Options                    map[string]bool   `json:"options"`
	Dependencies               []string          `json:"dependencies"`
	ToolRequirements           []string          `json:"tool_requirements"`
	ToolchainVariables         map[string]string `json:"toolchain_variables"`
	ActivatedGeneratorContexts []string          `json:"activated_generator_contexts"`
	Declared                   []string          `json:"declared"`
	BuildPlan                  []string          `json:"build_plan"`
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.SourceFolder)
	assert.Equal(t, report.FormatText, cfg.Format)

	_, err = NewConfig(Config{Until: "package", Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown hook "package"`)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}

func TestApp_RunDefaultsEmitsFiles(t *testing.T) {
	// --- Arrange ---
	src := t.TempDir()
	a, out, _ := setupAppTest(t, Config{
		SourceFolder: src,
		Format:       report.FormatJSON,
		Emit:         true,
	})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)

	var got jsonReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, map[string]bool{"build": true, "doc": false}, got.Options)
	assert.Equal(t, []string{"capnproto/1.0.1", "flow/1.0", "gtest/1.14.0", "jemalloc/5.2.1"}, got.Dependencies)
	assert.Equal(t, []string{"cmake/3.26.3"}, got.ToolRequirements)
	assert.Equal(t, map[string]string{"CFG_ENABLE_TEST_SUITE": "ON", "JEMALLOC_PREFIX": "je_"}, got.ToolchainVariables)
	assert.Empty(t, got.ActivatedGeneratorContexts)
	assert.ElementsMatch(t, []string{
		"host:capnproto/1.0.1", "host:flow/1.0", "host:gtest/1.14.0", "host:jemalloc/5.2.1", "build:cmake/3.26.3",
	}, got.Declared)
	require.Len(t, got.BuildPlan, 2)

	generators := filepath.Join(src, "build", "Release", "generators")
	assert.FileExists(t, filepath.Join(generators, "deps.cmake"))
	assert.FileExists(t, filepath.Join(generators, "toolchain.cmake"))
}

func TestApp_RunWithProfileAndOverrides(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "docs.yaml")
	require.NoError(t, os.WriteFile(profilePath, []byte("options:\n  build: true\n  doc: true\nsettings:\n  build_type: Debug\n"), 0600))

	a, out, _ := setupAppTest(t, Config{
		ProfilePath:  profilePath,
		Options:      []string{"build=False"},
		SourceFolder: dir,
		Format:       report.FormatJSON,
		Until:        lifecycle.HookGenerate,
	})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)

	var got jsonReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, map[string]bool{"build": false, "doc": true}, got.Options)
	assert.Empty(t, got.Dependencies)
	assert.Equal(t, []string{"cmake/3.26.3", "doxygen/1.9.4"}, got.ToolRequirements)
	assert.Equal(t, []string{"doxygen/1.9.4"}, got.ActivatedGeneratorContexts)
	assert.ElementsMatch(t, []string{"build:cmake/3.26.3", "build:doxygen/1.9.4"}, got.Declared)
	assert.Empty(t, got.BuildPlan, "build hook must not run")
	assert.NoDirExists(t, filepath.Join(dir, "build"), "nothing is written without -emit")
}

func TestApp_ConfigurationErrorStopsBeforeHooks(t *testing.T) {
	// --- Arrange ---
	a, out, _ := setupAppTest(t, Config{Options: []string{"shared=true"}})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfiguration))
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "shared", cfgErr.Key)
	assert.Empty(t, out.String())

	n, gerr := testutil.GatherAndCount(a.Metrics().Registry(), "ipcrecipe_lifecycle_hook_total")
	require.NoError(t, gerr)
	assert.Zero(t, n)
}

func TestApp_InvalidOptionValue(t *testing.T) {
	a, _, _ := setupAppTest(t, Config{Options: []string{"doc=yes"}})

	err := a.Run(context.Background())

	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, config.KindInvalidOptionValue, cfgErr.Kind)
}

func TestApp_WritesMetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipcrecipe.prom")
	a, _, _ := setupAppTest(t, Config{MetricsTextfile: path, Until: lifecycle.HookLayout})

	require.NoError(t, a.Run(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ipcrecipe_lifecycle_hook_total{hook="layout"} 1`)
}

func TestApp_RecipeLoadFailure(t *testing.T) {
	a, _, _ := setupAppTest(t, Config{RecipePath: filepath.Join(t.TempDir(), "missing.recipe.hcl")})

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load recipe")
	assert.False(t, errors.Is(err, config.ErrConfiguration))
}

func TestApp_DeclaredFollowsHooksRun(t *testing.T) {
	// --- Arrange ---
	a, out, _ := setupAppTest(t, Config{Format: report.FormatJSON, Until: lifecycle.HookRequirements})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)

	var got jsonReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.NotContains(t, got.Declared, "build:cmake/3.26.3", "build_requirements must not run")
	assert.Contains(t, got.Declared, "host:capnproto/1.0.1")
	assert.Equal(t, []string{"cmake/3.26.3"}, got.ToolRequirements, "the resolution itself is unaffected")
}
