package testutil

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/stretchr/testify/require"
)

// Report is the decoded JSON report.
type Report struct {
	Recipe                     string            `json:"recipe"`
	DefaultsVersion            int               `json:"defaults_version"`
	Options                    map[string]bool   `json:"options"`
	Dependencies               []string          `json:"dependencies"`
	ToolRequirements           []string          `json:"tool_requirements"`
	ToolchainVariables         map[string]string `json:"toolchain_variables"`
	ActivatedGeneratorContexts []string          `json:"activated_generator_contexts"`
	BuildContexts              map[string]bool   `json:"build_contexts"`
	Declared                   []string          `json:"declared"`
	BuildPlan                  []string          `json:"build_plan"`
}

// DecodeReport requires a successful run with JSON output and decodes it.
func DecodeReport(t *testing.T, result *HarnessResult) Report {
	t.Helper()
	require.NoError(t, result.Err, "run returned an unexpected error")

	var r Report
	require.NoError(t, json.Unmarshal([]byte(result.Output), &r), "output is not a JSON report:\n%s", result.Output)
	return r
}

// RequireConfigurationError checks that the run failed with a
// configuration error of the given kind and produced no report.
func RequireConfigurationError(t *testing.T, result *HarnessResult, kind config.ConfigurationKind) *config.ConfigurationError {
	t.Helper()

	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(result.Err, &cfgErr), "expected a configuration error, got %v", result.Err)
	require.Equal(t, kind, cfgErr.Kind)
	require.Empty(t, result.Output, "no report may be rendered after a configuration error")
	return cfgErr
}
