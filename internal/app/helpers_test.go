package app

import (
	"bytes"
	"os"
	"testing"

	"github.com/specialistvlad/ipcrecipe/internal/hcl_adapter"
	"github.com/stretchr/testify/require"
)

// setupAppTest creates an App with debug logging captured in a buffer. The
// logs are printed when IPCRECIPE_TEST_LOGS=true.
func setupAppTest(t *testing.T, cfg Config) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	a := NewApp(out, logs, validated, hcl_adapter.NewLoader())

	t.Cleanup(func() {
		if os.Getenv("IPCRECIPE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}
