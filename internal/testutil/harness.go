// Package testutil runs the whole application against recipe fixtures for
// the integration tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/ipcrecipe/internal/app"
	"github.com/specialistvlad/ipcrecipe/internal/hcl_adapter"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Dir       string
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// Path joins elem onto the harness directory.
func (r *HarnessResult) Path(elem ...string) string {
	return filepath.Join(append([]string{r.Dir}, elem...)...)
}

// RunIntegrationTest writes files into a temporary directory and runs the
// app with cfg. Relative RecipePath, ProfilePath, MetricsTextfile and
// SourceFolder values are resolved against that directory; an empty
// SourceFolder becomes the directory itself.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, cfg)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller-provided
// context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfg.RecipePath = inDir(tmpDir, cfg.RecipePath)
	cfg.ProfilePath = inDir(tmpDir, cfg.ProfilePath)
	cfg.MetricsTextfile = inDir(tmpDir, cfg.MetricsTextfile)
	if cfg.SourceFolder == "" {
		cfg.SourceFolder = tmpDir
	} else {
		cfg.SourceFolder = inDir(tmpDir, cfg.SourceFolder)
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	result := &HarnessResult{Dir: tmpDir}
	validated, err := app.NewConfig(cfg)
	if err != nil {
		result.Err = err
		return result
	}

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	result.App = app.NewApp(out, logs, validated, hcl_adapter.NewLoader())
	result.Err = result.App.Run(ctx)
	result.Output = out.String()
	result.LogOutput = logs.String()

	if os.Getenv("IPCRECIPE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}

func inDir(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
