package host

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/ipcrecipe/internal/ctxlog"
	"github.com/specialistvlad/ipcrecipe/internal/layout"
	"github.com/specialistvlad/ipcrecipe/internal/reference"
	"github.com/specialistvlad/ipcrecipe/internal/resolver"
)

const (
	DepsFile      = "deps.cmake"
	ToolchainFile = "toolchain.cmake"

	generatedHeader = "# Generated by ipcrecipe. Do not edit.\n"
)

// FileEmitter writes the CMake generator files into the layout's
// generators folder.
type FileEmitter struct{}

func NewFileEmitter() *FileEmitter {
	return &FileEmitter{}
}

// EmitDeps writes deps.cmake: a version variable per dependency and an
// activation switch per tool build context.
func (e *FileEmitter) EmitDeps(ctx context.Context, l layout.Layout, deps []reference.Reference, contexts []resolver.BuildContext) error {
	return writeGenerated(ctx, l, DepsFile, RenderDeps(deps, contexts))
}

// EmitToolchain writes toolchain.cmake with one cache entry per variable.
func (e *FileEmitter) EmitToolchain(ctx context.Context, l layout.Layout, vars []resolver.ToolchainVariable) error {
	return writeGenerated(ctx, l, ToolchainFile, RenderToolchain(vars))
}

// RenderDeps returns the content of deps.cmake.
func RenderDeps(deps []reference.Reference, contexts []resolver.BuildContext) []byte {
	var b bytes.Buffer
	b.WriteString(generatedHeader)
	for _, d := range deps {
		fmt.Fprintf(&b, "set(%s_VERSION %s)\n", reference.CMakeName(d.Name), cmakeQuote(d.Version))
	}
	for _, c := range contexts {
		state := "OFF"
		if c.Activated {
			state = "ON"
		}
		fmt.Fprintf(&b, "set(%s_BUILD_CONTEXT_ACTIVATED %s)\n", reference.CMakeName(c.Ref.Name), state)
	}
	return b.Bytes()
}

// RenderToolchain returns the content of toolchain.cmake.
func RenderToolchain(vars []resolver.ToolchainVariable) []byte {
	var b bytes.Buffer
	b.WriteString(generatedHeader)
	for _, v := range vars {
		fmt.Fprintf(&b, "set(%s %s CACHE STRING \"Variable %s defined by the recipe\" FORCE)\n", v.Key, cmakeQuote(v.Value), v.Key)
	}
	return b.Bytes()
}

func writeGenerated(ctx context.Context, l layout.Layout, name string, content []byte) error {
	if err := os.MkdirAll(l.GeneratorsFolder, 0o755); err != nil {
		return fmt.Errorf("host: create generators folder: %w", err)
	}
	path := filepath.Join(l.GeneratorsFolder, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("host: write %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Info("Generator file written.", "path", path)
	return nil
}

// cmakeQuote renders s as a CMake quoted argument. Variable references and
// list separators are escaped so the value reaches the cache verbatim.
func cmakeQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\', '"', '$', ';':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// LogEmitter logs what FileEmitter would write. It is used for dry runs.
type LogEmitter struct{}

func NewLogEmitter() *LogEmitter {
	return &LogEmitter{}
}

func (e *LogEmitter) EmitDeps(ctx context.Context, l layout.Layout, deps []reference.Reference, contexts []resolver.BuildContext) error {
	logger := ctxlog.FromContext(ctx)
	for _, c := range contexts {
		logger.Info("Build context.", "ref", c.Ref.String(), "activated", c.Activated)
	}
	logger.Info("Deps generator skipped (dry run).", "path", filepath.Join(l.GeneratorsFolder, DepsFile), "dependencies", len(deps))
	return nil
}

func (e *LogEmitter) EmitToolchain(ctx context.Context, l layout.Layout, vars []resolver.ToolchainVariable) error {
	logger := ctxlog.FromContext(ctx)
	for _, v := range vars {
		logger.Info("Toolchain variable.", "key", v.Key, "value", v.Value)
	}
	logger.Info("Toolchain generator skipped (dry run).", "path", filepath.Join(l.GeneratorsFolder, ToolchainFile))
	return nil
}
