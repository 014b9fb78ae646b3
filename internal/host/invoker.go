package host

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/ipcrecipe/internal/layout"
)

// PlanInvoker writes the CMake commands a build would run. Running them is
// left to the caller.
type PlanInvoker struct {
	w        io.Writer
	commands [][]string
}

func NewPlanInvoker(w io.Writer) *PlanInvoker {
	return &PlanInvoker{w: w}
}

func (p *PlanInvoker) Configure(ctx context.Context, l layout.Layout) error {
	return p.emit([]string{
		"cmake",
		"-S", l.SourceFolder,
		"-B", l.BuildFolder,
		"-DCMAKE_TOOLCHAIN_FILE=" + filepath.Join(l.GeneratorsFolder, ToolchainFile),
		"-DCMAKE_BUILD_TYPE=" + l.BuildType,
	})
}

func (p *PlanInvoker) Build(ctx context.Context, l layout.Layout) error {
	return p.emit([]string{"cmake", "--build", l.BuildFolder})
}

// Commands returns the planned commands in order.
func (p *PlanInvoker) Commands() [][]string {
	out := make([][]string, len(p.commands))
	for i, c := range p.commands {
		out[i] = append([]string(nil), c...)
	}
	return out
}

func (p *PlanInvoker) emit(cmd []string) error {
	p.commands = append(p.commands, cmd)
	if p.w == nil {
		return nil
	}
	if _, err := fmt.Fprintln(p.w, strings.Join(cmd, " ")); err != nil {
		return fmt.Errorf("host: write build plan: %w", err)
	}
	return nil
}
