package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/specialistvlad/ipcrecipe/internal/layout"
	"github.com/specialistvlad/ipcrecipe/internal/reference"
	"github.com/specialistvlad/ipcrecipe/internal/resolver"
)

// DependencyGraph receives the (name, version) declarations.
type DependencyGraph interface {
	Require(ctx context.Context, ref reference.Reference) error
	ToolRequire(ctx context.Context, ref reference.Reference) error
}

// DepsEmitter generates the dependency files. contexts carries one entry
// per tool requirement, flagged when it is activated as a build context.
type DepsEmitter interface {
	EmitDeps(ctx context.Context, l layout.Layout, deps []reference.Reference, contexts []resolver.BuildContext) error
}

// ToolchainEmitter generates the build-system toolchain configuration.
type ToolchainEmitter interface {
	EmitToolchain(ctx context.Context, l layout.Layout, vars []resolver.ToolchainVariable) error
}

// BuildInvoker hands control to the external build system.
type BuildInvoker interface {
	Configure(ctx context.Context, l layout.Layout) error
	Build(ctx context.Context, l layout.Layout) error
}

// Observer is notified after every hook and every resolution. It must not
// influence the lifecycle.
type Observer interface {
	ObserveHook(hook Hook, elapsed time.Duration, err error)
	ObserveResolution(c resolver.ResolvedConfiguration, elapsed time.Duration)
}

// Collaborators bundles the host-owned subsystems a Machine forwards to.
// Observer is optional.
type Collaborators struct {
	Graph     DependencyGraph
	Deps      DepsEmitter
	Toolchain ToolchainEmitter
	Invoker   BuildInvoker
	Observer  Observer
}

func (c Collaborators) validate() error {
	var errs []error
	if c.Graph == nil {
		errs = append(errs, errors.New("dependency graph is required"))
	}
	if c.Deps == nil {
		errs = append(errs, errors.New("deps emitter is required"))
	}
	if c.Toolchain == nil {
		errs = append(errs, errors.New("toolchain emitter is required"))
	}
	if c.Invoker == nil {
		errs = append(errs, errors.New("build invoker is required"))
	}
	return errors.Join(errs...)
}
