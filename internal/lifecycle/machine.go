package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/specialistvlad/ipcrecipe/internal/ctxlog"
	"github.com/specialistvlad/ipcrecipe/internal/layout"
	"github.com/specialistvlad/ipcrecipe/internal/options"
	"github.com/specialistvlad/ipcrecipe/internal/resolver"
	"github.com/specialistvlad/ipcrecipe/internal/settings"
)

// Input is everything a Machine is constructed from. Options and settings
// are raw assignments; New validates them.
type Input struct {
	Recipe       *config.Recipe
	Options      map[string]string
	Settings     map[string]string
	SourceFolder string
}

// Machine is one build invocation of a recipe. It is not safe for
// concurrent use; independent profiles use independent machines.
type Machine struct {
	recipe       *config.Recipe
	opts         options.Values
	settings     settings.Settings
	sourceFolder string
	collab       Collaborators

	state  State
	failed error
	layout layout.Layout
}

// New validates the input and returns a Machine in the Uninitialized
// state. Invalid options or settings yield a *config.ConfigurationError;
// a recipe condition that does not resolve yields resolver.ErrResolution.
func New(in Input, c Collaborators) (*Machine, error) {
	if in.Recipe == nil {
		return nil, fmt.Errorf("lifecycle: recipe is required")
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("lifecycle: %w", err)
	}

	opts, err := options.Parse(in.Recipe.Options, in.Options)
	if err != nil {
		return nil, err
	}
	s, err := settings.Parse(in.Recipe, in.Settings)
	if err != nil {
		return nil, err
	}
	// A condition that cannot be evaluated must fail here, before the
	// requirements hook has declared anything to the graph.
	if _, err := resolver.Resolve(in.Recipe, opts, s); err != nil {
		return nil, fmt.Errorf("lifecycle: %w", err)
	}

	return &Machine{
		recipe:       in.Recipe,
		opts:         opts,
		settings:     s,
		sourceFolder: in.SourceFolder,
		collab:       c,
		state:        Uninitialized,
	}, nil
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// Options returns the validated option values.
func (m *Machine) Options() options.Values {
	return m.opts
}

// CurrentLayout returns the layout computed by the layout hook.
func (m *Machine) CurrentLayout() (layout.Layout, bool) {
	return m.layout, m.state >= LayoutComputed
}

// Resolve derives a fresh ResolvedConfiguration for the machine's input.
func (m *Machine) Resolve() (resolver.ResolvedConfiguration, error) {
	start := time.Now()
	c, err := resolver.Resolve(m.recipe, m.opts, m.settings)
	if err != nil {
		return resolver.ResolvedConfiguration{}, err
	}
	if m.collab.Observer != nil {
		m.collab.Observer.ObserveResolution(c, time.Since(start))
	}
	return c, nil
}

// Layout computes the folder layout from the source folder and build_type.
func (m *Machine) Layout(ctx context.Context) (layout.Layout, error) {
	err := m.run(ctx, HookLayout, func(ctx context.Context) error {
		m.layout = layout.CMake(m.sourceFolder, m.settings.BuildType())
		ctxlog.FromContext(ctx).Debug("Layout computed.",
			"build_folder", m.layout.BuildFolder,
			"generators_folder", m.layout.GeneratorsFolder,
		)
		return nil
	})
	if err != nil {
		return layout.Layout{}, err
	}
	return m.layout, nil
}

// Requirements declares every resolved dependency to the graph.
func (m *Machine) Requirements(ctx context.Context) error {
	return m.run(ctx, HookRequirements, func(ctx context.Context) error {
		c, err := m.Resolve()
		if err != nil {
			return err
		}
		for _, ref := range c.Dependencies {
			if err := m.collab.Graph.Require(ctx, ref); err != nil {
				return fmt.Errorf("require %s: %w", ref, err)
			}
		}
		ctxlog.FromContext(ctx).Debug("Requirements declared.", "count", len(c.Dependencies))
		return nil
	})
}

// BuildRequirements declares every resolved tool requirement to the graph.
func (m *Machine) BuildRequirements(ctx context.Context) error {
	return m.run(ctx, HookBuildRequirements, func(ctx context.Context) error {
		c, err := m.Resolve()
		if err != nil {
			return err
		}
		for _, ref := range c.ToolRequirements {
			if err := m.collab.Graph.ToolRequire(ctx, ref); err != nil {
				return fmt.Errorf("tool require %s: %w", ref, err)
			}
		}
		ctxlog.FromContext(ctx).Debug("Tool requirements declared.", "count", len(c.ToolRequirements))
		return nil
	})
}

// Generate configures the deps emitter with the build contexts and the
// toolchain emitter with the toolchain variables.
func (m *Machine) Generate(ctx context.Context) error {
	return m.run(ctx, HookGenerate, func(ctx context.Context) error {
		c, err := m.Resolve()
		if err != nil {
			return err
		}
		if err := m.collab.Deps.EmitDeps(ctx, m.layout, c.Dependencies, c.BuildContexts); err != nil {
			return fmt.Errorf("emit deps: %w", err)
		}
		if err := m.collab.Toolchain.EmitToolchain(ctx, m.layout, c.ToolchainVariables); err != nil {
			return fmt.Errorf("emit toolchain: %w", err)
		}
		ctxlog.FromContext(ctx).Debug("Generators emitted.",
			"activated_contexts", len(c.ActivatedGeneratorContexts),
			"toolchain_variables", len(c.ToolchainVariables),
		)
		return nil
	})
}

// Build forwards to the build invoker.
func (m *Machine) Build(ctx context.Context) error {
	return m.run(ctx, HookBuild, func(ctx context.Context) error {
		if err := m.collab.Invoker.Configure(ctx, m.layout); err != nil {
			return fmt.Errorf("configure: %w", err)
		}
		if err := m.collab.Invoker.Build(ctx, m.layout); err != nil {
			return fmt.Errorf("build: %w", err)
		}
		return nil
	})
}

// Run calls the hooks in order, stopping after until. An empty until runs
// every hook.
func (m *Machine) Run(ctx context.Context, until Hook) error {
	if until != "" {
		if _, err := ParseHook(string(until)); err != nil {
			return err
		}
	}

	for _, hook := range Hooks {
		var err error
		switch hook {
		case HookLayout:
			_, err = m.Layout(ctx)
		case HookRequirements:
			err = m.Requirements(ctx)
		case HookBuildRequirements:
			err = m.BuildRequirements(ctx)
		case HookGenerate:
			err = m.Generate(ctx)
		case HookBuild:
			err = m.Build(ctx)
		}
		if err != nil {
			return err
		}
		if hook == until {
			return nil
		}
	}
	return nil
}

// run enforces ordering and the at-most-once rule around fn. A failing hook
// aborts the machine; every later call returns ErrAborted.
func (m *Machine) run(ctx context.Context, hook Hook, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return &HookError{Hook: hook, State: m.state, Err: err}
	}
	if m.failed != nil {
		return &HookError{Hook: hook, State: m.state, Err: fmt.Errorf("%w: %v", ErrAborted, m.failed)}
	}

	t := transitions[hook]
	switch {
	case m.state > t.from:
		return &HookError{Hook: hook, State: m.state, Err: ErrHookAlreadyCalled}
	case m.state < t.from:
		return &HookError{Hook: hook, State: m.state, Err: ErrHookOutOfOrder}
	}

	logger := ctxlog.FromContext(ctx).With("hook", string(hook))
	logger.Debug("Lifecycle hook started.", "state", m.state.String())

	start := time.Now()
	err := fn(ctxlog.WithLogger(ctx, logger))
	if m.collab.Observer != nil {
		m.collab.Observer.ObserveHook(hook, time.Since(start), err)
	}
	if err != nil {
		m.failed = err
		logger.Debug("Lifecycle hook failed.", "error", err)
		return &HookError{Hook: hook, State: m.state, Err: err}
	}

	m.state = t.to
	logger.Debug("Lifecycle hook finished.", "state", m.state.String())
	return nil
}
