package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/specialistvlad/ipcrecipe/internal/ctxlog"
	"github.com/specialistvlad/ipcrecipe/internal/host"
	"github.com/specialistvlad/ipcrecipe/internal/lifecycle"
	"github.com/specialistvlad/ipcrecipe/internal/metrics"
	"github.com/specialistvlad/ipcrecipe/internal/options"
	"github.com/specialistvlad/ipcrecipe/internal/profile"
	"github.com/specialistvlad/ipcrecipe/internal/report"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	recorder *metrics.Recorder
}

// NewApp is the constructor for the main application. The report goes to
// outW and logs go to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		recorder: metrics.NewRecorder(),
	}
}

// Metrics returns the application's metrics recorder. This is primarily
// for testing.
func (a *App) Metrics() *metrics.Recorder {
	return a.recorder
}

// Run loads the recipe, validates the user input, drives the lifecycle up
// to the configured hook and renders the resolved configuration.
// Invalid options or settings surface as a *config.ConfigurationError
// before any hook runs.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.MetricsTextfile != "" {
		defer func() {
			if werr := a.recorder.WriteTextfile(a.config.MetricsTextfile); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	recipe, err := a.loader.Load(ctx, a.config.RecipePath)
	if err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	a.logger.Debug("Recipe loaded.", "name", recipe.Name, "source", recipe.Source)

	rawOpts, rawSettings, err := a.assignments()
	if err != nil {
		return err
	}

	var deps lifecycle.DepsEmitter
	var toolchain lifecycle.ToolchainEmitter
	if a.config.Emit {
		e := host.NewFileEmitter()
		deps, toolchain = e, e
	} else {
		e := host.NewLogEmitter()
		deps, toolchain = e, e
	}
	plan := host.NewPlanInvoker(nil)
	graph := host.NewGraph()

	m, err := lifecycle.New(lifecycle.Input{
		Recipe:       recipe,
		Options:      rawOpts,
		Settings:     rawSettings,
		SourceFolder: a.config.SourceFolder,
	}, lifecycle.Collaborators{
		Graph:     graph,
		Deps:      deps,
		Toolchain: toolchain,
		Invoker:   plan,
		Observer:  a.recorder,
	})
	if err != nil {
		return err
	}

	if err := m.Run(ctx, a.config.Until); err != nil {
		return fmt.Errorf("lifecycle failed in state %s: %w", m.State(), err)
	}
	a.logger.Info("Lifecycle finished.", "recipe", recipe.Name, "state", m.State().String())

	resolved, err := m.Resolve()
	if err != nil {
		return fmt.Errorf("failed to resolve configuration: %w", err)
	}

	var declared []string
	for _, n := range graph.Nodes() {
		declared = append(declared, n.String())
	}
	var lines []string
	for _, cmd := range plan.Commands() {
		lines = append(lines, strings.Join(cmd, " "))
	}

	doc := report.Document{
		Recipe:   recipe.Name,
		Options:  m.Options(),
		Resolved: resolved,
		Declared: declared,
		Plan:     lines,
	}
	if err := report.Render(a.outW, a.config.Format, doc); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// assignments merges the profile with the command-line assignments.
func (a *App) assignments() (map[string]string, map[string]string, error) {
	var p profile.Profile
	if a.config.ProfilePath != "" {
		loaded, err := profile.LoadFile(a.config.ProfilePath)
		if err != nil {
			return nil, nil, err
		}
		p = *loaded
		a.logger.Debug("Profile loaded.", "path", a.config.ProfilePath)
	}

	cliOpts, err := options.ParseAssignments(a.config.Options)
	if err != nil {
		return nil, nil, err
	}
	cliSettings, err := options.ParseAssignments(a.config.Settings)
	if err != nil {
		return nil, nil, err
	}

	return options.Merge(p.Options, cliOpts), options.Merge(p.Settings, cliSettings), nil
}
