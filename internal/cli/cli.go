package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/ipcrecipe/internal/app"
	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/specialistvlad/ipcrecipe/internal/lifecycle"
	"github.com/specialistvlad/ipcrecipe/internal/report"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ToExitError maps a run error to its exit code. Configuration errors are
// usage errors; everything else is a failure.
func ToExitError(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if errors.Is(err, config.ErrConfiguration) {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

// assignments collects repeated key=value flags.
type assignments []string

func (a *assignments) String() string {
	return strings.Join(*a, ",")
}

func (a *assignments) Set(v string) error {
	*a = append(*a, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("ipcrecipe", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ipcrecipe - Resolve and drive the build recipe of the ipc library.

Usage:
  ipcrecipe [options] [RECIPE_PATH]

Arguments:
  RECIPE_PATH
    Path to a *recipe.hcl file or a directory containing exactly one.
    The built-in ipc recipe is used when omitted.

Options:
`)
		flagSet.PrintDefaults()
	}

	var optionFlags, settingFlags assignments
	flagSet.Var(&optionFlags, "o", "Option assignment key=value (repeatable). Values: true or false.")
	flagSet.Var(&settingFlags, "s", "Setting assignment key=value (repeatable), e.g. build_type=Debug.")
	profileFlag := flagSet.String("profile", "", "YAML profile with 'options' and 'settings' maps.")
	sourceFlag := flagSet.String("source-folder", ".", "Project root the layout is computed from.")
	untilFlag := flagSet.String("until", "", "Stop after this hook: layout, requirements, build_requirements, generate or build.")
	formatFlag := flagSet.String("format", string(report.FormatText), "Report format: text, json, yaml or hcl.")
	emitFlag := flagSet.Bool("emit", false, "Write generator files into the layout's generators folder.")
	metricsFlag := flagSet.String("metrics-textfile", "", "Write Prometheus metrics to this file in textfile format.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("expected at most one recipe path, got %d", flagSet.NArg())}
	}
	path := flagSet.Arg(0)
	slog.Debug("Recipe path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		RecipePath:      path,
		ProfilePath:     *profileFlag,
		Options:         optionFlags,
		Settings:        settingFlags,
		SourceFolder:    *sourceFlag,
		Until:           lifecycle.Hook(strings.ToLower(*untilFlag)),
		Format:          report.Format(strings.ToLower(*formatFlag)),
		Emit:            *emitFlag,
		MetricsTextfile: *metricsFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
