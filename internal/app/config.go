package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/ipcrecipe/internal/lifecycle"
	"github.com/specialistvlad/ipcrecipe/internal/report"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RecipePath  string   // empty selects the built-in recipe
	ProfilePath string   // YAML profile, optional
	Options     []string // key=value, applied over the profile
	Settings    []string // key=value, applied over the profile

	SourceFolder    string
	Until           lifecycle.Hook // empty runs every hook
	Format          report.Format
	Emit            bool // write generator files instead of logging them
	MetricsTextfile string

	LogFormat string
	LogLevel  string
}

// NewConfig fills in defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SourceFolder == "" {
		cfg.SourceFolder = "."
	}
	if cfg.Format == "" {
		cfg.Format = report.FormatText
	}

	var errs []error
	if cfg.Until != "" {
		if _, err := lifecycle.ParseHook(string(cfg.Until)); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := report.ParseFormat(string(cfg.Format)); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
