package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/ipcrecipe/internal/app"
	"github.com/specialistvlad/ipcrecipe/internal/cli"
	"github.com/specialistvlad/ipcrecipe/internal/hcl_adapter"
)

// main is the entrypoint for the ipcrecipe application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if exitErr := cli.ToExitError(run(os.Stdout, os.Stderr, os.Args[1:])); exitErr != nil {
		fmt.Fprintln(os.Stderr, exitErr.Message)
		os.Exit(exitErr.Code)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, logW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	a := app.NewApp(outW, logW, cfg, hcl_adapter.NewLoader())
	return a.Run(context.Background())
}
