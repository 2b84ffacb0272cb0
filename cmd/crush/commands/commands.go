// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the crush CLI command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cxz/crush/cmd/crush/cli"
	"github.com/cxz/crush/lib/config"
	"github.com/cxz/crush/lib/help"
	"github.com/cxz/crush/lib/version"
)

// App holds the process surroundings a command runs in. Tests supply
// buffers; main supplies the real streams.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Color enables styled output on Stdout.
	Color bool

	// NewLogger builds the logger once configuration is loaded. Nil
	// uses cli.NewCommandLogger.
	NewLogger func(level slog.Level, format string) (*slog.Logger, error)
}

// NewApp returns an App bound to the process's standard streams.
func NewApp() *App {
	return &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Color:  cli.IsTerminal(os.Stdout),
	}
}

// globalParams are accepted by every command that loads configuration.
type globalParams struct {
	Config string `flag:"config" desc:"configuration file (default: $CRUSH_CONFIG, else built-in defaults)"`
}

// environment is what a command gets after loading configuration.
type environment struct {
	config *config.Config
	logger *slog.Logger
}

// setup loads and validates the configuration named by params, then
// builds the logger it describes.
func (app *App) setup(params globalParams) (*environment, error) {
	var (
		cfg *config.Config
		err error
	)
	if params.Config != "" {
		cfg, err = config.LoadFile(params.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	newLogger := app.NewLogger
	if newLogger == nil {
		newLogger = cli.NewCommandLogger
	}
	logger, err := newLogger(level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &environment{config: cfg, logger: logger}, nil
}

func (app *App) helpRenderer(cfg *config.Config) *help.Renderer {
	return help.New(help.Options{Width: cfg.Help.Width, Color: app.Color})
}

// Root builds and returns the complete crush command tree.
func Root(app *App) *cli.Command {
	return &cli.Command{
		Name: "crush",
		Description: `crush: typed streaming pipelines.

Runs pipelines of built-in commands that pass typed rows to each other.
Pipelines are written as JSONC descriptor files.`,
		HelpOutput: app.Stderr,
		Subcommands: []*cli.Command{
			runCommand(app),
			checkCommand(app),
			listCommand(app),
			helpCommand(app),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Fprintf(app.Stdout, "crush %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
