// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cxz/crush/cmd/crush/cli"
	"github.com/cxz/crush/lib/builtin"
	"github.com/cxz/crush/lib/pipeline"
	"github.com/cxz/crush/lib/printer"
	"github.com/cxz/crush/lib/scope"
	"github.com/cxz/crush/lib/value"
)

type runParams struct {
	globalParams
	Set    []string `flag:"set" repeatable:"true" desc:"set a pipeline variable NAME=VALUE (repeatable)"`
	Format string   `flag:"format" default:"table" desc:"row output format: table or json"`
	Input  string   `flag:"input" desc:"file given to the first stage as binary input (- for stdin)"`
}

func runCommand(app *App) *cli.Command {
	var params runParams

	return &cli.Command{
		Name:    "run",
		Summary: "Run a pipeline descriptor",
		Description: `Run the stages of a JSONC pipeline descriptor and print the output of
the last stage.

Variables resolve from their declared defaults, then the environment,
then --set. Each stage runs concurrently and passes rows to the next
through a bounded stream (stream.capacity in the configuration).

Rows that fail to parse or convert are reported on stderr and skipped;
the pipeline keeps going. A stage that fails outright stops the
pipeline and the command exits with status 1.`,
		Usage: "crush run [flags] <descriptor.jsonc>",
		Examples: []cli.Example{
			{
				Description: "Run a pipeline, overriding its INPUT variable",
				Command:     "crush run adults.jsonc --set INPUT=census.csv",
			},
			{
				Description: "Feed standard input to the first stage",
				Command:     "zcat people.csv.gz | crush run adults.jsonc --input -",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: crush run [flags] <descriptor.jsonc>")
			}
			if params.Format != formatTable && params.Format != formatJSON {
				return fmt.Errorf("--format must be %s or %s, got %q", formatTable, formatJSON, params.Format)
			}
			env, err := app.setup(params.globalParams)
			if err != nil {
				return err
			}
			return app.runDescriptor(args[0], params, env)
		},
	}
}

func (app *App) runDescriptor(path string, params runParams, env *environment) error {
	logger := env.logger.With("pipeline", pipeline.NameFromPath(path))

	descriptor, err := pipeline.ReadDescriptor(path)
	if err != nil {
		return err
	}
	if issues := pipeline.Validate(descriptor); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(app.Stderr, "  - %s\n", issue)
		}
		return fmt.Errorf("%s: %d validation issue(s) found", path, len(issues))
	}

	payload, err := parseAssignments(params.Set)
	if err != nil {
		return err
	}
	variables, err := pipeline.ResolveVariables(descriptor.Variables, payload, os.Getenv)
	if err != nil {
		return err
	}
	sc := scope.New()
	if err := pipeline.DeclareVariables(sc, descriptor.Variables, variables); err != nil {
		return err
	}
	stages, err := descriptor.Stages(sc, variables)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	options := pipeline.Options{
		Capacity: env.config.Stream.Capacity,
		Logger:   logger,
		WorkDir:  env.config.Paths.WorkDir,
	}
	if params.Input != "" {
		input, err := app.openInput(params.Input)
		if err != nil {
			return err
		}
		options.Input = input
	}

	diagnostics := printer.New(app.Stderr, logger)
	defer diagnostics.Close()

	job, err := pipeline.Build(builtin.Registry(), sc, diagnostics, stages, options)
	if err != nil {
		if reader, ok := options.Input.(*value.BinaryReader); ok {
			reader.Reader().Close()
		}
		// Build reported the error through the printer.
		return &cli.ExitError{Code: 1}
	}
	if err := job.Start(); err != nil {
		return err
	}
	logger.Debug("pipeline started", "stages", job.Len())

	output := &outputRenderer{writer: app.Stdout, format: params.Format, color: app.Color}
	renderErr := output.render(job.Output())
	job.Output().Close()

	if err := job.Wait(); err != nil {
		// The job reported its failure through the printer.
		return &cli.ExitError{Code: 1}
	}
	logger.Debug("pipeline finished", "diagnostics", diagnostics.Count())
	return renderErr
}

func (app *App) openInput(name string) (*value.BinaryReader, error) {
	if name == "-" {
		return value.NewBinaryReader("stdin", io.NopCloser(app.Stdin)), nil
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening --input: %w", err)
	}
	return value.NewBinaryReader(name, file), nil
}

// parseAssignments turns NAME=VALUE arguments into a map.
func parseAssignments(assignments []string) (map[string]string, error) {
	result := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		name, assigned, found := strings.Cut(assignment, "=")
		if !found {
			return nil, fmt.Errorf("invalid --set %q: expected NAME=VALUE", assignment)
		}
		if name == "" {
			return nil, fmt.Errorf("invalid --set %q: empty name", assignment)
		}
		result[name] = assigned
	}
	return result, nil
}
