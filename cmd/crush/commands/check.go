// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cxz/crush/cmd/crush/cli"
	"github.com/cxz/crush/lib/builtin"
	"github.com/cxz/crush/lib/pipeline"
)

func checkCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "check",
		Summary: "Validate a pipeline descriptor without running it",
		Description: `Validate a pipeline descriptor. Checks that the JSONC is well-formed,
that every stage names either a command or a receiver and method,
that every argument decodes to a value, that variable declarations
are valid, and that every command name resolves to a built-in.

Descriptor files use JSONC: JSON extended with // line comments,
/* block comments */, and trailing commas.`,
		Usage: "crush check <descriptor.jsonc>",
		Examples: []cli.Example{
			{
				Description: "Validate a pipeline definition",
				Command:     "crush check adults.jsonc",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: crush check <descriptor.jsonc>")
			}
			path := args[0]

			descriptor, err := pipeline.ReadDescriptor(path)
			if err != nil {
				return err
			}

			issues := pipeline.Validate(descriptor)
			issues = append(issues, unresolvedCommands(descriptor)...)
			if len(issues) > 0 {
				for _, issue := range issues {
					fmt.Fprintf(app.Stderr, "  - %s\n", issue)
				}
				return fmt.Errorf("%s: %d validation issue(s) found", path, len(issues))
			}

			logger.Debug("descriptor valid", "path", path, "stages", len(descriptor.Entries))
			fmt.Fprintf(app.Stdout, "%s: valid\n", path)
			return nil
		},
	}
}

// unresolvedCommands lists command stages whose names no built-in
// answers to. A scope binding made by an earlier stage could still
// supply such a name at run time; descriptors cannot make those.
func unresolvedCommands(descriptor *pipeline.Descriptor) []string {
	registry := builtin.Registry()
	var issues []string
	for index, entry := range descriptor.Entries {
		if entry.Command == "" {
			continue
		}
		if _, err := registry.Resolve(nil, strings.Split(entry.Command, ":")...); err != nil {
			issues = append(issues, fmt.Sprintf("stages[%d] %q: %v", index, entry.Command, err))
		}
	}
	return issues
}
