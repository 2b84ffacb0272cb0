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
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/help"
	"github.com/cxz/crush/lib/value"
)

type helpParams struct {
	globalParams
}

func helpCommand(app *App) *cli.Command {
	var params helpParams

	return &cli.Command{
		Name:    "help",
		Summary: "Show help for a built-in command or a type's methods",
		Description: `Show the help page of a built-in command, the method table of a value
type, or one method. Commands are found the way a pipeline stage finds
them, so short names work.`,
		Usage: "crush help [flags] <command | type | type:method>",
		Examples: []cli.Example{
			{Description: "Help for the csv reader", Command: "crush help csv"},
			{Description: "Methods of glob values", Command: "crush help glob"},
			{Description: "One method", Command: "crush help glob:match"},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: crush help <command | type | type:method>")
			}
			env, err := app.setup(params.globalParams)
			if err != nil {
				return err
			}
			page, err := helpPage(app.helpRenderer(env.config), builtin.Registry(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(app.Stdout, page)
			return err
		},
	}
}

// helpPage resolves name as a command first, then as a type name, then
// as type:method.
func helpPage(renderer *help.Renderer, registry *command.Registry, name string) (string, error) {
	target, resolveErr := registry.Resolve(nil, strings.Split(name, ":")...)
	if resolveErr == nil {
		return renderer.Command(target), nil
	}

	if t, err := value.ParseType(name); err == nil {
		if table := registry.Methods(t.Kind); table != nil {
			return renderer.Methods(table), nil
		}
		return "", fmt.Errorf("%s values have no methods", t.Kind)
	}

	if typeName, methodName, found := strings.Cut(name, ":"); found {
		if t, err := value.ParseType(typeName); err == nil {
			table := registry.Methods(t.Kind)
			if table == nil {
				return "", fmt.Errorf("%s values have no methods", t.Kind)
			}
			for _, method := range table.All() {
				if method.Name() == methodName {
					return renderer.Command(method), nil
				}
			}
			return "", fmt.Errorf("%s has no method %q (methods: %s)",
				t.Kind, methodName, strings.Join(table.Names(), ", "))
		}
	}

	return "", resolveErr
}
