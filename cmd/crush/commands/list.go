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
)

type listParams struct {
	globalParams
}

func listCommand(app *App) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "commands",
		Summary: "List built-in commands, optionally fuzzy-filtered",
		Description: `List the built-in commands by the short name a pipeline stage uses.
With a pattern, commands are fuzzy-matched against it and ordered by
match quality; matched characters are highlighted on a terminal.`,
		Usage: "crush commands [flags] [pattern]",
		Examples: []cli.Example{
			{
				Description: "Find the CBOR reader",
				Command:     "crush commands cbrd",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 1 {
				return fmt.Errorf("usage: crush commands [pattern]")
			}
			env, err := app.setup(params.globalParams)
			if err != nil {
				return err
			}
			pattern := strings.Join(args, "")

			results := builtin.Registry().Search(pattern)
			if len(results) == 0 {
				return fmt.Errorf("no command matches %q", pattern)
			}
			_, err = fmt.Fprint(app.Stdout, app.helpRenderer(env.config).Index(results))
			return err
		},
	}
}
