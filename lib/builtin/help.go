// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/value"
)

func helpCommands() []*command.Command {
	return []*command.Command{commandsCommand()}
}

var commandsSchema = value.MustSchema(
	value.Column("name", value.TypeString),
	value.Column("signature", value.TypeString),
	value.Column("summary", value.TypeString),
)

type commandsParams struct {
	Pattern string `arg:"pattern" positional:"true" desc:"fuzzy pattern matched against command names"`
}

func commandsCommand() *command.Command {
	return declared(path("help", "commands"), &commandsParams{}, runCommands,
		command.Known(value.StreamOf(commandsSchema)),
		"List commands",
		"With a pattern, lists the commands whose short name fuzzy-matches it, best match first.")
}

func runCommands(ctx *command.Context) error {
	var params commandsParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	output, err := ctx.Output.Initialize(commandsSchema)
	if err != nil {
		return err
	}
	for _, result := range ctx.Registry.Search(params.Pattern) {
		row := value.NewRow(
			value.Text(result.Name),
			value.Text(result.Command.Signature),
			value.Text(result.Command.Short),
		)
		if err := output.Send(row); err != nil {
			return err
		}
	}
	return nil
}
