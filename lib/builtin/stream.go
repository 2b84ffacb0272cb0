// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"errors"
	"io"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

func streamCommands() []*command.Command {
	return []*command.Command{
		headCommand(),
		whereCommand(),
		selectCommand(),
		uniqCommand(),
		countCommand(),
		collectCommand(),
		hashCommand(),
	}
}

// eachRow calls fn for every row of input until the stream ends or fn
// fails.
func eachRow(input value.RowSource, fn func(row value.Row) error) error {
	for {
		row, err := input.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

type headParams struct {
	Rows int `arg:"rows" positional:"true" default:"10" desc:"number of rows to keep"`
}

func headCommand() *command.Command {
	return declared(path("stream", "head"), &headParams{}, runHead, command.Unknown(),
		"Keep the first rows of a stream",
		"Passes the first `rows` rows through unchanged and then closes its input, so the "+
			"stages feeding it stop producing.")
}

func runHead(ctx *command.Context) error {
	var params headParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	if params.Rows < 0 {
		return joberror.Argument("head: rows must not be negative, got %d", params.Rows)
	}
	input, err := ctx.InputRows()
	if err != nil {
		return err
	}
	output, err := ctx.Output.Initialize(input.Schema())
	if err != nil {
		return err
	}
	for range params.Rows {
		row, err := input.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := output.Send(row); err != nil {
			return err
		}
	}
	return nil
}

type selectParams struct {
	Columns []string `arg:"columns" positional:"true" required:"true" desc:"columns to keep, in output order"`
}

func selectCommand() *command.Command {
	return declared(path("stream", "select"), &selectParams{}, runSelect, command.Unknown(),
		"Keep named columns", "")
}

func runSelect(ctx *command.Context) error {
	var params selectParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	input, err := ctx.InputRows()
	if err != nil {
		return err
	}
	schema, indices, err := input.Schema().Project(params.Columns...)
	if err != nil {
		return err
	}
	output, err := ctx.Output.Initialize(schema)
	if err != nil {
		return err
	}
	return eachRow(input, func(row value.Row) error {
		return output.Send(row.Project(indices))
	})
}

type countParams struct{}

func countCommand() *command.Command {
	return declared(path("stream", "count"), &countParams{}, runCount,
		command.Known(value.TypeInteger),
		"Count the rows of a stream", "")
}

func runCount(ctx *command.Context) error {
	var params countParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	input, err := ctx.InputRows()
	if err != nil {
		return err
	}
	count := 0
	if err := eachRow(input, func(value.Row) error {
		count++
		return nil
	}); err != nil {
		return err
	}
	return ctx.Output.Send(value.Integer(count))
}

type collectParams struct {
	Column string `arg:"column" positional:"true" desc:"column to collect; may be omitted when there is only one"`
}

func collectCommand() *command.Command {
	return declared(path("stream", "collect"), &collectParams{}, runCollect, command.Unknown(),
		"Collect one column into a list",
		"The list's element type is the column's type.")
}

func runCollect(ctx *command.Context) error {
	var params collectParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	input, err := ctx.InputRows()
	if err != nil {
		return err
	}
	schema := input.Schema()
	index := 0
	if params.Column != "" {
		found := false
		if index, found = schema.Index(params.Column); !found {
			return joberror.Argument("collect: unknown column %q (have %s)", params.Column, schema)
		}
	} else if schema.Len() != 1 {
		return joberror.Argument("collect: input has %d columns, name the one to collect", schema.Len())
	}

	var items []value.Value
	if err := eachRow(input, func(row value.Row) error {
		items = append(items, row.Cell(index))
		return nil
	}); err != nil {
		return err
	}
	list, err := value.NewList(schema.Column(index).Type, items...)
	if err != nil {
		return err
	}
	return ctx.Output.Send(list)
}
