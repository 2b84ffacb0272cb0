// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

func listMethods(table *command.MethodTable) {
	table.Declare(method("list", "len", &noParams{}, runListLen,
		command.Known(value.TypeInteger), "Number of items"))
	table.Declare(method("list", "get", &listGetParams{}, runListGet,
		command.Unknown(), "Item at a zero-based index"))
	table.Declare(method("list", "contains", &listContainsParams{}, runListContains,
		command.Known(value.TypeBool), "True if an item equals the value"))
}

type noParams struct{}

func runListLen(ctx *command.Context) error {
	list, err := command.Receiver[*value.List](ctx, "len")
	if err != nil {
		return err
	}
	var params noParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	return ctx.Output.Send(value.Integer(list.Len()))
}

type listGetParams struct {
	Index int `arg:"index" positional:"true" required:"true" desc:"zero-based position; negative counts from the end"`
}

func runListGet(ctx *command.Context) error {
	list, err := command.Receiver[*value.List](ctx, "get")
	if err != nil {
		return err
	}
	var params listGetParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	index := params.Index
	if index < 0 {
		index += list.Len()
	}
	if index < 0 || index >= list.Len() {
		return joberror.Argument("index %d out of range for a list of %d items", params.Index, list.Len())
	}
	return ctx.Output.Send(list.At(index))
}

type listContainsParams struct {
	Value value.Value `arg:"value" positional:"true" required:"true" desc:"value to look for"`
}

func runListContains(ctx *command.Context) error {
	list, err := command.Receiver[*value.List](ctx, "contains")
	if err != nil {
		return err
	}
	var params listContainsParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	for i := range list.Len() {
		if value.Equal(list.At(i), params.Value) {
			return ctx.Output.Send(value.Bool(true))
		}
	}
	return ctx.Output.Send(value.Bool(false))
}
