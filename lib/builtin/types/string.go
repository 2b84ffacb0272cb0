// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"strings"
	"unicode/utf8"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/value"
)

func stringMethods(table *command.MethodTable) {
	table.Declare(method("string", "upper", &noParams{}, runStringUpper,
		command.Known(value.TypeString), "Upper case copy"))
	table.Declare(method("string", "lower", &noParams{}, runStringLower,
		command.Known(value.TypeString), "Lower case copy"))
	table.Declare(method("string", "split", &stringSplitParams{}, runStringSplit,
		command.Known(value.ListOf(value.TypeString)), "Split around a separator"))
	table.Declare(method("string", "len", &noParams{}, runStringLen,
		command.Known(value.TypeInteger), "Number of characters"))
}

// stringReceiver binds a parameterless string method.
func stringReceiver(ctx *command.Context, name string) (string, error) {
	text, err := command.Receiver[value.Text](ctx, name)
	if err != nil {
		return "", err
	}
	var params noParams
	if err := ctx.Bind(&params); err != nil {
		return "", err
	}
	return string(text), nil
}

func runStringUpper(ctx *command.Context) error {
	text, err := stringReceiver(ctx, "upper")
	if err != nil {
		return err
	}
	return ctx.Output.Send(value.Text(strings.ToUpper(text)))
}

func runStringLower(ctx *command.Context) error {
	text, err := stringReceiver(ctx, "lower")
	if err != nil {
		return err
	}
	return ctx.Output.Send(value.Text(strings.ToLower(text)))
}

func runStringLen(ctx *command.Context) error {
	text, err := stringReceiver(ctx, "len")
	if err != nil {
		return err
	}
	return ctx.Output.Send(value.Integer(utf8.RuneCountInString(text)))
}

type stringSplitParams struct {
	Separator string `arg:"separator" positional:"true" required:"true" desc:"separator text"`
}

func runStringSplit(ctx *command.Context) error {
	text, err := command.Receiver[value.Text](ctx, "split")
	if err != nil {
		return err
	}
	var params stringSplitParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	parts := strings.Split(string(text), params.Separator)
	items := make([]value.Value, len(parts))
	for i, part := range parts {
		items[i] = value.Text(part)
	}
	list, err := value.NewList(value.TypeString, items...)
	if err != nil {
		return err
	}
	return ctx.Output.Send(list)
}
