// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

func varCommands() []*command.Command {
	return []*command.Command{
		bindCommand("let", runLet, "Declare a variable in the current scope"),
		bindCommand("set", runSet, "Assign to an existing variable"),
		getCommand(),
	}
}

type bindParams struct {
	Name  string      `arg:"name" positional:"true" required:"true" desc:"variable name"`
	Value value.Value `arg:"value" desc:"value to bind; the input value when omitted"`
}

func bindCommand(name string, run command.Handler, short string) *command.Command {
	return declared(path("var", name), &bindParams{}, run, command.Unknown(), short,
		"Streams cannot be bound; `collect` a column into a list first.")
}

// boundValue returns the value a let or set call binds.
func boundValue(ctx *command.Context, params *bindParams) (value.Value, error) {
	bound := params.Value
	if bound == nil {
		received, err := ctx.InputValue()
		if err != nil {
			return nil, err
		}
		bound = received
	}
	if reference, ok := bound.(value.StreamRef); ok {
		reference.Source.Close()
		return nil, joberror.Type("%s cannot be bound to a variable", bound.Type())
	}
	return bound, nil
}

func runLet(ctx *command.Context) error {
	var params bindParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	bound, err := boundValue(ctx, &params)
	if err != nil {
		return err
	}
	return ctx.Scope.Declare(params.Name, bound)
}

func runSet(ctx *command.Context) error {
	var params bindParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	bound, err := boundValue(ctx, &params)
	if err != nil {
		return err
	}
	return ctx.Scope.Set(params.Name, bound)
}

type getParams struct {
	Name string `arg:"name" positional:"true" required:"true" desc:"variable name"`
}

func getCommand() *command.Command {
	return declared(path("var", "get"), &getParams{}, runGet, command.Unknown(),
		"Output the value bound to a variable", "")
}

func runGet(ctx *command.Context) error {
	var params getParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	bound, found := ctx.Scope.Lookup(params.Name)
	if !found {
		return joberror.Argument("unbound variable %q", params.Name)
	}
	return ctx.Output.Send(bound)
}
