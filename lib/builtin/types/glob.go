// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/value"
)

type globNewParams struct {
	Pattern string `arg:"pattern" positional:"true" required:"true" desc:"pattern using * and ?"`
}

func globNewCommand() *command.Command {
	return method("glob", "new", &globNewParams{}, runGlobNew,
		command.Known(value.TypeGlob), "Return a new glob")
}

func runGlobNew(ctx *command.Context) error {
	var params globNewParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	glob, err := value.NewGlob(params.Pattern)
	if err != nil {
		return err
	}
	return ctx.Output.Send(glob)
}

func globMethods(table *command.MethodTable) {
	table.Declare(method("glob", "match", &globMatchParams{}, runGlobMatch,
		command.Known(value.TypeBool), "True if the text matches the pattern"))
	table.Declare(method("glob", "not_match", &globMatchParams{}, runGlobNotMatch,
		command.Known(value.TypeBool), "True if the text does not match the pattern"))
	table.Declare(method("glob", "files", &globFilesParams{}, runGlobFiles,
		command.Known(value.ListOf(value.TypeFile)), "List the files the glob matches"))
}

type globMatchParams struct {
	Text string `arg:"text" positional:"true" required:"true" desc:"text to match"`
}

func globMatch(ctx *command.Context, name string, want bool) error {
	glob, err := command.Receiver[*value.Glob](ctx, name)
	if err != nil {
		return err
	}
	var params globMatchParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	return ctx.Output.Send(value.Bool(glob.Match(params.Text) == want))
}

func runGlobMatch(ctx *command.Context) error {
	return globMatch(ctx, "match", true)
}

func runGlobNotMatch(ctx *command.Context) error {
	return globMatch(ctx, "not_match", false)
}

type globFilesParams struct{}

func runGlobFiles(ctx *command.Context) error {
	glob, err := command.Receiver[*value.Glob](ctx, "files")
	if err != nil {
		return err
	}
	var params globFilesParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	root := ctx.WorkDir
	if root == "" {
		root = "."
	}
	files, err := glob.Files(root)
	if err != nil {
		return err
	}
	items := make([]value.Value, len(files))
	for i, file := range files {
		items[i] = file
	}
	list, err := value.NewList(value.TypeFile, items...)
	if err != nil {
		return err
	}
	return ctx.Output.Send(list)
}
