// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

func fileMethods(table *command.MethodTable) {
	table.Declare(method("file", "exists", &noParams{}, runFileExists,
		command.Known(value.TypeBool), "True if the file exists"))
	table.Declare(method("file", "name", &noParams{}, runFileName,
		command.Known(value.TypeString), "Last element of the path"))
}

func fileReceiver(ctx *command.Context, name string) (string, error) {
	file, err := command.Receiver[value.File](ctx, name)
	if err != nil {
		return "", err
	}
	var params noParams
	if err := ctx.Bind(&params); err != nil {
		return "", err
	}
	path := string(file)
	if ctx.WorkDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(ctx.WorkDir, path)
	}
	return path, nil
}

func runFileExists(ctx *command.Context) error {
	path, err := fileReceiver(ctx, "exists")
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return ctx.Output.Send(value.Bool(true))
	case errors.Is(err, fs.ErrNotExist):
		return ctx.Output.Send(value.Bool(false))
	default:
		return joberror.IO("%v", err)
	}
}

func runFileName(ctx *command.Context) error {
	path, err := fileReceiver(ctx, "name")
	if err != nil {
		return err
	}
	return ctx.Output.Send(value.Text(filepath.Base(path)))
}
