// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"github.com/cxz/crush/lib/binary"
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

type openParams struct {
	File value.Value `arg:"file" positional:"true" required:"true" desc:"file to open; a glob must match exactly one file"`
}

func openCommand() *command.Command {
	return declared(path("io", "open"), &openParams{}, runOpen,
		command.Known(value.TypeBinaryReader),
		"Open a file as binary data",
		"Files ending in `.zst` or `.lz4` are decompressed as they are read.")
}

func runOpen(ctx *command.Context) error {
	var params openParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	source, err := ctx.BinaryInput([]value.Value{params.File})
	if err != nil {
		return err
	}
	if err := ctx.Output.Send(source); err != nil {
		source.Reader().Close()
		return err
	}
	return nil
}

type decompressParams struct{}

func decompressCommand(name string, compression binary.Compression) *command.Command {
	run := func(ctx *command.Context) error {
		var params decompressParams
		if err := ctx.Bind(&params); err != nil {
			return err
		}
		source, err := ctx.BinaryInput(nil)
		if err != nil {
			return err
		}
		reader, err := binary.NewDecompressor(source.Reader(), compression)
		if err != nil {
			source.Reader().Close()
			return joberror.IO("%s: %v", source.Name(), err)
		}
		decompressed := value.NewBinaryReader(source.Name()+"|"+name, reader)
		if err := ctx.Output.Send(decompressed); err != nil {
			reader.Close()
			return err
		}
		return nil
	}
	return declared(path("io", name), &decompressParams{}, run,
		command.Known(value.TypeBinaryReader),
		"Decompress "+compression.String()+" binary input", "")
}
