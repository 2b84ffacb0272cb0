// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"errors"
	"io"

	"github.com/cxz/crush/lib/codec"
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

type cborWriteParams struct {
	File value.Value `arg:"file" desc:"write to this file instead of sending binary data downstream"`
}

func cborWriteCommand() *command.Command {
	return declared(path("io", "cbor", "write"), &cborWriteParams{}, runCBORWrite,
		command.Known(value.TypeBinaryReader),
		"Serialize rows as a CBOR sequence",
		"Writes a header describing the columns followed by one CBOR array per row, using "+
			"deterministic encoding. With `file` the bytes go to that file (`.zst` and `.lz4` "+
			"suffixes compress) and nothing is sent downstream.")
}

func runCBORWrite(ctx *command.Context) error {
	var params cborWriteParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	input, err := ctx.InputRows()
	if err != nil {
		return err
	}
	out, err := openSink(ctx, params.File, "cbor")
	if err != nil {
		return err
	}
	return out.finish(writeCBOR(out, input))
}

func writeCBOR(w io.Writer, input value.RowSource) error {
	writer, err := codec.NewRowWriter(w, input.Schema())
	if err != nil {
		return err
	}
	for {
		row, err := input.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
}

type cborReadParams struct {
	Files []value.Value `arg:"files" positional:"true" desc:"file to read; binary input when omitted"`
}

func cborReadCommand() *command.Command {
	return declared(path("io", "cbor", "read"), &cborReadParams{}, runCBORRead, command.Unknown(),
		"Read rows from a CBOR sequence",
		"Reads the format written by `cbor:write`. The schema comes from the header. A row "+
			"that does not fit the schema is reported and skipped.")
}

func runCBORRead(ctx *command.Context) error {
	var params cborReadParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	source, err := ctx.BinaryInput(params.Files)
	if err != nil {
		return err
	}
	defer source.Reader().Close()

	reader, err := codec.NewRowReader(source.Reader())
	if err != nil {
		return err
	}
	output, err := ctx.Output.Initialize(reader.Schema())
	if err != nil {
		return err
	}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if joberror.Is(err, joberror.KindIO) {
			return err
		}
		if err != nil {
			ctx.Printer.JobError(err)
			continue
		}
		if err := output.Send(row); err != nil {
			return err
		}
	}
}
