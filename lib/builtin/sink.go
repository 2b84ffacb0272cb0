// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"errors"
	"io"

	"github.com/cxz/crush/lib/binary"
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/stream"
	"github.com/cxz/crush/lib/value"
)

// sink is where a serializing command writes its bytes.
type sink struct {
	io.Writer
	finish func(err error) error
}

// openSink returns a sink for the named file (compressed according to
// its suffix), or, with no file, a pipe whose read end is sent
// downstream as binary data.
func openSink(ctx *command.Context, file value.Value, name string) (*sink, error) {
	if file != nil {
		paths, err := binary.Expand([]value.Value{file}, ctx.WorkDir)
		if err != nil {
			return nil, err
		}
		if len(paths) != 1 {
			return nil, joberror.Argument("expected exactly one output file, %q matched %d", file.String(), len(paths))
		}
		writer, err := binary.Create(paths[0])
		if err != nil {
			return nil, err
		}
		return &sink{Writer: writer, finish: func(err error) error {
			closeErr := writer.Close()
			if err != nil {
				return err
			}
			if closeErr != nil {
				return joberror.IO("closing %s: %v", paths[0], closeErr)
			}
			return nil
		}}, nil
	}

	reader, writer := io.Pipe()
	if err := ctx.Output.Send(value.NewBinaryReader(name, reader)); err != nil {
		return nil, err
	}
	return &sink{Writer: writer, finish: func(err error) error {
		writer.CloseWithError(err)
		if errors.Is(err, io.ErrClosedPipe) {
			// The consumer stopped reading.
			return stream.ErrClosed
		}
		return err
	}}, nil
}
