// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"io"
	"log/slog"

	"github.com/cxz/crush/lib/binary"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/printer"
	"github.com/cxz/crush/lib/scope"
	"github.com/cxz/crush/lib/stream"
	"github.com/cxz/crush/lib/value"
)

// Context is everything one invocation of a command receives. A
// Context belongs to a single invocation and is not shared.
type Context struct {
	Arguments Arguments

	// Input is the output of the previous stage. The first stage of a
	// pipeline receives a closed input.
	Input *stream.ValueReceiver

	// Output is where the command delivers its single value or its
	// stream.
	Output *stream.ValueSender

	Scope *scope.Scope

	// This is the receiver of a method call, nil for plain commands.
	This value.Value

	Printer  *printer.Printer
	Logger   *slog.Logger
	Registry *Registry

	// WorkDir is the directory relative file operands resolve against.
	// Empty means the process working directory.
	WorkDir string
}

// Bind decodes the call's arguments into params. See [Bind].
func (c *Context) Bind(params any) error {
	return Bind(c.Arguments, params)
}

// InputRows receives the input and requires it to be a stream.
func (c *Context) InputRows() (value.RowSource, error) {
	return c.Input.Rows()
}

// InputValue receives the input value. A finished producer that sent
// nothing is an argument error: the command needed input.
func (c *Context) InputValue() (value.Value, error) {
	received, err := c.Input.Recv()
	if errors.Is(err, io.EOF) {
		return nil, joberror.Argument("expected a value on the input, got nothing")
	}
	return received, err
}

// BinaryInput picks the single binary source of a command that reads
// bytes. With no operands the pipeline input must be a binary reader.
// One operand is opened (a glob must match exactly one file). More than
// one source is an argument error.
func (c *Context) BinaryInput(operands []value.Value) (*value.BinaryReader, error) {
	switch len(operands) {
	case 0:
		received, err := c.InputValue()
		if err != nil {
			return nil, err
		}
		reader, ok := received.(*value.BinaryReader)
		if !ok {
			return nil, joberror.Type("expected binary data on the input, got %s", received.Type())
		}
		return reader, nil
	case 1:
		paths, err := binary.Expand(operands, c.WorkDir)
		if err != nil {
			return nil, err
		}
		if len(paths) != 1 {
			return nil, joberror.Argument("expected exactly one input file, %q matched %d", operands[0].String(), len(paths))
		}
		return binary.Open(paths[0])
	}
	return nil, joberror.Argument("expected at most one input file, got %d", len(operands))
}

// BinaryInputs is BinaryInput for commands that accept several files.
// With no operands it returns the binary reader on the input; otherwise
// it returns the expanded paths for the caller to open in turn.
func (c *Context) BinaryInputs(operands []value.Value) ([]string, *value.BinaryReader, error) {
	if len(operands) == 0 {
		reader, err := c.BinaryInput(nil)
		return nil, reader, err
	}
	paths, err := binary.Expand(operands, c.WorkDir)
	if err != nil {
		return nil, nil, err
	}
	return paths, nil, nil
}

// Receiver returns This as a T, or a type error naming the method.
func Receiver[T value.Value](c *Context, method string) (T, error) {
	typed, ok := c.This.(T)
	if !ok {
		var zero T
		kind := "nothing"
		if c.This != nil {
			kind = c.This.Type().String()
		}
		return zero, joberror.Type("method %s called on %s", method, kind)
	}
	return typed, nil
}
