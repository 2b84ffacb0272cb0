// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/cxz/crush/lib/binary"
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

// lineReader splits a byte stream into lines without their terminator.
// A final line with no newline is still returned.
type lineReader struct {
	reader *bufio.Reader
	number int
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{reader: bufio.NewReader(r)}
}

// next returns the next line, or io.EOF after the last one.
func (l *lineReader) next() (string, error) {
	line, err := l.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", joberror.IO("reading line %d: %v", l.number+1, err)
	}
	if line == "" && err != nil {
		return "", io.EOF
	}
	l.number++
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

var lineSchema = value.MustSchema(value.Column("line", value.TypeString))

type linesParams struct {
	Files []value.Value `arg:"files" positional:"true" desc:"files to read; binary input when omitted"`
}

func linesCommand() *command.Command {
	return declared(path("io", "lines"), &linesParams{}, runLines,
		command.Known(value.StreamOf(lineSchema)),
		"Split binary data into lines",
		"Emits one `line` row per line of input. Files given as arguments are read in order; "+
			"with no arguments the binary data on the input is read. Line terminators (`\\n` or `\\r\\n`) are removed.")
}

func runLines(ctx *command.Context) error {
	var params linesParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	paths, piped, err := ctx.BinaryInputs(params.Files)
	if err != nil {
		return err
	}
	output, err := ctx.Output.Initialize(lineSchema)
	if err != nil {
		if piped != nil {
			piped.Reader().Close()
		}
		return err
	}

	emit := func(source *value.BinaryReader) error {
		defer source.Reader().Close()
		lines := newLineReader(source.Reader())
		for {
			line, err := lines.next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := output.Send(value.NewRow(value.Text(line))); err != nil {
				return err
			}
		}
	}

	if piped != nil {
		return emit(piped)
	}
	for _, file := range paths {
		source, err := binary.Open(file)
		if err != nil {
			return err
		}
		if err := emit(source); err != nil {
			return err
		}
	}
	return nil
}
