// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

type csvParams struct {
	Files     []value.Value      `arg:"files" positional:"true" desc:"file to read; binary input when omitted"`
	Columns   []value.ColumnType `arg:"col" required:"true" desc:"column name and type, in field order"`
	Separator value.Char         `arg:"sep" default:"," desc:"field separator"`
	Head      int                `arg:"head" default:"0" desc:"number of leading lines to skip"`
	Trim      value.Char         `arg:"trim" desc:"character stripped from both ends of every field"`
}

func csvCommand() *command.Command {
	return declared(path("io", "csv"), &csvParams{}, runCSV, command.Unknown(),
		"Parse delimited text into typed rows",
		"Reads one file, or the binary data on the input, and splits each line on `sep`. "+
			"Every field is parsed as the type of its `col`. A line with the wrong number of "+
			"fields, or a field that does not parse, is reported and skipped; the remaining "+
			"lines are still read.\n\n"+
			"```\ncsv people.csv col=name:string col=age:integer head=1\n```")
}

func runCSV(ctx *command.Context) error {
	var params csvParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	schema, err := value.NewSchema(params.Columns...)
	if err != nil {
		return err
	}
	source, err := ctx.BinaryInput(params.Files)
	if err != nil {
		return err
	}
	defer source.Reader().Close()

	output, err := ctx.Output.Initialize(schema)
	if err != nil {
		return err
	}

	separator := string(rune(params.Separator))
	trim := string(rune(params.Trim))
	lines := newLineReader(source.Reader())
	for skipped := 0; ; {
		line, err := lines.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if skipped < params.Head {
			skipped++
			continue
		}

		fields := strings.Split(line, separator)
		if params.Trim != 0 {
			for i, field := range fields {
				fields[i] = strings.Trim(field, trim)
			}
		}
		if len(fields) != schema.Len() {
			ctx.Printer.JobError(joberror.Schema("csv: line %d: wrong number of columns, got %d, want %d",
				lines.number, len(fields), schema.Len()))
			continue
		}

		row, err := parseFields(schema, fields)
		if err != nil {
			ctx.Printer.JobError(fmt.Errorf("csv: line %d: %w", lines.number, err))
			continue
		}
		if err := output.Send(row); err != nil {
			return err
		}
	}
}

func parseFields(schema value.Schema, fields []string) (value.Row, error) {
	cells := make([]value.Value, len(fields))
	for i, field := range fields {
		column := schema.Column(i)
		cell, err := column.Type.Parse(field)
		if err != nil {
			return value.Row{}, fmt.Errorf("column %s: %w", column.Name, err)
		}
		cells[i] = cell
	}
	return value.NewRow(cells...), nil
}
