// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

type jsonReadParams struct {
	Files   []value.Value      `arg:"files" positional:"true" desc:"file to read; binary input when omitted"`
	Columns []value.ColumnType `arg:"col" required:"true" desc:"field name and type, in output order"`
}

func jsonReadCommand() *command.Command {
	return declared(path("io", "json", "read"), &jsonReadParams{}, runJSONRead, command.Unknown(),
		"Read an array of JSON objects as rows",
		"The input is JSON with optional comments and trailing commas. It must be an array of "+
			"objects; each object becomes one row holding the fields named by `col`. An object "+
			"missing a field, or holding a value that does not fit the column type, is reported "+
			"and skipped.")
}

func runJSONRead(ctx *command.Context) error {
	var params jsonReadParams
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
	data, err := io.ReadAll(source.Reader())
	source.Reader().Close()
	if err != nil {
		return joberror.IO("reading %s: %v", source.Name(), err)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()
	token, err := decoder.Token()
	if err != nil {
		return joberror.Parse("json:read: %v", err)
	}
	if delimiter, ok := token.(json.Delim); !ok || delimiter != '[' {
		return joberror.Parse("json:read: expected an array of objects, got %v", token)
	}

	output, err := ctx.Output.Initialize(schema)
	if err != nil {
		return err
	}
	for index := 0; decoder.More(); index++ {
		var object map[string]any
		if err := decoder.Decode(&object); err != nil {
			var typeError *json.UnmarshalTypeError
			if errors.As(err, &typeError) {
				ctx.Printer.JobError(joberror.Parse("json:read: element %d: expected an object, got %s", index, typeError.Value))
				continue
			}
			return joberror.Parse("json:read: element %d: %v", index, err)
		}
		row, err := objectRow(schema, object)
		if err != nil {
			ctx.Printer.JobError(fmt.Errorf("json:read: element %d: %w", index, err))
			continue
		}
		if err := output.Send(row); err != nil {
			return err
		}
	}
	if _, err := decoder.Token(); err != nil {
		return joberror.Parse("json:read: %v", err)
	}
	return nil
}

func objectRow(schema value.Schema, object map[string]any) (value.Row, error) {
	cells := make([]value.Value, schema.Len())
	for i, column := range schema.Columns() {
		native, present := object[column.Name]
		if !present || native == nil {
			return value.Row{}, joberror.Schema("missing field %q", column.Name)
		}
		cell, err := value.FromNative(column.Type, native)
		if err != nil {
			return value.Row{}, fmt.Errorf("field %s: %w", column.Name, err)
		}
		cells[i] = cell
	}
	return value.NewRow(cells...), nil
}
