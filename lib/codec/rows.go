// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

type rowHeader struct {
	Columns []rowColumn `cbor:"columns"`
}

type rowColumn struct {
	Name string `cbor:"name"`
	Type string `cbor:"type"`
}

// RowWriter writes a row sequence.
type RowWriter struct {
	encoder *Encoder
	schema  value.Schema
}

// NewRowWriter writes the header for schema to w and returns a writer
// for the rows. Columns whose type has no wire form (binary readers,
// commands, streams) are rejected.
func NewRowWriter(w io.Writer, schema value.Schema) (*RowWriter, error) {
	header := rowHeader{Columns: make([]rowColumn, schema.Len())}
	for i, column := range schema.Columns() {
		if !wireable(column.Type) {
			return nil, joberror.Type("column %s: %s values cannot be serialized", column.Name, column.Type)
		}
		header.Columns[i] = rowColumn{Name: column.Name, Type: column.Type.String()}
	}
	encoder := NewEncoder(w)
	if err := encoder.Encode(header); err != nil {
		return nil, joberror.IO("writing row header: %w", err)
	}
	return &RowWriter{encoder: encoder, schema: schema}, nil
}

func wireable(t value.Type) bool {
	switch t.Kind {
	case value.KindBinaryReader, value.KindCommand, value.KindStream:
		return false
	case value.KindList:
		if t.Elem == nil {
			return true
		}
		return wireable(*t.Elem)
	}
	return true
}

// Write encodes one row. The row must match the writer's schema.
func (w *RowWriter) Write(row value.Row) error {
	if err := w.schema.Validate(row); err != nil {
		return err
	}
	cells := make([]any, row.Len())
	for i := range row.Len() {
		cells[i] = Cell(row.Cell(i))
	}
	if err := w.encoder.Encode(cells); err != nil {
		return joberror.IO("writing row: %w", err)
	}
	return nil
}

// Cell converts v to its wire form.
func Cell(v value.Value) any {
	switch typed := v.(type) {
	case value.Time, value.Char, value.File, *value.Glob:
		return v.String()
	case value.Duration:
		return int64(typed)
	case *value.List:
		items := make([]any, typed.Len())
		for i := range typed.Len() {
			items[i] = Cell(typed.At(i))
		}
		return items
	}
	return value.Native(v)
}

// RowReader reads a row sequence.
type RowReader struct {
	decoder *Decoder
	schema  value.Schema
}

// NewRowReader reads the header from r.
func NewRowReader(r io.Reader) (*RowReader, error) {
	decoder := NewDecoder(r)
	var header rowHeader
	if err := decoder.Decode(&header); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, joberror.Parse("row sequence is empty (no header)")
		}
		return nil, joberror.Parse("reading row header: %v", err)
	}
	columns := make([]value.ColumnType, len(header.Columns))
	for i, column := range header.Columns {
		columnType, err := value.ParseType(column.Type)
		if err != nil {
			return nil, fmt.Errorf("row header column %s: %w", column.Name, err)
		}
		columns[i] = value.Column(column.Name, columnType)
	}
	schema, err := value.NewSchema(columns...)
	if err != nil {
		return nil, err
	}
	return &RowReader{decoder: decoder, schema: schema}, nil
}

// Schema returns the schema from the header.
func (r *RowReader) Schema() value.Schema { return r.schema }

// Read decodes the next row. Returns io.EOF after the last row. A row
// that decodes but does not fit the schema returns a parse or schema
// error and the reader stays usable; a malformed item is an I/O error.
func (r *RowReader) Read() (value.Row, error) {
	var cells []any
	if err := r.decoder.Decode(&cells); err != nil {
		if errors.Is(err, io.EOF) {
			return value.Row{}, io.EOF
		}
		return value.Row{}, joberror.IO("reading row: %v", err)
	}
	if len(cells) != r.schema.Len() {
		return value.Row{}, joberror.Schema("expected %d cells, got %d", r.schema.Len(), len(cells))
	}
	converted := make([]value.Value, len(cells))
	for i, cell := range cells {
		column := r.schema.Column(i)
		v, err := value.FromNative(column.Type, cell)
		if err != nil {
			return value.Row{}, fmt.Errorf("column %s: %w", column.Name, err)
		}
		converted[i] = v
	}
	return value.NewRow(converted...), nil
}
