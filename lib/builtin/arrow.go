// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

// arrowTypeKey is the field metadata key holding the crush type name,
// so chars, globs, and files survive a trip through Arrow strings.
const arrowTypeKey = "crush.type"

// arrowBatchRows is the number of rows per record batch.
const arrowBatchRows = 1024

type arrowWriteParams struct {
	File value.Value `arg:"file" desc:"write to this file instead of sending binary data downstream"`
}

func arrowWriteCommand() *command.Command {
	return declared(path("io", "arrow", "write"), &arrowWriteParams{}, runArrowWrite,
		command.Known(value.TypeBinaryReader),
		"Serialize rows as an Arrow IPC stream",
		"Rows are written in record batches of up to 1024 rows. Columns of kind any, list, "+
			"binary_reader, command, or stream have no Arrow form and are rejected.")
}

func runArrowWrite(ctx *command.Context) error {
	var params arrowWriteParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	input, err := ctx.InputRows()
	if err != nil {
		return err
	}
	schema, err := arrowSchema(input.Schema())
	if err != nil {
		return err
	}
	out, err := openSink(ctx, params.File, "arrow")
	if err != nil {
		return err
	}
	return out.finish(writeArrow(out, schema, input))
}

func arrowType(t value.Type) (arrow.DataType, error) {
	switch t.Kind {
	case value.KindInteger:
		return arrow.PrimitiveTypes.Int64, nil
	case value.KindFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case value.KindBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case value.KindString, value.KindChar, value.KindGlob, value.KindFile:
		return arrow.BinaryTypes.String, nil
	case value.KindBinary:
		return arrow.BinaryTypes.Binary, nil
	case value.KindDuration:
		return arrow.FixedWidthTypes.Duration_ns, nil
	case value.KindTime:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	}
	return nil, joberror.Type("%s values cannot be stored in an Arrow column", t)
}

func arrowSchema(schema value.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, schema.Len())
	for i, column := range schema.Columns() {
		dataType, err := arrowType(column.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", column.Name, err)
		}
		fields[i] = arrow.Field{
			Name:     column.Name,
			Type:     dataType,
			Metadata: arrow.NewMetadata([]string{arrowTypeKey}, []string{column.Type.String()}),
		}
	}
	return arrow.NewSchema(fields, nil), nil
}

func writeArrow(w io.Writer, schema *arrow.Schema, input value.RowSource) error {
	pool := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()
	writer := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(pool))

	pending := 0
	flush := func() error {
		record := builder.NewRecord()
		defer record.Release()
		pending = 0
		if err := writer.Write(record); err != nil {
			return joberror.IO("writing arrow batch: %w", err)
		}
		return nil
	}

	for {
		row, err := input.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writer.Close()
			return err
		}
		for i := range row.Len() {
			appendArrowCell(builder.Field(i), row.Cell(i))
		}
		pending++
		if pending == arrowBatchRows {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if pending > 0 {
		if err := flush(); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return joberror.IO("closing arrow stream: %w", err)
	}
	return nil
}

// appendArrowCell appends cell to the builder arrowType chose for its
// column.
func appendArrowCell(builder array.Builder, cell value.Value) {
	switch typed := cell.(type) {
	case value.Integer:
		builder.(*array.Int64Builder).Append(int64(typed))
	case value.Float:
		builder.(*array.Float64Builder).Append(float64(typed))
	case value.Bool:
		builder.(*array.BooleanBuilder).Append(bool(typed))
	case value.Binary:
		builder.(*array.BinaryBuilder).Append(typed)
	case value.Duration:
		builder.(*array.DurationBuilder).Append(arrow.Duration(typed))
	case value.Time:
		builder.(*array.TimestampBuilder).Append(arrow.Timestamp(time.Time(typed).UnixNano()))
	default:
		builder.(*array.StringBuilder).Append(cell.String())
	}
}

type arrowReadParams struct {
	Files []value.Value `arg:"files" positional:"true" desc:"file to read; binary input when omitted"`
}

func arrowReadCommand() *command.Command {
	return declared(path("io", "arrow", "read"), &arrowReadParams{}, runArrowRead, command.Unknown(),
		"Read rows from an Arrow IPC stream",
		"Integer, floating point, boolean, string, binary, duration, and timestamp columns are "+
			"supported. A row holding a null is reported and skipped.")
}

func runArrowRead(ctx *command.Context) error {
	var params arrowReadParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	source, err := ctx.BinaryInput(params.Files)
	if err != nil {
		return err
	}
	defer source.Reader().Close()

	pool := memory.NewGoAllocator()
	reader, err := ipc.NewReader(source.Reader(), ipc.WithAllocator(pool))
	if err != nil {
		return joberror.Parse("arrow:read: %v", err)
	}
	defer reader.Release()

	schema, err := crushSchema(reader.Schema())
	if err != nil {
		return err
	}
	output, err := ctx.Output.Initialize(schema)
	if err != nil {
		return err
	}

	for reader.Next() {
		record := reader.Record()
		for index := range int(record.NumRows()) {
			row, err := arrowRow(schema, record, index)
			if err != nil {
				ctx.Printer.JobError(fmt.Errorf("arrow:read: %w", err))
				continue
			}
			if err := output.Send(row); err != nil {
				return err
			}
		}
	}
	if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
		return joberror.IO("arrow:read: %v", err)
	}
	return nil
}

func crushSchema(schema *arrow.Schema) (value.Schema, error) {
	columns := make([]value.ColumnType, schema.NumFields())
	for i, field := range schema.Fields() {
		columnType, err := fieldType(field)
		if err != nil {
			return value.Schema{}, fmt.Errorf("arrow field %s: %w", field.Name, err)
		}
		columns[i] = value.Column(field.Name, columnType)
	}
	return value.NewSchema(columns...)
}

func fieldType(field arrow.Field) (value.Type, error) {
	if index := field.Metadata.FindKey(arrowTypeKey); index >= 0 {
		return value.ParseType(field.Metadata.Values()[index])
	}
	switch field.Type.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return value.TypeInteger, nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return value.TypeFloat, nil
	case arrow.BOOL:
		return value.TypeBool, nil
	case arrow.STRING, arrow.LARGE_STRING:
		return value.TypeString, nil
	case arrow.BINARY:
		return value.TypeBinary, nil
	case arrow.DURATION:
		return value.TypeDuration, nil
	case arrow.TIMESTAMP:
		return value.TypeTime, nil
	}
	return value.Type{}, joberror.Type("unsupported arrow type %s", field.Type)
}

func arrowRow(schema value.Schema, record arrow.Record, index int) (value.Row, error) {
	cells := make([]value.Value, schema.Len())
	for i, column := range schema.Columns() {
		cell, err := arrowCell(record.Column(i), index, column.Type)
		if err != nil {
			return value.Row{}, fmt.Errorf("row %d column %s: %w", index, column.Name, err)
		}
		cells[i] = cell
	}
	return value.NewRow(cells...), nil
}

func arrowCell(column arrow.Array, index int, t value.Type) (value.Value, error) {
	if column.IsNull(index) {
		return nil, joberror.Schema("null value")
	}
	switch typed := column.(type) {
	case *array.Int8:
		return value.Integer(typed.Value(index)), nil
	case *array.Int16:
		return value.Integer(typed.Value(index)), nil
	case *array.Int32:
		return value.Integer(typed.Value(index)), nil
	case *array.Int64:
		return value.Integer(typed.Value(index)), nil
	case *array.Float32:
		return value.Float(typed.Value(index)), nil
	case *array.Float64:
		return value.Float(typed.Value(index)), nil
	case *array.Boolean:
		return value.Bool(typed.Value(index)), nil
	case *array.String:
		return t.Parse(typed.Value(index))
	case *array.LargeString:
		return t.Parse(typed.Value(index))
	case *array.Binary:
		raw := typed.Value(index)
		copied := make([]byte, len(raw))
		copy(copied, raw)
		return value.Binary(copied), nil
	case *array.Duration:
		unit := typed.DataType().(*arrow.DurationType).Unit
		return value.Duration(time.Duration(typed.Value(index)) * unit.Multiplier()), nil
	case *array.Timestamp:
		unit := typed.DataType().(*arrow.TimestampType).Unit
		return value.Time(typed.Value(index).ToTime(unit)), nil
	}
	return nil, joberror.Type("unsupported arrow array %s", column.DataType())
}
