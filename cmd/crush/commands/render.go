// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/cxz/crush/lib/codec"
	"github.com/cxz/crush/lib/stream"
	"github.com/cxz/crush/lib/value"
)

// Row output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// columnGap separates table columns.
const columnGap = "  "

// outputRenderer prints whatever the last stage of a job delivers.
type outputRenderer struct {
	writer io.Writer
	format string
	color  bool
}

// render consumes receiver's delivery. Streams print as a table or as
// JSON lines, binary readers are copied through unchanged, and any
// other value prints in its display form.
func (o *outputRenderer) render(receiver *stream.ValueReceiver) error {
	delivered, err := receiver.Recv()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}

	switch v := delivered.(type) {
	case value.StreamRef:
		defer v.Source.Close()
		if o.format == formatJSON {
			return o.jsonLines(v.Source)
		}
		return o.table(v.Source)

	case *value.BinaryReader:
		reader := v.Reader()
		defer reader.Close()
		if _, err := io.Copy(o.writer, reader); err != nil {
			return fmt.Errorf("writing %s: %w", v.Name(), err)
		}
		return nil
	}

	if o.format == formatJSON {
		encoded, err := json.Marshal(codec.Cell(delivered))
		if err != nil {
			return fmt.Errorf("encoding %s: %w", delivered.Type(), err)
		}
		_, err = fmt.Fprintf(o.writer, "%s\n", encoded)
		return err
	}
	_, err = fmt.Fprintln(o.writer, delivered.String())
	return err
}

// jsonLines writes one JSON object per row with keys in column order.
func (o *outputRenderer) jsonLines(source value.RowSource) error {
	columns := source.Schema().Columns()
	keys := make([][]byte, len(columns))
	for index, column := range columns {
		// Marshalling a string cannot fail.
		keys[index], _ = json.Marshal(column.Name)
	}

	var line bytes.Buffer
	for {
		row, err := source.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line.Reset()
		line.WriteByte('{')
		for index := range columns {
			if index > 0 {
				line.WriteByte(',')
			}
			cell, err := json.Marshal(codec.Cell(row.Cell(index)))
			if err != nil {
				return fmt.Errorf("encoding column %s: %w", columns[index].Name, err)
			}
			line.Write(keys[index])
			line.WriteByte(':')
			line.Write(cell)
		}
		line.WriteString("}\n")
		if _, err := o.writer.Write(line.Bytes()); err != nil {
			return err
		}
	}
}

// table reads every row, then prints them aligned under a header. Rows
// read before a failure are still printed.
func (o *outputRenderer) table(source value.RowSource) error {
	columns := source.Schema().Columns()
	header := make([]string, len(columns))
	widths := make([]int, len(columns))
	numeric := make([]bool, len(columns))
	for index, column := range columns {
		header[index] = column.Name
		widths[index] = lipgloss.Width(column.Name)
		switch column.Type.Kind {
		case value.KindInteger, value.KindFloat, value.KindDuration:
			numeric[index] = true
		}
	}

	var (
		rows    [][]string
		readErr error
	)
	for {
		row, err := source.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr = err
			break
		}
		cells := make([]string, len(columns))
		for index := range columns {
			cells[index] = displayCell(row.Cell(index))
			widths[index] = max(widths[index], lipgloss.Width(cells[index]))
		}
		rows = append(rows, cells)
	}

	profile := termenv.Ascii
	if o.color {
		profile = termenv.ANSI256
	}
	styles := lipgloss.NewRenderer(o.writer, termenv.WithProfile(profile))
	styles.SetColorProfile(profile)
	headerStyle := styles.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))

	var out strings.Builder
	o.writeLine(&out, header, widths, numeric, &headerStyle)
	for _, cells := range rows {
		o.writeLine(&out, cells, widths, numeric, nil)
	}
	if _, err := io.WriteString(o.writer, out.String()); err != nil {
		return err
	}
	return readErr
}

// writeLine pads each cell to its column width. Padding is computed on
// the unstyled text so escapes never skew alignment.
func (o *outputRenderer) writeLine(out *strings.Builder, cells []string, widths []int, numeric []bool, style *lipgloss.Style) {
	for index, cell := range cells {
		padding := strings.Repeat(" ", widths[index]-lipgloss.Width(cell))
		if style != nil {
			cell = style.Render(cell)
		}
		last := index == len(cells)-1
		switch {
		case numeric[index] && style == nil:
			out.WriteString(padding + cell)
		case last:
			out.WriteString(cell)
		default:
			out.WriteString(cell + padding)
		}
		if !last {
			out.WriteString(columnGap)
		}
	}
	out.WriteString("\n")
}

// displayCell is the one-line display form of a cell.
func displayCell(v value.Value) string {
	return strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(v.String())
}
