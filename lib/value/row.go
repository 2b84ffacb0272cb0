// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import "strings"

// Row is one record: cells in the order of its schema's columns. Rows
// are not validated on construction; see [Schema.NewRow].
type Row struct {
	cells []Value
}

// NewRow builds a row from cells. The slice is copied.
func NewRow(cells ...Value) Row {
	copied := make([]Value, len(cells))
	copy(copied, cells)
	return Row{cells: copied}
}

// Len returns the number of cells.
func (r Row) Len() int { return len(r.cells) }

// Cell returns cell i.
func (r Row) Cell(i int) Value { return r.cells[i] }

// Cells returns a copy of the cells.
func (r Row) Cells() []Value {
	copied := make([]Value, len(r.cells))
	copy(copied, r.cells)
	return copied
}

// Project returns a row holding the cells at indices, in order.
func (r Row) Project(indices []int) Row {
	cells := make([]Value, len(indices))
	for i, index := range indices {
		cells[i] = r.cells[index]
	}
	return Row{cells: cells}
}

// Equal reports cell-wise equality.
func (r Row) Equal(other Row) bool {
	if len(r.cells) != len(other.cells) {
		return false
	}
	for i := range r.cells {
		if !Equal(r.cells[i], other.cells[i]) {
			return false
		}
	}
	return true
}

func (r Row) String() string {
	parts := make([]string, len(r.cells))
	for i, cell := range r.cells {
		if cell == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = cell.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
