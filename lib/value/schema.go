// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"strings"

	"github.com/cxz/crush/lib/joberror"
)

// ColumnType names and types one column of a schema.
type ColumnType struct {
	Name string
	Type Type
}

// Column is shorthand for a ColumnType literal.
func Column(name string, t Type) ColumnType {
	return ColumnType{Name: name, Type: t}
}

// ParseColumn parses a "name:type" column description.
func ParseColumn(spec string) (ColumnType, error) {
	name, typeName, found := strings.Cut(strings.TrimSpace(spec), ":")
	if !found || name == "" || typeName == "" {
		return ColumnType{}, joberror.Argument(
			"expected a column description on the form name:type, got %q", spec)
	}
	columnType, err := ParseType(typeName)
	if err != nil {
		return ColumnType{}, err
	}
	return ColumnType{Name: name, Type: columnType}, nil
}

func (c ColumnType) String() string {
	return c.Name + ":" + c.Type.String()
}

// Schema is an ordered list of uniquely named columns. The zero Schema
// has no columns. A Schema is immutable: accessors return copies.
type Schema struct {
	columns []ColumnType
}

// NewSchema builds a schema, rejecting empty or duplicate column names.
func NewSchema(columns ...ColumnType) (Schema, error) {
	seen := make(map[string]int, len(columns))
	for index, column := range columns {
		if column.Name == "" {
			return Schema{}, joberror.Schema("column %d has no name", index)
		}
		if first, exists := seen[column.Name]; exists {
			return Schema{}, joberror.Schema("duplicate column %q (columns %d and %d)",
				column.Name, first, index)
		}
		seen[column.Name] = index
	}
	copied := make([]ColumnType, len(columns))
	copy(copied, columns)
	return Schema{columns: copied}, nil
}

// MustSchema is NewSchema for statically known column lists. Panics on
// invalid input (programming error, not runtime data).
func MustSchema(columns ...ColumnType) Schema {
	schema, err := NewSchema(columns...)
	if err != nil {
		panic("value.MustSchema: " + err.Error())
	}
	return schema
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.columns) }

// Column returns column i.
func (s Schema) Column(i int) ColumnType { return s.columns[i] }

// Columns returns a copy of the column list.
func (s Schema) Columns() []ColumnType {
	copied := make([]ColumnType, len(s.columns))
	copy(copied, s.columns)
	return copied
}

// Index returns the position of the named column.
func (s Schema) Index(name string) (int, bool) {
	for index, column := range s.columns {
		if column.Name == name {
			return index, true
		}
	}
	return -1, false
}

// Equal reports exact compatibility: same count, order, names, and types.
func (s Schema) Equal(other Schema) bool {
	return columnsEqual(s.columns, other.columns)
}

func (s Schema) String() string {
	parts := make([]string, len(s.columns))
	for i, column := range s.columns {
		parts[i] = column.String()
	}
	return strings.Join(parts, ", ")
}

// Validate checks row arity and that each cell is assignable to its
// column's declared type.
func (s Schema) Validate(row Row) error {
	if len(row.cells) != len(s.columns) {
		return joberror.Schema("row has %d cells, schema %q has %d columns",
			len(row.cells), s.String(), len(s.columns))
	}
	for index, cell := range row.cells {
		column := s.columns[index]
		if cell == nil {
			return joberror.Schema("column %q: missing cell", column.Name)
		}
		if !column.Type.Accepts(cell.Type()) {
			return joberror.Schema("column %q: expected %s, got %s",
				column.Name, column.Type, cell.Type())
		}
	}
	return nil
}

// NewRow builds a row and validates it against s.
func (s Schema) NewRow(cells ...Value) (Row, error) {
	row := NewRow(cells...)
	if err := s.Validate(row); err != nil {
		return Row{}, err
	}
	return row, nil
}

// Project returns the schema restricted to the named columns, in the
// given order, and the source index of each.
func (s Schema) Project(names ...string) (Schema, []int, error) {
	indices := make([]int, len(names))
	columns := make([]ColumnType, len(names))
	for i, name := range names {
		index, found := s.Index(name)
		if !found {
			return Schema{}, nil, joberror.Schema("unknown column %q (have %s)", name, s.String())
		}
		indices[i] = index
		columns[i] = s.columns[index]
	}
	projected, err := NewSchema(columns...)
	if err != nil {
		return Schema{}, nil, err
	}
	return projected, indices, nil
}
