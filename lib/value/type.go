// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"strings"

	"github.com/cxz/crush/lib/joberror"
)

// Kind is the tag of a value or type.
type Kind uint8

const (
	KindAny Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindString
	KindChar
	KindBinary
	KindGlob
	KindFile
	KindDuration
	KindTime
	KindList
	KindBinaryReader
	KindCommand
	KindStream
)

var kindNames = [...]string{
	KindAny:          "any",
	KindInteger:      "integer",
	KindFloat:        "float",
	KindBool:         "bool",
	KindString:       "string",
	KindChar:         "char",
	KindBinary:       "binary",
	KindGlob:         "glob",
	KindFile:         "file",
	KindDuration:     "duration",
	KindTime:         "time",
	KindList:         "list",
	KindBinaryReader: "binary_reader",
	KindCommand:      "command",
	KindStream:       "stream",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scalar reports whether values of this kind have a text form that
// [Type.Parse] accepts.
func (k Kind) Scalar() bool {
	switch k {
	case KindInteger, KindFloat, KindBool, KindString, KindChar, KindBinary,
		KindGlob, KindFile, KindDuration, KindTime:
		return true
	}
	return false
}

// Type describes the type of a value. Elem is set only for lists.
// Columns is set only for streams whose schema is statically known; a
// stream type with nil Columns accepts any schema.
type Type struct {
	Kind    Kind
	Elem    *Type
	Columns []ColumnType
}

var (
	TypeAny          = Type{Kind: KindAny}
	TypeInteger      = Type{Kind: KindInteger}
	TypeFloat        = Type{Kind: KindFloat}
	TypeBool         = Type{Kind: KindBool}
	TypeString       = Type{Kind: KindString}
	TypeChar         = Type{Kind: KindChar}
	TypeBinary       = Type{Kind: KindBinary}
	TypeGlob         = Type{Kind: KindGlob}
	TypeFile         = Type{Kind: KindFile}
	TypeDuration     = Type{Kind: KindDuration}
	TypeTime         = Type{Kind: KindTime}
	TypeBinaryReader = Type{Kind: KindBinaryReader}
	TypeCommand      = Type{Kind: KindCommand}
	TypeStream       = Type{Kind: KindStream}
)

// ListOf returns the type "list of elem".
func ListOf(elem Type) Type {
	return Type{Kind: KindList, Elem: &elem}
}

// StreamOf returns a stream type whose rows follow schema.
func StreamOf(schema Schema) Type {
	return Type{Kind: KindStream, Columns: schema.Columns()}
}

// Schema returns the row schema of a stream type, if known.
func (t Type) Schema() (Schema, bool) {
	if t.Kind != KindStream || t.Columns == nil {
		return Schema{}, false
	}
	return Schema{columns: t.Columns}, true
}

// String returns the type name in the form ParseType accepts.
func (t Type) String() string {
	switch t.Kind {
	case KindList:
		if t.Elem == nil {
			return "list<any>"
		}
		return "list<" + t.Elem.String() + ">"
	case KindStream:
		if t.Columns == nil {
			return "stream"
		}
		parts := make([]string, len(t.Columns))
		for i, column := range t.Columns {
			parts[i] = column.String()
		}
		return "stream<" + strings.Join(parts, ",") + ">"
	}
	return t.Kind.String()
}

// Equal reports whether t and other describe exactly the same type.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindList:
		return t.elem().Equal(other.elem())
	case KindStream:
		if (t.Columns == nil) != (other.Columns == nil) {
			return false
		}
		return columnsEqual(t.Columns, other.Columns)
	}
	return true
}

// Accepts reports whether a value of type other may be stored where t is
// declared. Any accepts everything; lists accept lists whose element type
// is accepted; a stream with unknown columns accepts every stream.
func (t Type) Accepts(other Type) bool {
	if t.Kind == KindAny {
		return true
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindList:
		return t.elem().Accepts(other.elem())
	case KindStream:
		if t.Columns == nil {
			return true
		}
		return other.Columns != nil && columnsEqual(t.Columns, other.Columns)
	}
	return true
}

func (t Type) elem() Type {
	if t.Elem == nil {
		return TypeAny
	}
	return *t.Elem
}

// ParseType parses a type name. Besides the kind names it accepts
// "text" as an alias for "string", "list<T>" for any type T, and
// "stream<name:type,...>" for a stream with known columns.
func ParseType(name string) (Type, error) {
	name = strings.TrimSpace(name)
	if inner, ok := parameterized(name, "list"); ok {
		elem, err := ParseType(inner)
		if err != nil {
			return Type{}, err
		}
		return ListOf(elem), nil
	}
	if inner, ok := parameterized(name, "stream"); ok {
		var columns []ColumnType
		for _, spec := range splitTopLevel(inner) {
			column, err := ParseColumn(spec)
			if err != nil {
				return Type{}, err
			}
			columns = append(columns, column)
		}
		schema, err := NewSchema(columns...)
		if err != nil {
			return Type{}, err
		}
		return StreamOf(schema), nil
	}
	if name == "text" {
		return TypeString, nil
	}
	for kind, kindName := range kindNames {
		if kindName == name {
			return Type{Kind: Kind(kind)}, nil
		}
	}
	return Type{}, joberror.Type("unknown type %q", name)
}

// parameterized extracts T from "prefix<T>".
func parameterized(name, prefix string) (string, bool) {
	if !strings.HasPrefix(name, prefix+"<") || !strings.HasSuffix(name, ">") {
		return "", false
	}
	return name[len(prefix)+1 : len(name)-1], true
}

// splitTopLevel splits on commas that are not nested inside <>.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for index, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:index])
				start = index + 1
			}
		}
	}
	if tail := s[start:]; strings.TrimSpace(tail) != "" || len(parts) > 0 {
		parts = append(parts, tail)
	}
	return parts
}

func columnsEqual(a, b []ColumnType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Type.Equal(b[i].Type) {
			return false
		}
	}
	return true
}
