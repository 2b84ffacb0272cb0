// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"io"
	"strconv"
	"strings"
	"time"
)

// Value is a runtime value. The set of implementations is closed to this
// package.
type Value interface {
	// Type returns the runtime type of the value.
	Type() Type

	// String returns the stable display form used in diagnostics. For
	// scalar kinds it is the text Type.Parse accepts.
	String() string

	sealed()
}

// Integer is a signed 64-bit integer.
type Integer int64

func (Integer) Type() Type       { return TypeInteger }
func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }
func (Integer) sealed()          {}

// Float is a 64-bit floating point number.
type Float float64

func (Float) Type() Type       { return TypeFloat }
func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (Float) sealed()          {}

// Bool is a boolean.
type Bool bool

func (Bool) Type() Type       { return TypeBool }
func (v Bool) String() string { return strconv.FormatBool(bool(v)) }
func (Bool) sealed()          {}

// Text is a UTF-8 string.
type Text string

func (Text) Type() Type       { return TypeString }
func (v Text) String() string { return string(v) }
func (Text) sealed()          {}

// Char is a single Unicode code point.
type Char rune

func (Char) Type() Type       { return TypeChar }
func (v Char) String() string { return string(rune(v)) }
func (Char) sealed()          {}

// Binary is an immutable byte blob. Holders must not modify the slice.
type Binary []byte

func (Binary) Type() Type       { return TypeBinary }
func (v Binary) String() string { return string(v) }
func (Binary) sealed()          {}

// File is a file system path.
type File string

func (File) Type() Type       { return TypeFile }
func (v File) String() string { return string(v) }
func (File) sealed()          {}

// Duration is a time span.
type Duration time.Duration

func (Duration) Type() Type       { return TypeDuration }
func (v Duration) String() string { return time.Duration(v).String() }
func (Duration) sealed()          {}

// Time is an instant. The display form is RFC 3339 with nanoseconds.
type Time time.Time

func (Time) Type() Type       { return TypeTime }
func (v Time) String() string { return time.Time(v).Format(time.RFC3339Nano) }
func (Time) sealed()          {}

// List is an immutable sequence of values sharing an element type.
type List struct {
	elem  Type
	items []Value
}

// NewList builds a list, checking every item against elem.
func NewList(elem Type, items ...Value) (*List, error) {
	for index, item := range items {
		if !elem.Accepts(item.Type()) {
			return nil, typeMismatch("list item", index, elem, item)
		}
	}
	copied := make([]Value, len(items))
	copy(copied, items)
	return &List{elem: elem, items: copied}, nil
}

func (l *List) Type() Type { return ListOf(l.elem) }
func (*List) sealed()      {}

// Elem returns the declared element type.
func (l *List) Elem() Type { return l.elem }

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// At returns item i.
func (l *List) At(i int) Value { return l.items[i] }

// Items returns a copy of the items.
func (l *List) Items() []Value {
	copied := make([]Value, len(l.items))
	copy(copied, l.items)
	return copied
}

func (l *List) String() string {
	parts := make([]string, len(l.items))
	for i, item := range l.items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// BinaryReader is a reference to an open binary data source. Reading
// consumes the source, so exactly one holder may read it; passing the
// value down a pipeline transfers that right.
type BinaryReader struct {
	name   string
	reader io.ReadCloser
}

// NewBinaryReader wraps reader. name identifies the source in
// diagnostics (a path, "stdin", "zstd(people.csv.zst)").
func NewBinaryReader(name string, reader io.ReadCloser) *BinaryReader {
	return &BinaryReader{name: name, reader: reader}
}

func (*BinaryReader) Type() Type       { return TypeBinaryReader }
func (b *BinaryReader) String() string { return "<binary " + b.name + ">" }
func (*BinaryReader) sealed()          {}

// Name returns the source name.
func (b *BinaryReader) Name() string { return b.name }

// Reader returns the underlying reader. The caller that reads it is
// responsible for closing it.
func (b *BinaryReader) Reader() io.ReadCloser { return b.reader }

// Callable is the part of a registered command visible to the value
// model. The command registry's entries implement it.
type Callable interface {
	FullName() string
}

// CommandRef is a reference to a command.
type CommandRef struct {
	Callable Callable
}

func (CommandRef) Type() Type       { return TypeCommand }
func (c CommandRef) String() string { return "<command " + c.Callable.FullName() + ">" }
func (CommandRef) sealed()          {}

// RowSource is the consumer end of a row stream. Recv returns io.EOF
// after the last row of a cleanly closed stream.
type RowSource interface {
	Schema() Schema
	Recv() (Row, error)
	Close()
}

// StreamRef is a reference to a structured stream. Its rows belong to
// whichever stage receives the reference.
type StreamRef struct {
	Source RowSource
}

func (s StreamRef) Type() Type     { return StreamOf(s.Source.Schema()) }
func (s StreamRef) String() string { return "<stream " + s.Source.Schema().String() + ">" }
func (StreamRef) sealed()          {}
