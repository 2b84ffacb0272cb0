// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package value is the value, type, and row model that flows through a
// pipeline.
//
// [Value] is a sealed interface: the set of concrete kinds ([Integer],
// [Float], [Bool], [Text], [Char], [Binary], [*Glob], [File], [Duration],
// [Time], [*List], [*BinaryReader], [CommandRef], [StreamRef]) is closed
// and every kind has a matching [Kind] tag. Values are immutable once
// constructed; composite values may be shared by several holders but are
// never mutated after they are handed to another stage.
//
// [Type] describes a value: the Kind plus, for lists, the element type and,
// for streams, the column list when it is statically known. Types are used
// three ways: declared parameter types during argument binding, declared
// output types of commands, and runtime checks during method dispatch.
// [ParseType] turns a type name ("integer", "list<string>") into a Type,
// and [Type.Parse] converts raw cell text into a value of that type, which
// is what schema-driven readers like csv are built on. For every scalar
// kind, Parse(v.String()) is equal to v.
//
// [Schema] is an ordered list of uniquely named [ColumnType]s and [Row] is
// one record of cells in schema order. Schemas are compared exactly:
// same count, order, names, and types.
//
// Per-kind method tables are not stored here; the command registry keys
// them by [Kind] so this package stays free of dispatch concerns.
package value
