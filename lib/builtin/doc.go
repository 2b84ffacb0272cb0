// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package builtin declares the commands every crush pipeline can call.
//
// Commands are grouped into namespaces under the global root:
//
//   - io: sources and sinks. csv, lines, open, zstd, lz4, json:read,
//     cbor:write, cbor:read, arrow:write, arrow:read.
//   - stream: row operators. head, where, select, uniq, count, collect,
//     hash.
//   - var: let and get over the lexical scope.
//   - types: value constructors and per-kind method tables (see package
//     types).
//   - help: commands, a fuzzy-searchable listing of the registry.
//
// [Registry] builds the process-wide registry once, declares every
// namespace for short-name resolution, and freezes it. Tests that need
// extra commands build their own with [Declare].
//
// Each command binds a tagged params struct with [command.Bind]; the
// same struct renders its signature, so help text and argument checking
// cannot drift apart. Per-row data errors (a cell that does not parse, a
// row with the wrong number of fields) go to the printer and the row is
// skipped. Argument errors and I/O failures end the stage.
package builtin
