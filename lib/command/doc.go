// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package command defines what a command is, how commands are found, and
// what a running command receives.
//
// A [Command] is an immutable registry entry: a qualified path such as
// global:io:csv, a [Handler], help text, and a declared [OutputType].
// The [Registry] maps paths to commands and value kinds to method
// tables. It is populated once, then [Registry.Freeze] makes it
// read-only so every later read is lock-free. Declaring a conflicting
// path, or declaring anything after Freeze, is a programming error and
// panics.
//
// Dispatch has two forms:
//
//   - [Registry.Resolve] looks a free name up in the lexical scope chain
//     first (a command reference bound under the joined name shadows a
//     registered command), then by exact path, then under the global
//     root, then under each namespace declared with [Registry.Use].
//
//   - [Registry.Method] looks a method up in the table of the receiver's
//     value kind. Tables are built lazily, once, on first use.
//
// A handler receives a [Context]: the call's [Arguments], the input and
// output ends of its streams, the scope, the optional receiver (This),
// and the diagnostics printer. [Bind] decodes the arguments into a
// tagged params struct the way command-line flags are bound, and
// [Signature] renders the same struct as a one-line usage string.
package command
