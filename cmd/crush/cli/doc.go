// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the crush binary.
//
// The central type is [Command], a named subcommand with optional nested
// [Command.Subcommands], a params struct whose tagged fields become
// pflag flags, and a Run function. Commands are assembled into a tree
// by cmd/crush/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and help output with
// examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
//
// [NewCommandLogger] picks a text or JSON slog handler depending on
// whether stderr is a terminal. [ExitError] lets a command that already
// reported its failure exit non-zero without a second message.
package cli
