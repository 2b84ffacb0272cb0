// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package help renders command help for a terminal.
//
// Help text is markdown. [Renderer.Markdown] parses it with goldmark and
// walks the AST directly, collecting inline content per paragraph and
// word-wrapping it as a unit, so hard-wrapped source reflows at any
// width. Fenced code blocks are highlighted with chroma when colour is
// enabled. Styles come from lipgloss on a renderer pinned to one termenv
// profile, so output does not depend on the environment the process
// happens to run in.
//
// [Renderer.Command] formats one command (signature, output type,
// summary, long text) and [Renderer.Methods] lists a method table.
package help
