// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binary resolves file operands into binary data sources.
//
// Commands that read raw bytes (csv, lines, cbor:read, ...) accept either
// a file operand or a binary reader arriving on their input. [Expand]
// turns operand values (paths, files, globs) into concrete paths; [Open]
// opens one as a [value.BinaryReader], transparently decompressing zstd
// (".zst", ".zstd") and LZ4 frame (".lz4") files. [Create] is the writing
// counterpart used by commands that serialize a stream to a file.
//
// Resolution happens when a command binds its arguments, before it
// produces any output, so a missing or unreadable file surfaces as an
// I/O error and never as a partially written stream.
package binary
