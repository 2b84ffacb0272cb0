// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides crush's standard CBOR encoding configuration
// and the CBOR row-sequence format used by cbor:write and cbor:read.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. Same
// logical data always produces identical bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(v)
//	err = codec.Unmarshal(data, &v)
//
// For streams of rows:
//
//	writer, err := codec.NewRowWriter(w, schema)
//	err = writer.Write(row)
//
//	reader, err := codec.NewRowReader(r)
//	row, err := reader.Read() // io.EOF after the last row
//
// # Row sequence format
//
// A row sequence is a CBOR sequence (RFC 8742): one header map
// {"columns": [{"name": ..., "type": ...}, ...]} followed by one array
// per row. Cells are written in a form that survives any-typed
// decoding: times as RFC 3339 text, durations as integer nanoseconds,
// chars, globs, and files as text, lists as arrays. Readers convert
// cells back with the column types from the header.
package codec
