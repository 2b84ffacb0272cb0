// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binary

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

// Expand resolves operand values to file paths. Text and file values are
// taken as paths (relative paths resolve against root); globs expand to
// every matching file under root. Any other kind is an argument error.
func Expand(operands []value.Value, root string) ([]string, error) {
	var paths []string
	for _, operand := range operands {
		switch typed := operand.(type) {
		case value.Text:
			paths = append(paths, resolve(root, string(typed)))
		case value.File:
			paths = append(paths, resolve(root, string(typed)))
		case *value.Glob:
			base := root
			if base == "" {
				base = "."
			}
			files, err := typed.Files(base)
			if err != nil {
				return nil, err
			}
			for _, file := range files {
				paths = append(paths, string(file))
			}
		default:
			return nil, joberror.Argument("expected a file operand, got %s %q",
				operand.Type(), operand.String())
		}
	}
	return paths, nil
}

func resolve(root, path string) string {
	if root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// Open opens path as a binary reader, decompressing according to its
// suffix. Failures are I/O errors.
func Open(path string) (*value.BinaryReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, joberror.IO("%v", err)
	}
	compression := Detect(path)
	reader, err := NewDecompressor(file, compression)
	if err != nil {
		file.Close()
		return nil, joberror.IO("%s: %v", path, err)
	}
	return value.NewBinaryReader(path, reader), nil
}

// Create creates (or truncates) path for writing, compressing according
// to its suffix.
func Create(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, joberror.IO("%v", err)
	}
	writer, err := NewCompressor(file, Detect(path))
	if err != nil {
		file.Close()
		return nil, joberror.IO("%s: %v", path, err)
	}
	return writer, nil
}
