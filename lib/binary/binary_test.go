// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binary

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

func TestDetect(t *testing.T) {
	tests := map[string]Compression{
		"people.csv":      CompressionNone,
		"people.csv.zst":  CompressionZstd,
		"people.csv.ZSTD": CompressionZstd,
		"people.csv.lz4":  CompressionLZ4,
	}
	for name, want := range tests {
		if got := Detect(name); got != want {
			t.Errorf("Detect(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestParseCompression_RoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		parsed, err := ParseCompression(compression.String())
		if err != nil {
			t.Fatalf("ParseCompression(%q) error: %v", compression, err)
		}
		if parsed != compression {
			t.Errorf("round trip of %s gave %s", compression, parsed)
		}
	}
	if _, err := ParseCompression("brotli"); err == nil {
		t.Error("ParseCompression(brotli) succeeded")
	}
}

func TestCreateOpen_RoundTrip(t *testing.T) {
	content := strings.Repeat("alice,30\nbob,41\n", 200)
	for _, name := range []string{"plain.csv", "packed.csv.zst", "packed.csv.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			writer, err := Create(path)
			if err != nil {
				t.Fatalf("Create error: %v", err)
			}
			if _, err := io.WriteString(writer, content); err != nil {
				t.Fatalf("write error: %v", err)
			}
			if err := writer.Close(); err != nil {
				t.Fatalf("Close error: %v", err)
			}

			if Detect(name) != CompressionNone {
				raw, err := os.ReadFile(path)
				if err != nil {
					t.Fatal(err)
				}
				if string(raw) == content {
					t.Fatal("file on disk is not compressed")
				}
			}

			source, err := Open(path)
			if err != nil {
				t.Fatalf("Open error: %v", err)
			}
			reader := source.Reader()
			defer reader.Close()
			got, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("read error: %v", err)
			}
			if string(got) != content {
				t.Errorf("read %d bytes, want %d", len(got), len(content))
			}
		})
	}
}

func TestOpen_MissingFileIsIOError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.csv"))
	if !joberror.Is(err, joberror.KindIO) {
		t.Fatalf("error = %v, want io error", err)
	}
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv", "c.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	glob, err := value.NewGlob("*.csv")
	if err != nil {
		t.Fatal(err)
	}

	paths, err := Expand([]value.Value{value.Text("c.txt"), glob, value.File("/abs/x")}, root)
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	want := []string{
		filepath.Join(root, "c.txt"),
		filepath.Join(root, "a.csv"),
		filepath.Join(root, "b.csv"),
		"/abs/x",
	}
	if strings.Join(paths, "|") != strings.Join(want, "|") {
		t.Errorf("Expand = %v, want %v", paths, want)
	}

	if _, err := Expand([]value.Value{value.Integer(3)}, root); !joberror.Is(err, joberror.KindArgument) {
		t.Errorf("Expand(integer) error = %v, want argument error", err)
	}
}
