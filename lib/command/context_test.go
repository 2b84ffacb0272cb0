// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"io"
	"strings"
	"testing"

	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/stream"
	"github.com/cxz/crush/lib/testutil"
	"github.com/cxz/crush/lib/value"
)

func readAll(t *testing.T, reader *value.BinaryReader) string {
	t.Helper()
	defer reader.Reader().Close()
	data, err := io.ReadAll(reader.Reader())
	if err != nil {
		t.Fatalf("reading %s: %v", reader.Name(), err)
	}
	return string(data)
}

func TestContext_BinaryInputFromPipeline(t *testing.T) {
	source := value.NewBinaryReader("stdin", io.NopCloser(strings.NewReader("payload")))
	ctx := &Context{Input: stream.Of(source)}

	reader, err := ctx.BinaryInput(nil)
	if err != nil {
		t.Fatalf("BinaryInput() error: %v", err)
	}
	if got := readAll(t, reader); got != "payload" {
		t.Fatalf("read %q, want payload", got)
	}
}

func TestContext_BinaryInputWrongInput(t *testing.T) {
	ctx := &Context{Input: stream.Of(value.Integer(4))}
	if _, err := ctx.BinaryInput(nil); !joberror.Is(err, joberror.KindType) {
		t.Fatalf("BinaryInput() = %v, want a type error", err)
	}

	ctx = &Context{Input: stream.Closed()}
	if _, err := ctx.BinaryInput(nil); !joberror.Is(err, joberror.KindArgument) {
		t.Fatalf("BinaryInput() with no input = %v, want an argument error", err)
	}
}

func TestContext_BinaryInputFromOperand(t *testing.T) {
	directory := testutil.WriteFiles(t, map[string]string{
		"data/one.txt": "first",
		"data/two.txt": "second",
	})
	ctx := &Context{Input: stream.Closed(), WorkDir: directory}

	reader, err := ctx.BinaryInput([]value.Value{value.File("data/one.txt")})
	if err != nil {
		t.Fatalf("BinaryInput() error: %v", err)
	}
	if got := readAll(t, reader); got != "first" {
		t.Fatalf("read %q, want first", got)
	}

	glob, _ := value.NewGlob("data/t*.txt")
	reader, err = ctx.BinaryInput([]value.Value{glob})
	if err != nil {
		t.Fatalf("BinaryInput(glob) error: %v", err)
	}
	if got := readAll(t, reader); got != "second" {
		t.Fatalf("read %q, want second", got)
	}
}

func TestContext_BinaryInputErrors(t *testing.T) {
	directory := testutil.WriteFiles(t, map[string]string{"a.txt": "a", "b.txt": "b"})
	ctx := &Context{Input: stream.Closed(), WorkDir: directory}

	if _, err := ctx.BinaryInput([]value.Value{value.Text("missing.txt")}); !joberror.Is(err, joberror.KindIO) {
		t.Fatalf("missing file = %v, want an io error", err)
	}

	twoFiles := []value.Value{value.Text("a.txt"), value.Text("b.txt")}
	if _, err := ctx.BinaryInput(twoFiles); !joberror.Is(err, joberror.KindArgument) {
		t.Fatalf("two operands = %v, want an argument error", err)
	}

	glob, _ := value.NewGlob("*.txt")
	if _, err := ctx.BinaryInput([]value.Value{glob}); !joberror.Is(err, joberror.KindArgument) {
		t.Fatalf("glob matching two files = %v, want an argument error", err)
	}
}

func TestReceiver(t *testing.T) {
	ctx := &Context{This: value.Text("x")}
	if _, err := Receiver[*value.Glob](ctx, "match"); !joberror.Is(err, joberror.KindType) {
		t.Fatalf("Receiver() = %v, want a type error", err)
	}
	got, err := Receiver[value.Text](ctx, "upper")
	if err != nil || got != "x" {
		t.Fatalf("Receiver() = %q, %v; want x, nil", got, err)
	}
}
