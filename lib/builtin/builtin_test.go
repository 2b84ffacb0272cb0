// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"io"
	"strings"
	"testing"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/pipeline"
	"github.com/cxz/crush/lib/printer"
	"github.com/cxz/crush/lib/scope"
	"github.com/cxz/crush/lib/stream"
	"github.com/cxz/crush/lib/value"
)

func positional(v value.Value) command.Argument {
	return command.Argument{Value: v}
}

func named(name string, v value.Value) command.Argument {
	return command.Argument{Name: name, Value: v}
}

func text(s string) value.Value { return value.Text(s) }

// harness runs pipelines against the built-in registry with a shared
// scope and printer.
type harness struct {
	t       *testing.T
	scope   *scope.Scope
	printer *printer.Printer
	workDir string
}

func newHarness(t *testing.T, workDir string) *harness {
	t.Helper()
	p := printer.New(nil, nil)
	t.Cleanup(p.Close)
	return &harness{t: t, scope: scope.New(), printer: p, workDir: workDir}
}

func (h *harness) run(input value.Value, stages ...pipeline.Stage) (pipeline.Result, error) {
	h.t.Helper()
	return pipeline.Run(Registry(), h.scope, h.printer, stages, pipeline.Options{
		WorkDir: h.workDir,
		Input:   input,
	})
}

// mustRun is run for pipelines expected to succeed.
func (h *harness) mustRun(input value.Value, stages ...pipeline.Stage) pipeline.Result {
	h.t.Helper()
	result, err := h.run(input, stages...)
	if err != nil {
		h.t.Fatalf("pipeline %v: %v", stages, err)
	}
	return result
}

// binaryInput wraps content as pipeline binary input.
func binaryInput(content string) value.Value {
	return value.NewBinaryReader("input", io.NopCloser(strings.NewReader(content)))
}

// rowsInput returns a finished stream holding rows, for use as pipeline
// input.
func rowsInput(t *testing.T, schema value.Schema, rows ...value.Row) value.Value {
	t.Helper()
	sender, receiver := stream.NewPipe(len(rows) + 1)
	output, err := sender.Initialize(schema)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	for _, row := range rows {
		if err := output.Send(row); err != nil {
			t.Fatalf("Send(%s): %v", row, err)
		}
	}
	sender.Close()
	source, err := receiver.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	return value.StreamRef{Source: source}
}

func requireRows(t *testing.T, result pipeline.Result, want ...value.Row) {
	t.Helper()
	if !result.Stream {
		t.Fatalf("result is not a stream: %+v", result)
	}
	if len(result.Rows) != len(want) {
		t.Fatalf("got %d rows %v, want %d rows %v", len(result.Rows), result.Rows, len(want), want)
	}
	for i := range want {
		if !result.Rows[i].Equal(want[i]) {
			t.Errorf("row %d: got %s, want %s", i, result.Rows[i], want[i])
		}
	}
}

func row(cells ...value.Value) value.Row { return value.NewRow(cells...) }

func TestRegistry_IsFrozenAndComplete(t *testing.T) {
	registry := Registry()
	if !registry.Frozen() {
		t.Fatal("Registry() returned an unfrozen registry")
	}
	if Registry() != registry {
		t.Fatal("Registry() built a second registry")
	}

	for _, name := range []string{
		"csv", "lines", "open", "zstd", "lz4", "json:read", "cbor:write", "cbor:read",
		"arrow:write", "arrow:read", "head", "where", "select", "uniq", "count", "collect",
		"hash", "let", "set", "get", "glob:new", "commands",
	} {
		found, err := registry.Resolve(scope.New(), strings.Split(name, ":")...)
		if err != nil {
			t.Errorf("Resolve(%s): %v", name, err)
			continue
		}
		if found.Signature == "" || found.Short == "" {
			t.Errorf("%s: missing signature or summary", found.FullName())
		}
	}
	for _, kind := range []value.Kind{value.KindGlob, value.KindList, value.KindString, value.KindFile} {
		if registry.Methods(kind) == nil {
			t.Errorf("no method table for %s", kind)
		}
	}
}

func TestDeclare_PrivateRegistry(t *testing.T) {
	registry := command.NewRegistry()
	Declare(registry)
	// Redeclaring an identical built-in is a no-op.
	registry.Declare(csvCommand())
	registry.Declare(&command.Command{
		Path: []string{command.Root, "test", "nothing"},
		Run:  func(*command.Context) error { return nil },
	})
	registry.Freeze()

	if got, want := len(registry.Commands()), len(Registry().Commands())+1; got != want {
		t.Errorf("got %d commands, want %d", got, want)
	}
	if _, err := registry.Resolve(nil, "csv"); err != nil {
		t.Errorf("Resolve(csv): %v", err)
	}
}

func TestSignature_RenderedFromParams(t *testing.T) {
	csv, ok := Registry().Lookup(command.Root, "io", "csv")
	if !ok {
		t.Fatal("global:io:csv not declared")
	}
	want := "csv [@files:any...] col:name:type... [sep:char=,] [head:integer=0] [trim:char]"
	if csv.Signature != want {
		t.Errorf("csv signature:\ngot  %s\nwant %s", csv.Signature, want)
	}
}
