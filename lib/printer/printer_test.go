// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package printer

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/testutil"
)

func TestPrinter_WritesInOrder(t *testing.T) {
	var buffer bytes.Buffer
	printer := New(&buffer, nil)

	printer.Error("first")
	printer.JobError(joberror.Parse("bad integer %q", "x"))
	printer.Errorf("third %d", 3)
	printer.JobError(nil)
	printer.Close()

	want := "Error: first\n" +
		"Error (parse): bad integer \"x\"\n" +
		"Error: third 3\n"
	if got := buffer.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if got := printer.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
}

// blockingWriter blocks every Write until released.
type blockingWriter struct {
	release chan struct{}
	mu      sync.Mutex
	written strings.Builder
}

func (w *blockingWriter) Write(data []byte) (int, error) {
	<-w.release
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written.Write(data)
}

func TestPrinter_ErrorDoesNotBlockOnWriter(t *testing.T) {
	writer := &blockingWriter{release: make(chan struct{})}
	printer := New(writer, nil)

	reported := make(chan struct{})
	go func() {
		for range 100 {
			printer.Error("row skipped")
		}
		close(reported)
	}()
	testutil.RequireClosed(t, reported, 5*time.Second, "reporting while the writer is stalled")

	close(writer.release)
	printer.Close()

	writer.mu.Lock()
	lines := strings.Count(writer.written.String(), "\n")
	writer.mu.Unlock()
	if lines != 100 {
		t.Fatalf("wrote %d lines, want 100", lines)
	}
}

func TestPrinter_AfterClose(t *testing.T) {
	var buffer bytes.Buffer
	printer := New(&buffer, nil)
	printer.Close()
	printer.Close()

	printer.JobError(errors.New("late"))
	if buffer.Len() != 0 {
		t.Fatalf("wrote %q after Close", buffer.String())
	}
	diagnostics := printer.Diagnostics()
	if len(diagnostics) != 1 || diagnostics[0].Message != "late" {
		t.Fatalf("Diagnostics() = %v, want one entry for the late error", diagnostics)
	}
}

func TestDiagnostic_String(t *testing.T) {
	printer := New(io.Discard, nil)
	defer printer.Close()

	printer.JobError(joberror.Schema("expected 2 columns"))
	got := printer.Diagnostics()[0]
	if got.Kind != joberror.KindSchema {
		t.Fatalf("Kind = %q, want %q", got.Kind, joberror.KindSchema)
	}
	if got.String() != "Error (schema): expected 2 columns" {
		t.Fatalf("String() = %q", got.String())
	}
}
