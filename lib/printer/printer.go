// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package printer is the diagnostics sink shared by the stages of a
// job.
//
// Commands report non-fatal, per-row problems with [Printer.Error] and
// [Printer.JobError] and keep going. Both calls only append to an
// in-memory queue and never block on the output writer, so a slow
// terminal cannot stall a pipeline stage. A single background goroutine
// drains the queue to the writer, one line per diagnostic, and mirrors
// each one to the structured logger at warn level.
//
// [Printer.Close] drains everything queued so far and stops the
// goroutine. Diagnostics reported after Close still reach the logger
// and the history but are not written.
package printer

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/cxz/crush/lib/joberror"
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	// Kind is the error category, empty for plain messages.
	Kind    joberror.Kind
	Message string
}

func (d Diagnostic) String() string {
	if d.Kind == "" {
		return "Error: " + d.Message
	}
	return fmt.Sprintf("Error (%s): %s", d.Kind, d.Message)
}

// Printer queues diagnostics and drains them in the background.
type Printer struct {
	writer io.Writer
	logger *slog.Logger

	mu      sync.Mutex
	queue   []Diagnostic
	history []Diagnostic
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// New starts a printer that writes to writer (nil discards) and logs to
// logger (nil discards).
func New(writer io.Writer, logger *slog.Logger) *Printer {
	if writer == nil {
		writer = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	printer := &Printer{
		writer: writer,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go printer.drain()
	return printer
}

// Error reports a plain message.
func (p *Printer) Error(message string) {
	p.enqueue(Diagnostic{Message: message})
}

// Errorf reports a formatted message.
func (p *Printer) Errorf(format string, args ...any) {
	p.enqueue(Diagnostic{Message: fmt.Sprintf(format, args...)})
}

// JobError reports err with its category. A nil err is ignored.
func (p *Printer) JobError(err error) {
	if err == nil {
		return
	}
	p.enqueue(Diagnostic{Kind: joberror.KindOf(err), Message: err.Error()})
}

func (p *Printer) enqueue(diagnostic Diagnostic) {
	p.logger.Warn("diagnostic", "kind", string(diagnostic.Kind), "message", diagnostic.Message)

	p.mu.Lock()
	p.history = append(p.history, diagnostic)
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.queue = append(p.queue, diagnostic)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Count returns the number of diagnostics reported so far.
func (p *Printer) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.history)
}

// Diagnostics returns a copy of every diagnostic reported so far, in
// report order.
func (p *Printer) Diagnostics() []Diagnostic {
	p.mu.Lock()
	defer p.mu.Unlock()
	copied := make([]Diagnostic, len(p.history))
	copy(copied, p.history)
	return copied
}

// Close writes every queued diagnostic and stops the drain goroutine.
// Safe to call more than once.
func (p *Printer) Close() {
	p.mu.Lock()
	alreadyClosed := p.closed
	p.closed = true
	p.mu.Unlock()
	if !alreadyClosed {
		close(p.wake)
	}
	<-p.done
}

func (p *Printer) drain() {
	defer close(p.done)
	for {
		_, open := <-p.wake

		p.mu.Lock()
		batch := p.queue
		p.queue = nil
		p.mu.Unlock()

		for _, diagnostic := range batch {
			// A failing diagnostics writer has nowhere to report to.
			_, _ = fmt.Fprintln(p.writer, diagnostic.String())
		}
		if !open {
			return
		}
	}
}
