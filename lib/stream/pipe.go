// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"io"
	"sync"

	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

// DefaultCapacity is the row buffer size used when a pipe is created with
// a non-positive capacity.
const DefaultCapacity = 128

type delivery struct {
	value value.Value
	err   error
}

// pipe is the shared state between a ValueSender and its ValueReceiver.
type pipe struct {
	capacity int
	expected *value.Type

	// slot carries the single delivery: a value, a stream reference, an
	// error, or nothing (closed with no value).
	slot chan delivery

	mutex     sync.Mutex
	delivered bool          // a delivery was made or the slot closed
	output    *OutputStream // set by Initialize
	input     *InputStream  // consumer end of output, closed with the receiver
	consumed  bool          // receiver closed
}

// NewPipe connects a producer to a consumer. capacity bounds the row
// buffer of a stream opened with Initialize.
func NewPipe(capacity int) (*ValueSender, *ValueReceiver) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	shared := &pipe{capacity: capacity, slot: make(chan delivery, 1)}
	return &ValueSender{pipe: shared}, &ValueReceiver{pipe: shared}
}

// ValueSender is the producer side of a pipe.
type ValueSender struct {
	pipe *pipe
}

// Expect declares the type the producer is expected to deliver. Send
// checks values against it; Initialize checks the schema against the
// columns of a known stream type. Call before the producer starts.
func (sender *ValueSender) Expect(expected value.Type) {
	sender.pipe.expected = &expected
}

// Send delivers a single terminal value. Returns ErrAlreadyInitialized
// if a value or stream was already delivered, and a schema error if the
// value does not match the declared output type.
func (sender *ValueSender) Send(v value.Value) error {
	shared := sender.pipe
	if shared.expected != nil && !shared.expected.Accepts(v.Type()) {
		return joberror.Schema("output: expected %s, got %s", *shared.expected, v.Type())
	}
	return sender.deliver(delivery{value: v})
}

// Initialize binds the output to schema and opens a bounded row stream
// whose consumer end is delivered downstream as a value.StreamRef. It may
// be called once. When the consumer has already gone away, the returned
// stream fails every Send with ErrClosed.
func (sender *ValueSender) Initialize(schema value.Schema) (*OutputStream, error) {
	shared := sender.pipe
	if shared.expected != nil {
		if shared.expected.Kind != value.KindStream && shared.expected.Kind != value.KindAny {
			return nil, joberror.Schema("output: expected %s, got a stream", *shared.expected)
		}
		if declared, known := shared.expected.Schema(); known && !declared.Equal(schema) {
			return nil, joberror.Schema("output: declared schema %q, initialized with %q",
				declared.String(), schema.String())
		}
	}

	channel := newRowChannel(schema, shared.capacity)
	output := &OutputStream{channel: channel}
	input := &InputStream{channel: channel}

	shared.mutex.Lock()
	if shared.delivered {
		shared.mutex.Unlock()
		return nil, ErrAlreadyInitialized
	}
	shared.delivered = true
	shared.output = output
	shared.input = input
	consumed := shared.consumed
	shared.mutex.Unlock()

	if consumed {
		input.Close()
	}
	shared.slot <- delivery{value: value.StreamRef{Source: input}}
	close(shared.slot)
	return output, nil
}

func (sender *ValueSender) deliver(item delivery) error {
	shared := sender.pipe
	shared.mutex.Lock()
	if shared.delivered {
		shared.mutex.Unlock()
		return ErrAlreadyInitialized
	}
	shared.delivered = true
	shared.mutex.Unlock()
	// The slot has capacity one and only one delivery is ever made, so
	// this never blocks.
	shared.slot <- item
	close(shared.slot)
	return nil
}

// Initialized reports whether a value or stream has been delivered.
func (sender *ValueSender) Initialized() bool {
	sender.pipe.mutex.Lock()
	defer sender.pipe.mutex.Unlock()
	return sender.pipe.delivered
}

// Finish ends the producer side after the command returns. With a nil
// err it closes the row stream if one was opened, or tells the consumer
// no value is coming. With a non-nil err the error reaches the consumer
// instead: as the stream's terminal error after buffered rows, or in
// place of the value.
func (sender *ValueSender) Finish(err error) {
	shared := sender.pipe
	shared.mutex.Lock()
	output := shared.output
	delivered := shared.delivered
	shared.delivered = true
	shared.mutex.Unlock()

	if output != nil {
		output.Fail(err)
		return
	}
	if delivered {
		return
	}
	if err != nil {
		shared.slot <- delivery{err: err}
	}
	close(shared.slot)
}

// Close ends the producer side cleanly. Equivalent to Finish(nil).
func (sender *ValueSender) Close() {
	sender.Finish(nil)
}

// ValueReceiver is the consumer side of a pipe.
type ValueReceiver struct {
	pipe *pipe
}

// Recv blocks until the producer delivers. It returns the value, or
// io.EOF if the producer finished without one, or the producer's error.
// A pipe delivers at most once; later calls return io.EOF.
func (receiver *ValueReceiver) Recv() (value.Value, error) {
	item, ok := <-receiver.pipe.slot
	if !ok {
		return nil, io.EOF
	}
	if item.err != nil {
		return nil, item.err
	}
	return item.value, nil
}

// Rows receives the delivered value and requires it to be a stream.
func (receiver *ValueReceiver) Rows() (value.RowSource, error) {
	delivered, err := receiver.Recv()
	if err != nil {
		return nil, err
	}
	reference, ok := delivered.(value.StreamRef)
	if !ok {
		return nil, joberror.Type("expected a stream on the input, got %s", delivered.Type())
	}
	return reference.Source, nil
}

// Close releases the consumer side. If the producer opened (or later
// opens) a row stream, its consumer end is closed so the producer's next
// Send fails with ErrClosed.
func (receiver *ValueReceiver) Close() {
	shared := receiver.pipe
	shared.mutex.Lock()
	shared.consumed = true
	input := shared.input
	shared.mutex.Unlock()
	if input != nil {
		input.Close()
	}
}

// Closed returns a receiver whose producer already finished without a
// value. Used as the input of the first stage of a pipeline.
func Closed() *ValueReceiver {
	sender, receiver := NewPipe(1)
	sender.Close()
	return receiver
}

// Of returns a receiver that yields v. Used to feed a caller-supplied
// value into the first stage of a pipeline.
func Of(v value.Value) *ValueReceiver {
	sender, receiver := NewPipe(1)
	// A fresh pipe has no expected type and no prior delivery.
	_ = sender.Send(v)
	sender.Close()
	return receiver
}
