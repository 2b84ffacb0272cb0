// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"io"
	"sync"

	"github.com/cxz/crush/lib/value"
)

// rowChannel is the shared state behind one OutputStream/InputStream
// pair.
type rowChannel struct {
	schema value.Schema
	rows   chan value.Row

	// consumerGone is closed when the consumer closes its end.
	consumerGone chan struct{}
	consumerOnce sync.Once

	mutex    sync.Mutex
	closed   bool  // producer closed; guarded by mutex
	failure  error // producer failure delivered after drained rows
	producer sync.Once
}

func newRowChannel(schema value.Schema, capacity int) *rowChannel {
	if capacity < 1 {
		capacity = 1
	}
	return &rowChannel{
		schema:       schema,
		rows:         make(chan value.Row, capacity),
		consumerGone: make(chan struct{}),
	}
}

// OutputStream is the producer end of a row stream.
type OutputStream struct {
	channel *rowChannel
}

// Schema returns the schema the stream was initialized with.
func (output *OutputStream) Schema() value.Schema { return output.channel.schema }

// Send enqueues row, blocking while the channel is full. Returns
// ErrClosed if the consumer has closed its end or the producer has
// already closed the stream. Rows are not validated here; producers
// validate where cell types are not already guaranteed.
func (output *OutputStream) Send(row value.Row) error {
	channel := output.channel
	channel.mutex.Lock()
	closed := channel.closed
	channel.mutex.Unlock()
	if closed {
		return ErrClosed
	}

	select {
	case <-channel.consumerGone:
		return ErrClosed
	default:
	}

	select {
	case channel.rows <- row:
		return nil
	case <-channel.consumerGone:
		return ErrClosed
	}
}

// Close ends the stream cleanly. The consumer receives the buffered rows
// and then io.EOF.
func (output *OutputStream) Close() {
	output.finish(nil)
}

// Fail ends the stream with err. The consumer receives the buffered rows
// and then err. A nil err is equivalent to Close.
func (output *OutputStream) Fail(err error) {
	output.finish(err)
}

func (output *OutputStream) finish(err error) {
	channel := output.channel
	channel.producer.Do(func() {
		channel.mutex.Lock()
		channel.closed = true
		channel.failure = err
		channel.mutex.Unlock()
		close(channel.rows)
	})
}

// InputStream is the consumer end of a row stream. It implements
// value.RowSource.
type InputStream struct {
	channel *rowChannel
}

// Schema returns the schema of the rows.
func (input *InputStream) Schema() value.Schema { return input.channel.schema }

// Recv returns the next row, blocking until one is available. After the
// last row of a cleanly closed stream it returns io.EOF; after the last
// row of a failed stream it returns the producer's error. Once the
// consumer has closed its own end, Recv returns ErrClosed.
func (input *InputStream) Recv() (value.Row, error) {
	channel := input.channel
	select {
	case <-channel.consumerGone:
		return value.Row{}, ErrClosed
	default:
	}

	select {
	case row, ok := <-channel.rows:
		if !ok {
			channel.mutex.Lock()
			failure := channel.failure
			channel.mutex.Unlock()
			if failure != nil {
				return value.Row{}, failure
			}
			return value.Row{}, io.EOF
		}
		return row, nil
	case <-channel.consumerGone:
		return value.Row{}, ErrClosed
	}
}

// Close signals that the consumer will read no more rows. A producer
// blocked in Send wakes with ErrClosed.
func (input *InputStream) Close() {
	input.channel.consumerOnce.Do(func() {
		close(input.channel.consumerGone)
	})
}
