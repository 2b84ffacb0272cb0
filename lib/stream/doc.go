// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stream connects adjacent pipeline stages.
//
// Every adjacency is a [NewPipe]: the producing stage holds a
// [ValueSender], the consuming stage a [ValueReceiver]. A producer either
// sends exactly one terminal value ([ValueSender.Send]), or calls
// [ValueSender.Initialize] once with a schema, which opens a bounded row
// channel and hands the consumer a [value.StreamRef] for it. Rows then
// travel through [OutputStream.Send] and [InputStream.Recv].
//
// Ordering is FIFO per stream. Send blocks while the channel is full and
// Recv blocks while it is empty; neither spins. There is no cancellation
// token: termination propagates by closure. When the producer closes,
// the consumer drains the remaining rows and then sees io.EOF, or the
// producer's error if it failed. When the consumer closes, the producer's
// next Send fails with [ErrClosed].
//
// Each end is owned by a single goroutine. Ends may be closed more than
// once; only the first close has an effect.
package stream
