// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"

	"github.com/cxz/crush/lib/joberror"
)

var (
	// ErrClosed is returned by sends and receives on a stream whose peer
	// has closed its end.
	ErrClosed error = &joberror.JobError{Kind: joberror.KindClosed, Err: errors.New("stream closed")}

	// ErrAlreadyInitialized is returned when a sender is asked to produce
	// a second value or a second stream.
	ErrAlreadyInitialized error = &joberror.JobError{
		Kind: joberror.KindAlreadyInitialized,
		Err:  errors.New("output already initialized"),
	}
)
