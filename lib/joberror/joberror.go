// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package joberror

import (
	"errors"
	"fmt"
)

// Kind classifies a JobError.
type Kind string

const (
	// KindArgument indicates malformed, unknown, or missing call
	// arguments. Always detected before the command produces output.
	KindArgument Kind = "argument"

	// KindType indicates an unknown type name or a value of the wrong
	// type where a specific one was required.
	KindType Kind = "type"

	// KindParse indicates text that could not be converted to a value of
	// the expected type.
	KindParse Kind = "parse"

	// KindSchema indicates a row that does not fit its schema (arity or
	// cell type), or a stream initialized with an unexpected schema.
	KindSchema Kind = "schema"

	// KindCommandNotFound indicates a free command name that neither the
	// scope chain nor the registry resolves.
	KindCommandNotFound Kind = "command_not_found"

	// KindMethodNotFound indicates a method name absent from the
	// receiver type's method table.
	KindMethodNotFound Kind = "method_not_found"

	// KindIO indicates a failure of an underlying resource: a missing
	// file, a permission error, a broken reader.
	KindIO Kind = "io"

	// KindClosed indicates a send or receive on a stream whose peer has
	// gone away.
	KindClosed Kind = "closed"

	// KindAlreadyInitialized indicates a second Initialize or Send on an
	// output that has already produced its value.
	KindAlreadyInitialized Kind = "already_initialized"
)

// JobError is a categorized error. The Kind travels alongside the
// human-readable message; Error returns only the message.
type JobError struct {
	Kind Kind
	Err  error
}

func (e *JobError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error so errors.Is and errors.As see
// through the category wrapper.
func (e *JobError) Unwrap() error { return e.Err }

// New wraps err with kind. Returns nil when err is nil.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &JobError{Kind: kind, Err: err}
}

func newf(kind Kind, format string, args ...any) *JobError {
	return &JobError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Argument creates an argument error.
func Argument(format string, args ...any) *JobError {
	return newf(KindArgument, format, args...)
}

// Type creates a type error.
func Type(format string, args ...any) *JobError {
	return newf(KindType, format, args...)
}

// Parse creates a parse error.
func Parse(format string, args ...any) *JobError {
	return newf(KindParse, format, args...)
}

// Schema creates a schema error.
func Schema(format string, args ...any) *JobError {
	return newf(KindSchema, format, args...)
}

// CommandNotFound creates a dispatch error for a free command name.
func CommandNotFound(format string, args ...any) *JobError {
	return newf(KindCommandNotFound, format, args...)
}

// MethodNotFound creates a dispatch error for a method name.
func MethodNotFound(format string, args ...any) *JobError {
	return newf(KindMethodNotFound, format, args...)
}

// IO creates an I/O error.
func IO(format string, args ...any) *JobError {
	return newf(KindIO, format, args...)
}

// KindOf returns the kind of the outermost JobError in err's chain, or
// "" if there is none.
func KindOf(err error) Kind {
	var jobError *JobError
	if errors.As(err, &jobError) {
		return jobError.Kind
	}
	return ""
}

// Is reports whether any JobError in err's chain has the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var jobError *JobError
		if !errors.As(err, &jobError) {
			return false
		}
		if jobError.Kind == kind {
			return true
		}
		err = jobError.Err
	}
	return false
}
