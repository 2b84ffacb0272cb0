// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package joberror defines the error taxonomy shared by every stage of a
// pipeline.
//
// A [JobError] wraps an inner error with a [Kind] so the driver and the
// diagnostics sink can tell argument and dispatch failures (which abort a
// stage) from data errors (which are reported per row and skipped) without
// parsing message text. Use the kind-specific constructors ([Argument],
// [Parse], [Schema], ...) rather than building a JobError directly, and
// [Is] or [KindOf] to classify an error anywhere in a wrapped chain.
//
// This package has no crush-internal dependencies.
package joberror
