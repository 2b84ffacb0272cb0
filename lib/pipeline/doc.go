// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline runs a sequence of command invocations as one job.
//
// Every stage of a job runs in its own goroutine. Adjacent stages are
// connected by a [stream.NewPipe], so a stage blocks only when its
// output buffer is full or its input is empty. There is no cancellation
// token: when a stage returns, its output is finished (closed, or failed
// with the stage's error) and its input is closed, and the neighbours
// observe that on their next blocking operation.
//
// The typical flow:
//
//  1. [ReadDescriptor] or [ParseDescriptor]: JSONC bytes to a [Descriptor]
//  2. [Validate]: structural checks, returned as a list of issues
//  3. [ResolveVariables] and [DeclareVariables]: defaults, environment,
//     and --set values bound into the job's scope
//  4. [Descriptor.Stages]: descriptor entries to [Stage] values
//  5. [Build]: resolve every stage up front, so dispatch errors abort
//     before anything runs
//  6. [Job.Start], then read [Job.Output], then [Job.Wait]; or [Run] for
//     all three with the output collected in memory
//
// Errors travel on two channels. Per-row data problems are reported by
// commands to the printer and skipped. A stage's fatal error is
// recorded once, reported once to the printer, and returned from
// Job.Wait. A stage that fails only because a neighbour closed its end
// of a stream has terminated normally.
package pipeline
