// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package types declares value constructors and the method tables of
// the glob, list, string, and file kinds.
//
// A method runs with its receiver in [command.Context.This]. Method
// tables are built lazily, the first time a method of that kind is
// looked up.
package types
