// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/value"
)

// Declare adds the type constructors and method tables to r.
func Declare(r *command.Registry) {
	r.Declare(globNewCommand())
	r.DeclareMethods(value.KindGlob, globMethods)
	r.DeclareMethods(value.KindList, listMethods)
	r.DeclareMethods(value.KindString, stringMethods)
	r.DeclareMethods(value.KindFile, fileMethods)
}

// method builds a command under global:types:<kind>:<name> whose
// signature is rendered from params.
func method(kind, name string, params any, run command.Handler, output command.OutputType, short string) *command.Command {
	return &command.Command{
		Path:      []string{command.Root, "types", kind, name},
		Run:       run,
		Signature: command.Signature(kind+":"+name, params),
		Short:     short,
		Output:    output,
	}
}
