// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"reflect"
	"slices"
	"strings"

	"github.com/cxz/crush/lib/value"
)

// Handler is the body of a command. A handler either sends one value on
// ctx.Output, or initializes it with a schema and sends rows. The
// returned error is fatal for the stage; per-row problems go to
// ctx.Printer instead.
type Handler func(ctx *Context) error

// OutputType is what a command declares it will produce: a known type,
// or unknown until the command runs and initializes its output.
type OutputType struct {
	known bool
	t     value.Type
}

// Known declares that the command always produces t. A stream type with
// columns pins the schema the command must initialize with.
func Known(t value.Type) OutputType { return OutputType{known: true, t: t} }

// Unknown declares that the output type is only established at run time.
func Unknown() OutputType { return OutputType{} }

// Type returns the declared type and whether it is known.
func (o OutputType) Type() (value.Type, bool) { return o.t, o.known }

func (o OutputType) String() string {
	if !o.known {
		return "unknown"
	}
	return o.t.String()
}

func (o OutputType) equal(other OutputType) bool {
	return o.known == other.known && (!o.known || o.t.Equal(other.t))
}

// Command is a registry entry. Commands are treated as immutable once
// declared.
type Command struct {
	// Path is the qualified name, for example
	// []string{"global", "io", "csv"}.
	Path []string

	// Run is the handler.
	Run Handler

	// Signature is the one-line usage string, usually produced by
	// [Signature] from the command's params struct.
	Signature string

	// Short is a one-line summary.
	Short string

	// Long is the full help text (markdown).
	Long string

	// Mutates marks methods that change their receiver's binding.
	Mutates bool

	// Output is the declared output type.
	Output OutputType
}

// Name returns the last path segment.
func (c *Command) Name() string {
	if len(c.Path) == 0 {
		return ""
	}
	return c.Path[len(c.Path)-1]
}

// FullName returns the path joined with ":".
func (c *Command) FullName() string {
	return strings.Join(c.Path, ":")
}

// Ref wraps c as a value that can be bound in a scope.
func (c *Command) Ref() value.CommandRef {
	return value.CommandRef{Callable: c}
}

// sameDefinition reports whether other would declare exactly c. Handlers
// compare by code pointer; closures over different state are different
// definitions only if their code differs.
func (c *Command) sameDefinition(other *Command) bool {
	return slices.Equal(c.Path, other.Path) &&
		c.Signature == other.Signature &&
		c.Short == other.Short &&
		c.Long == other.Long &&
		c.Mutates == other.Mutates &&
		c.Output.equal(other.Output) &&
		reflect.ValueOf(c.Run).Pointer() == reflect.ValueOf(other.Run).Pointer()
}
