// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	"github.com/cxz/crush/lib/value"
)

// Argument is one argument of a call. Name is empty for positional
// arguments.
type Argument struct {
	Name  string
	Value value.Value
}

func (a Argument) String() string {
	if a.Name == "" {
		return a.Value.String()
	}
	return a.Name + "=" + a.Value.String()
}

// Arguments is the ordered argument list of a call.
type Arguments []Argument

// Positional returns positional arguments for values.
func Positional(values ...value.Value) Arguments {
	arguments := make(Arguments, len(values))
	for i, v := range values {
		arguments[i] = Argument{Value: v}
	}
	return arguments
}

// With returns a copy of a with a named argument appended.
func (a Arguments) With(name string, v value.Value) Arguments {
	extended := make(Arguments, len(a), len(a)+1)
	copy(extended, a)
	return append(extended, Argument{Name: name, Value: v})
}

// Positionals returns the values of the positional arguments in order.
func (a Arguments) Positionals() []value.Value {
	var values []value.Value
	for _, argument := range a {
		if argument.Name == "" {
			values = append(values, argument.Value)
		}
	}
	return values
}

// Get returns the value of the first argument named name.
func (a Arguments) Get(name string) (value.Value, bool) {
	for _, argument := range a {
		if argument.Name == name {
			return argument.Value, true
		}
	}
	return nil, false
}

func (a Arguments) String() string {
	parts := make([]string, len(a))
	for i, argument := range a {
		parts[i] = argument.String()
	}
	return strings.Join(parts, " ")
}
