// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/cxz/crush/lib/joberror"
)

func mustGlob(t *testing.T, pattern string) *Glob {
	t.Helper()
	glob, err := NewGlob(pattern)
	if err != nil {
		t.Fatalf("NewGlob(%q) error: %v", pattern, err)
	}
	return glob
}

func TestParse_DisplayRoundTrip(t *testing.T) {
	instant := time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)
	offset := time.Date(2026, 3, 14, 15, 9, 26, 0, time.FixedZone("", 2*3600))
	values := []Value{
		Integer(0), Integer(30), Integer(-7), Integer(math.MaxInt64), Integer(math.MinInt64),
		Float(0), Float(1.5), Float(-0.1), Float(1e300), Float(math.Inf(1)), Float(math.NaN()),
		Bool(true), Bool(false),
		Text(""), Text("alice"), Text("with, comma"),
		Char('a'), Char('é'), Char('�'),
		Binary("raw bytes"),
		mustGlob(t, "*.txt"), mustGlob(t, "src/**/*.go"),
		File("/etc/hosts"),
		Duration(0), Duration(90 * time.Minute), Duration(1500 * time.Microsecond),
		Time(instant), Time(offset),
	}
	for _, original := range values {
		t.Run(original.Type().String()+"/"+original.String(), func(t *testing.T) {
			parsed, err := original.Type().Parse(original.String())
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", original.String(), err)
			}
			if !Equal(parsed, original) {
				t.Errorf("Parse(%q) = %v, want %v", original.String(), parsed, original)
			}
		})
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		typ  Type
		text string
	}{
		{TypeInteger, "not-a-number"},
		{TypeInteger, "1.5"},
		{TypeInteger, ""},
		{TypeFloat, "one"},
		{TypeBool, "yes"},
		{TypeChar, ""},
		{TypeChar, "ab"},
		{TypeDuration, "10 parsecs"},
		{TypeTime, "yesterday"},
		{TypeGlob, "[unterminated"},
		{ListOf(TypeInteger), "[1, 2]"},
		{TypeBinaryReader, "x"},
	}
	for _, test := range tests {
		t.Run(test.typ.String()+"/"+test.text, func(t *testing.T) {
			_, err := test.typ.Parse(test.text)
			if err == nil {
				t.Fatalf("Parse(%q) as %s succeeded, want error", test.text, test.typ)
			}
			if !joberror.Is(err, joberror.KindParse) {
				t.Errorf("error kind = %q, want parse", joberror.KindOf(err))
			}
		})
	}
}

func TestParse_ErrorNamesTextAndType(t *testing.T) {
	_, err := TypeInteger.Parse("not-a-number")
	if err == nil {
		t.Fatal("expected error")
	}
	message := err.Error()
	if !strings.Contains(message, "not-a-number") || !strings.Contains(message, "integer") {
		t.Errorf("error %q should name the text and the type", message)
	}
}

func TestList_String(t *testing.T) {
	list, err := NewList(TypeInteger, Integer(1), Integer(2))
	if err != nil {
		t.Fatalf("NewList error: %v", err)
	}
	if got := list.String(); got != "[1, 2]" {
		t.Errorf("String() = %q", got)
	}
	if !list.Type().Equal(ListOf(TypeInteger)) {
		t.Errorf("Type() = %s", list.Type())
	}
}

func TestNewList_RejectsWrongElement(t *testing.T) {
	_, err := NewList(TypeInteger, Integer(1), Text("two"))
	if !joberror.Is(err, joberror.KindType) {
		t.Fatalf("NewList error = %v, want type error", err)
	}
}

func TestEqual(t *testing.T) {
	a, _ := NewList(TypeString, Text("x"), Text("y"))
	b, _ := NewList(TypeString, Text("x"), Text("y"))
	c, _ := NewList(TypeString, Text("x"))
	if !Equal(a, b) {
		t.Error("equal lists compare unequal")
	}
	if Equal(a, c) {
		t.Error("different lists compare equal")
	}
	if Equal(Integer(1), Float(1)) {
		t.Error("integer 1 equals float 1")
	}
	if !Equal(Binary("ab"), Binary("ab")) {
		t.Error("equal binaries compare unequal")
	}
}
