// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package joberror

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestConstructors_SetKind(t *testing.T) {
	tests := []struct {
		name string
		err  *JobError
		want Kind
	}{
		{"argument", Argument("bad %s", "x"), KindArgument},
		{"type", Type("bad"), KindType},
		{"parse", Parse("bad"), KindParse},
		{"schema", Schema("bad"), KindSchema},
		{"command not found", CommandNotFound("bad"), KindCommandNotFound},
		{"method not found", MethodNotFound("bad"), KindMethodNotFound},
		{"io", IO("bad"), KindIO},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.err.Kind != test.want {
				t.Errorf("Kind = %q, want %q", test.err.Kind, test.want)
			}
		})
	}
}

func TestError_MessageExcludesKind(t *testing.T) {
	err := Argument("Unknown parameter %s", "frobnicate")
	if got := err.Error(); got != "Unknown parameter frobnicate" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKindOf_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("stage 2: %w", Schema("row has 3 cells, schema has 2 columns"))
	if got := KindOf(err); got != KindSchema {
		t.Errorf("KindOf() = %q, want %q", got, KindSchema)
	}
	if !Is(err, KindSchema) {
		t.Error("Is(err, KindSchema) = false, want true")
	}
	if Is(err, KindParse) {
		t.Error("Is(err, KindParse) = true, want false")
	}
	if got := KindOf(io.EOF); got != "" {
		t.Errorf("KindOf(io.EOF) = %q, want empty", got)
	}
}

func TestIs_NestedKinds(t *testing.T) {
	inner := IO("open people.csv: permission denied")
	outer := New(KindArgument, fmt.Errorf("file operand: %w", inner))
	if !Is(outer, KindArgument) {
		t.Error("outer kind not found")
	}
	if !Is(outer, KindIO) {
		t.Error("inner kind not found")
	}
}

func TestNew_NilPassesThrough(t *testing.T) {
	if err := New(KindIO, nil); err != nil {
		t.Errorf("New(nil) = %v, want nil", err)
	}
}

func TestUnwrap_PreservesSentinel(t *testing.T) {
	err := New(KindIO, fmt.Errorf("reading: %w", io.ErrUnexpectedEOF))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is lost the wrapped sentinel")
	}
}
