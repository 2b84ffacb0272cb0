// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"testing"

	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/pipeline"
	"github.com/cxz/crush/lib/value"
)

func TestLetGet(t *testing.T) {
	h := newHarness(t, "")

	h.mustRun(nil, pipeline.Call("let", positional(text("limit")), named("value", value.Integer(5))))
	h.mustRun(people(t), pipeline.Call("count"), pipeline.Call("let", positional(text("total"))))

	for name, want := range map[string]value.Value{
		"limit": value.Integer(5),
		"total": value.Integer(4),
	} {
		result := h.mustRun(nil, pipeline.Call("get", positional(text(name))))
		if !value.Equal(result.Value, want) {
			t.Errorf("get %s: got %v, want %v", name, result.Value, want)
		}
	}
}

func TestSet(t *testing.T) {
	h := newHarness(t, "")
	h.mustRun(nil, pipeline.Call("let", positional(text("n")), named("value", value.Integer(1))))
	h.mustRun(nil, pipeline.Call("set", positional(text("n")), named("value", value.Integer(2))))

	if got, _ := h.scope.Lookup("n"); !value.Equal(got, value.Integer(2)) {
		t.Errorf("after set: got %v, want 2", got)
	}
	if _, err := h.run(nil, pipeline.Call("set", positional(text("n")), named("value", text("two")))); err == nil {
		t.Error("set with a different type succeeded")
	}
	if _, err := h.run(nil, pipeline.Call("set", positional(text("undeclared")), named("value", value.Integer(1)))); err == nil {
		t.Error("set of an undeclared variable succeeded")
	}
}

func TestLet_Errors(t *testing.T) {
	h := newHarness(t, "")

	if _, err := h.run(people(t), pipeline.Call("let", positional(text("rows")))); !joberror.Is(err, joberror.KindType) {
		t.Errorf("binding a stream: got %v, want a type error", err)
	}
	if _, err := h.run(nil, pipeline.Call("let", positional(text("nothing")))); !joberror.Is(err, joberror.KindArgument) {
		t.Errorf("binding no input: got %v, want an argument error", err)
	}
	if _, err := h.run(nil, pipeline.Call("get", positional(text("nothing")))); !joberror.Is(err, joberror.KindArgument) {
		t.Errorf("get of an unbound name: got %v, want an argument error", err)
	}
}

func TestLet_ScopedCommandShadowsBuiltin(t *testing.T) {
	h := newHarness(t, "")
	custom, ok := Registry().Lookup("global", "stream", "count")
	if !ok {
		t.Fatal("count not declared")
	}
	// Binding a command reference under "head" makes head resolve to
	// count in this scope.
	if err := h.scope.Declare("head", custom.Ref()); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	result := h.mustRun(people(t), pipeline.Call("head"))
	if !value.Equal(result.Value, value.Integer(4)) {
		t.Errorf("got %v, want the row count", result.Value)
	}
}
