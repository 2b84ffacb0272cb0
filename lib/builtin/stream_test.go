// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/pipeline"
	"github.com/cxz/crush/lib/value"
)

var personSchema = value.MustSchema(
	value.Column("name", value.TypeString),
	value.Column("age", value.TypeInteger),
)

func people(t *testing.T) value.Value {
	return rowsInput(t, personSchema,
		row(value.Text("alice"), value.Integer(30)),
		row(value.Text("bob"), value.Integer(12)),
		row(value.Text("anna"), value.Integer(45)),
		row(value.Text("bob"), value.Integer(12)),
	)
}

func TestHead_KeepsFirstRowsAndStopsProducer(t *testing.T) {
	var lines strings.Builder
	for i := range 10000 {
		fmt.Fprintf(&lines, "row%d,%d\n", i, i)
	}
	h := newHarness(t, "")

	result := h.mustRun(binaryInput(lines.String()), peopleCSV(), pipeline.Call("head", positional(value.Integer(2))))

	requireRows(t, result,
		row(value.Text("row0"), value.Integer(0)),
		row(value.Text("row1"), value.Integer(1)),
	)
}

func TestHead_DefaultAndShortInput(t *testing.T) {
	h := newHarness(t, "")
	result := h.mustRun(people(t), pipeline.Call("head"))
	if len(result.Rows) != 4 {
		t.Errorf("got %d rows, want all 4", len(result.Rows))
	}

	if _, err := h.run(people(t), pipeline.Call("head", positional(value.Integer(-1)))); !joberror.Is(err, joberror.KindArgument) {
		t.Errorf("negative rows: got %v, want an argument error", err)
	}
}

func TestWhere(t *testing.T) {
	tests := []struct {
		condition string
		want      []string
	}{
		{`age >= 18`, []string{"alice", "anna"}},
		{`strings.HasPrefix(name, "a") && age < 40`, []string{"alice"}},
		{`row["name"] == "bob"`, []string{"bob", "bob"}},
		{`false`, nil},
	}
	for _, test := range tests {
		t.Run(test.condition, func(t *testing.T) {
			h := newHarness(t, "")
			result := h.mustRun(people(t), pipeline.Call("where", positional(text(test.condition))))
			if !result.Schema.Equal(personSchema) {
				t.Errorf("schema: got %s, want %s", result.Schema, personSchema)
			}
			var got []string
			for _, r := range result.Rows {
				got = append(got, r.Cell(0).String())
			}
			if strings.Join(got, ",") != strings.Join(test.want, ",") {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestWhere_InvalidCondition(t *testing.T) {
	h := newHarness(t, "")
	_, err := h.run(people(t), pipeline.Call("where", positional(text("age >"))))
	if !joberror.Is(err, joberror.KindArgument) {
		t.Errorf("got %v, want an argument error", err)
	}
}

func TestWhere_PanickingRowIsReported(t *testing.T) {
	h := newHarness(t, "")
	result := h.mustRun(people(t), pipeline.Call("where", positional(text(`row["missing"].(int64) > 0`))))
	if len(result.Rows) != 0 {
		t.Errorf("got %d rows, want none", len(result.Rows))
	}
	if got := h.printer.Count(); got != 4 {
		t.Errorf("got %d diagnostics, want one per row", got)
	}
}

func TestReferencedPackages(t *testing.T) {
	got := referencedPackages(`strings.HasPrefix(name, "math.") && x.strings == nil || math.Abs(f) > 1`)
	want := []string{"math", "strings"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelect(t *testing.T) {
	h := newHarness(t, "")
	result := h.mustRun(people(t), pipeline.Call("select", positional(text("age")), positional(text("name"))))

	want := value.MustSchema(value.Column("age", value.TypeInteger), value.Column("name", value.TypeString))
	if !result.Schema.Equal(want) {
		t.Fatalf("schema: got %s, want %s", result.Schema, want)
	}
	if got := result.Rows[0]; !got.Equal(row(value.Integer(30), value.Text("alice"))) {
		t.Errorf("first row: got %s", got)
	}

	if _, err := h.run(people(t), pipeline.Call("select", positional(text("email")))); !joberror.Is(err, joberror.KindSchema) {
		t.Errorf("unknown column: got %v, want a schema error", err)
	}
}

func TestUniq(t *testing.T) {
	h := newHarness(t, "")
	result := h.mustRun(people(t), pipeline.Call("uniq"))
	requireRows(t, result,
		row(value.Text("alice"), value.Integer(30)),
		row(value.Text("bob"), value.Integer(12)),
		row(value.Text("anna"), value.Integer(45)),
	)
}

func TestCount(t *testing.T) {
	h := newHarness(t, "")
	result := h.mustRun(people(t), pipeline.Call("count"))
	if !value.Equal(result.Value, value.Integer(4)) {
		t.Errorf("got %v, want 4", result.Value)
	}
}

func TestCollect(t *testing.T) {
	h := newHarness(t, "")
	result := h.mustRun(people(t), pipeline.Call("collect", positional(text("age"))))
	list, ok := result.Value.(*value.List)
	if !ok {
		t.Fatalf("got %v, want a list", result.Value)
	}
	if !list.Elem().Equal(value.TypeInteger) || list.Len() != 4 || !value.Equal(list.At(2), value.Integer(45)) {
		t.Errorf("got %s, want the age column", list)
	}

	if _, err := h.run(people(t), pipeline.Call("collect")); !joberror.Is(err, joberror.KindArgument) {
		t.Errorf("ambiguous column: got %v, want an argument error", err)
	}
}

func TestHash_EqualRowsEqualDigests(t *testing.T) {
	h := newHarness(t, "")
	result := h.mustRun(people(t), pipeline.Call("hash"))

	if !result.Schema.Equal(hashSchema) {
		t.Fatalf("schema: got %s, want %s", result.Schema, hashSchema)
	}
	if len(result.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(result.Rows))
	}
	digests := make([]string, len(result.Rows))
	for i, r := range result.Rows {
		if !value.Equal(r.Cell(0), value.Integer(i)) {
			t.Errorf("row %d: position %s", i, r.Cell(0))
		}
		digests[i] = r.Cell(1).String()
		if len(digests[i]) != 64 {
			t.Errorf("row %d: digest %q is not 32 hex bytes", i, digests[i])
		}
	}
	if digests[1] != digests[3] {
		t.Errorf("equal rows hashed differently: %s, %s", digests[1], digests[3])
	}
	if digests[0] == digests[1] {
		t.Errorf("different rows hashed equal: %s", digests[0])
	}
}

func TestRowDigest_DistinguishesKinds(t *testing.T) {
	integer, err := rowDigest(row(value.Integer(2)))
	if err != nil {
		t.Fatalf("rowDigest: %v", err)
	}
	float, err := rowDigest(row(value.Float(2)))
	if err != nil {
		t.Fatalf("rowDigest: %v", err)
	}
	if integer == float {
		t.Error("integer 2 and float 2 have the same digest")
	}
}
