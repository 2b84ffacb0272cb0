// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cxz/crush/lib/scope"
	"github.com/cxz/crush/lib/value"
)

const adultsDescriptor = `{
  // People over eighteen.
  "description": "adults",
  "variables": {
    "INPUT": {"default": "people.csv"},
    "LIMIT": {"type": "integer", "default": "3"},
  },
  "stages": [
    {"command": "io:csv", "arguments": [
      "${INPUT}",
      {"name": "col", "value": "name:string"},
      {"name": "col", "value": "age:integer"},
      {"name": "sep", "value": {"type": "char", "value": ";"}},
    ]},
    {"command": "head", "arguments": [{"name": "rows", "value": {"var": "LIMIT"}}]},
    /* method call on a glob value */
    {"receiver": {"type": "glob", "value": "*.txt"}, "method": "match", "arguments": ["a.txt"]},
    {"command": "echo", "arguments": [1, 2.5, true, ["x", "y"], [1, "mixed"]]},
  ],
}`

func TestParseDescriptor(t *testing.T) {
	descriptor, err := ParseDescriptor([]byte(adultsDescriptor))
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	if descriptor.Description != "adults" {
		t.Errorf("Description = %q, want adults", descriptor.Description)
	}
	if len(descriptor.Entries) != 4 {
		t.Fatalf("len(Entries) = %d, want 4", len(descriptor.Entries))
	}
	if descriptor.Variables["LIMIT"].Type != "integer" {
		t.Errorf("LIMIT type = %q, want integer", descriptor.Variables["LIMIT"].Type)
	}
	if issues := Validate(descriptor); len(issues) != 0 {
		t.Fatalf("Validate: %v", issues)
	}

	if _, err := ParseDescriptor([]byte(`{"stages": [}`)); err == nil {
		t.Fatal("ParseDescriptor should reject malformed JSON")
	}
}

func TestDescriptor_Stages(t *testing.T) {
	descriptor, err := ParseDescriptor([]byte(adultsDescriptor))
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	resolved, err := ResolveVariables(descriptor.Variables, map[string]string{"INPUT": "census.csv"}, nil)
	if err != nil {
		t.Fatalf("ResolveVariables: %v", err)
	}
	sc := scope.New()
	if err := DeclareVariables(sc, descriptor.Variables, resolved); err != nil {
		t.Fatalf("DeclareVariables: %v", err)
	}

	stages, err := descriptor.Stages(sc, resolved)
	if err != nil {
		t.Fatalf("Stages: %v", err)
	}

	csv := stages[0]
	if got := strings.Join(csv.Command, ":"); got != "io:csv" {
		t.Errorf("stage 0 command = %s, want io:csv", got)
	}
	if got := csv.Arguments[0].Value; got != value.Text("census.csv") {
		t.Errorf("stage 0 operand = %v, want census.csv", got)
	}
	if csv.Arguments[1].Name != "col" || csv.Arguments[2].Value != value.Text("age:integer") {
		t.Errorf("stage 0 col arguments = %v", csv.Arguments)
	}
	if got := csv.Arguments[3].Value; got != value.Char(';') {
		t.Errorf("sep = %v, want char ;", got)
	}

	if got := stages[1].Arguments[0].Value; got != value.Integer(3) {
		t.Errorf("rows = %v, want integer 3 from the LIMIT variable", got)
	}

	method := stages[2]
	if method.Method != "match" || method.Receiver == nil || method.Receiver.Type().Kind != value.KindGlob {
		t.Errorf("stage 2 = %v, want match on a glob", method)
	}

	echo := stages[3].Arguments
	if echo[0].Value != value.Integer(1) || echo[1].Value != value.Float(2.5) || echo[2].Value != value.Bool(true) {
		t.Errorf("scalar literals = %v", echo)
	}
	if got := echo[3].Value.Type().String(); got != "list<string>" {
		t.Errorf("homogeneous list type = %s, want list<string>", got)
	}
	if got := echo[4].Value.Type().String(); got != "list<any>" {
		t.Errorf("mixed list type = %s, want list<any>", got)
	}
}

func TestDescriptor_StagesErrors(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		contains string
	}{
		{"unbound var", `{"stages": [{"command": "x", "arguments": [{"var": "nope"}]}]}`, `unbound variable "nope"`},
		{"unresolved expansion", `{"stages": [{"command": "x", "arguments": ["${NOPE}"]}]}`, "NOPE"},
		{"null", `{"stages": [{"command": "x", "arguments": [null]}]}`, "null"},
		{"bad typed literal", `{"stages": [{"command": "x", "arguments": [{"type": "integer", "value": "ten"}]}]}`, "ten"},
		{"untyped object", `{"stages": [{"command": "x", "arguments": [{"value": 1}]}]}`, "type"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			descriptor, err := ParseDescriptor([]byte(test.json))
			if err != nil {
				t.Fatalf("ParseDescriptor: %v", err)
			}
			_, err = descriptor.Stages(scope.New(), nil)
			if err == nil || !strings.Contains(err.Error(), test.contains) {
				t.Fatalf("Stages = %v, want an error containing %q", err, test.contains)
			}
			if !strings.Contains(err.Error(), "stages[0]") {
				t.Errorf("error %q should locate the stage", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	descriptor, err := ParseDescriptor([]byte(`{
  "variables": {
    "bad-name": {},
    "COUNT": {"type": "integer", "default": "many"},
    "ITEMS": {"type": "list<integer>"},
  },
  "stages": [
    {"command": "a", "method": "b"},
    {},
    {"method": "match"},
    {"command": "io::csv"},
    {"command": "x", "receiver": "y"},
    {"command": "x", "arguments": [{"name": "", "value": 1}]},
  ],
}`))
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}

	issues := strings.Join(Validate(descriptor), "\n")
	for _, want := range []string{
		"stages[0] \"a\": command and method are mutually exclusive",
		"stages[1]: must set either command or method",
		"stages[2]: method match requires a receiver",
		"stages[3] \"io::csv\": command name has an empty segment",
		"stages[4] \"x\": receiver is only valid on method stages",
		"stages[5] \"x\": arguments[0]: argument name must be a non-empty string",
		"variables.bad-name: name must be",
		"variables.COUNT: default:",
		"variables.ITEMS: type list<integer> cannot be given as text",
	} {
		if !strings.Contains(issues, want) {
			t.Errorf("issues missing %q; got:\n%s", want, issues)
		}
	}

	if issues := Validate(&Descriptor{}); len(issues) != 1 || !strings.Contains(issues[0], "no stages") {
		t.Errorf("Validate(empty) = %v, want one no-stages issue", issues)
	}
}

func TestReadDescriptor(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "adults.jsonc")
	if err := os.WriteFile(path, []byte(adultsDescriptor), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	descriptor, err := ReadDescriptor(path)
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if len(descriptor.Entries) != 4 {
		t.Errorf("len(Entries) = %d, want 4", len(descriptor.Entries))
	}
	if NameFromPath(path) != "adults" {
		t.Errorf("NameFromPath = %q, want adults", NameFromPath(path))
	}

	_, err = ReadDescriptor(filepath.Join(directory, "missing.jsonc"))
	if err == nil || !strings.Contains(err.Error(), "missing.jsonc") {
		t.Fatalf("ReadDescriptor(missing) = %v, want an error naming the file", err)
	}
}
