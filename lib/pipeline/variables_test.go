// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"strings"
	"testing"

	"github.com/cxz/crush/lib/scope"
	"github.com/cxz/crush/lib/value"
)

func TestResolveVariables(t *testing.T) {
	t.Parallel()

	t.Run("defaults only", func(t *testing.T) {
		t.Parallel()

		declarations := map[string]Variable{
			"INPUT": {Default: "people.csv"},
			"LIMIT": {Default: "10"},
		}
		resolved, err := ResolveVariables(declarations, nil, nil)
		if err != nil {
			t.Fatalf("ResolveVariables: %v", err)
		}
		if resolved["INPUT"] != "people.csv" {
			t.Errorf("INPUT = %q, want %q", resolved["INPUT"], "people.csv")
		}
		if resolved["LIMIT"] != "10" {
			t.Errorf("LIMIT = %q, want %q", resolved["LIMIT"], "10")
		}
	})

	t.Run("payload overrides environment and defaults", func(t *testing.T) {
		t.Parallel()

		declarations := map[string]Variable{"INPUT": {Default: "people.csv"}}
		environ := func(name string) string {
			if name == "INPUT" {
				return "from-env.csv"
			}
			return ""
		}

		resolved, err := ResolveVariables(declarations, nil, environ)
		if err != nil {
			t.Fatalf("ResolveVariables: %v", err)
		}
		if resolved["INPUT"] != "from-env.csv" {
			t.Errorf("INPUT = %q, want %q", resolved["INPUT"], "from-env.csv")
		}

		resolved, err = ResolveVariables(declarations, map[string]string{"INPUT": "set.csv"}, environ)
		if err != nil {
			t.Fatalf("ResolveVariables: %v", err)
		}
		if resolved["INPUT"] != "set.csv" {
			t.Errorf("INPUT = %q, want %q", resolved["INPUT"], "set.csv")
		}
	})

	t.Run("environ only checks declared variables", func(t *testing.T) {
		t.Parallel()

		environ := func(name string) string {
			if name == "UNDECLARED" {
				return "should-not-appear"
			}
			return ""
		}
		resolved, err := ResolveVariables(map[string]Variable{"DECLARED": {}}, nil, environ)
		if err != nil {
			t.Fatalf("ResolveVariables: %v", err)
		}
		if _, exists := resolved["UNDECLARED"]; exists {
			t.Error("UNDECLARED should not be in resolved map")
		}
	})

	t.Run("multiple required variables missing", func(t *testing.T) {
		t.Parallel()

		declarations := map[string]Variable{
			"BRAVO": {Required: true},
			"ALPHA": {Required: true},
		}
		_, err := ResolveVariables(declarations, nil, nil)
		if err == nil {
			t.Fatal("expected error for missing required variables")
		}
		if !strings.Contains(err.Error(), "ALPHA, BRAVO") {
			t.Errorf("error should list both variables alphabetically: %v", err)
		}
	})
}

func TestDeclareVariables(t *testing.T) {
	declarations := map[string]Variable{
		"LIMIT":   {Type: "integer"},
		"PATTERN": {Type: "glob"},
	}
	resolved := map[string]string{"LIMIT": "5", "PATTERN": "*.csv", "NOTE": "free text"}

	sc := scope.New()
	if err := DeclareVariables(sc, declarations, resolved); err != nil {
		t.Fatalf("DeclareVariables: %v", err)
	}
	if got, _ := sc.Lookup("LIMIT"); got != value.Integer(5) {
		t.Errorf("LIMIT = %v, want integer 5", got)
	}
	if got, _ := sc.Lookup("PATTERN"); got == nil || got.Type().Kind != value.KindGlob {
		t.Errorf("PATTERN = %v, want a glob", got)
	}
	if got, _ := sc.Lookup("NOTE"); got != value.Text("free text") {
		t.Errorf("NOTE = %v, want text", got)
	}

	err := DeclareVariables(scope.New(), declarations, map[string]string{"LIMIT": "five"})
	if err == nil || !strings.Contains(err.Error(), "LIMIT") {
		t.Fatalf("DeclareVariables with a bad integer = %v, want an error naming LIMIT", err)
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		variables map[string]string
		want      string
	}{
		{"simple substitution", "${INPUT}", map[string]string{"INPUT": "a.csv"}, "a.csv"},
		{"multiple references", "${DIR}/${FILE}", map[string]string{"DIR": "data", "FILE": "a.csv"}, "data/a.csv"},
		{"repeated reference", "${X} and ${X}", map[string]string{"X": "value"}, "value and value"},
		{"bare dollar untouched", "$HOME ${X}", map[string]string{"X": "value"}, "$HOME value"},
		{"no references", "plain", nil, "plain"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := Expand(test.input, test.variables)
			if err != nil {
				t.Fatalf("Expand: %v", err)
			}
			if got != test.want {
				t.Errorf("Expand(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}

	t.Run("unresolved references", func(t *testing.T) {
		t.Parallel()
		_, err := Expand("${A} ${B}", map[string]string{"A": "1"})
		if err == nil || !strings.Contains(err.Error(), "B") {
			t.Fatalf("Expand = %v, want an error naming B", err)
		}
	})
}
