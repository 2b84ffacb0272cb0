// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"run", "", 3},
		{"check", "check", 0},
		{"chekc", "check", 2},
		{"comands", "commands", 1},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "run"}, {Name: "check"}, {Name: "commands"}, {Name: "help"}}
	tests := []struct {
		input string
		want  string
	}{
		{"rnu", "run"},
		{"chek", "check"},
		{"halp", "help"},
		{"completely-different", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	newSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flagSet.String("config", "", "")
		flagSet.StringP("format", "f", "", "")
		return flagSet
	}
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--confg=x"}, "--config"},
		{[]string{"-f", "json", "--fromat"}, "--format"},
		{[]string{"job.jsonc", "--zzzzzzzz"}, ""},
		{[]string{"--", "--confg"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, newSet()); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
