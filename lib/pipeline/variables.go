// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cxz/crush/lib/scope"
	"github.com/cxz/crush/lib/value"
)

// variablePattern matches ${NAME} references in strings. Only the
// braced form is recognized. Variable names must start with a letter or
// underscore and contain only letters, digits, and underscores.
var variablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// variableName matches a whole valid variable name.
var variableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ResolveVariables merges variable sources in resolution order (lowest
// to highest priority):
//
//  1. Declared defaults
//  2. Environment lookup via the environ function
//  3. Payload values, typically from --set on the command line
//
// Returns an error if any required variable has no value from any
// source. environ is only consulted for declared variables; a nil
// environ skips the environment.
func ResolveVariables(declarations map[string]Variable, payload map[string]string, environ func(string) string) (map[string]string, error) {
	resolved := make(map[string]string, len(declarations)+len(payload))

	for name, declaration := range declarations {
		if declaration.Default != "" {
			resolved[name] = declaration.Default
		}
	}

	if environ != nil {
		for name := range declarations {
			if environmentValue := environ(name); environmentValue != "" {
				resolved[name] = environmentValue
			}
		}
	}

	for name, payloadValue := range payload {
		resolved[name] = payloadValue
	}

	var missing []string
	for name, declaration := range declarations {
		if declaration.Required {
			if _, exists := resolved[name]; !exists {
				missing = append(missing, name)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("required pipeline variables not set: %s", strings.Join(missing, ", "))
	}

	return resolved, nil
}

// DeclareVariables binds every resolved variable in sc, parsed as its
// declared type (string when undeclared or untyped), in name order.
func DeclareVariables(sc *scope.Scope, declarations map[string]Variable, resolved map[string]string) error {
	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		declared := value.TypeString
		if typeName := declarations[name].Type; typeName != "" {
			var err error
			if declared, err = value.ParseType(typeName); err != nil {
				return fmt.Errorf("variable %s: %w", name, err)
			}
		}
		parsed, err := declared.Parse(resolved[name])
		if err != nil {
			return fmt.Errorf("variable %s: %w", name, err)
		}
		if err := sc.Declare(name, parsed); err != nil {
			return err
		}
	}
	return nil
}

// Expand replaces ${NAME} references in input with values from the
// variables map. Returns an error listing every referenced variable that
// has no value.
func Expand(input string, variables map[string]string) (string, error) {
	var unresolved []string

	result := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[2 : len(match)-1]
		if resolvedValue, exists := variables[name]; exists {
			return resolvedValue
		}
		unresolved = append(unresolved, name)
		return match
	})

	if len(unresolved) > 0 {
		return "", fmt.Errorf("unresolved pipeline variables: %s", strings.Join(unresolved, ", "))
	}

	return result, nil
}
