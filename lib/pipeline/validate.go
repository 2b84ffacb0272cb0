// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cxz/crush/lib/value"
)

// Validate checks a descriptor for structural issues. Returns a list of
// human-readable issue descriptions; an empty list means the descriptor
// is valid. Commands are not resolved and variables are not bound, so a
// valid descriptor can still fail to build.
//
// Structural checks include:
//   - At least one stage is required
//   - Each stage sets exactly one of command or method
//   - A method stage has a receiver; a command stage has none
//   - Command names have no empty segments
//   - Every argument and receiver decodes to a value
//   - Variable names are identifiers, types parse, and defaults parse as
//     their declared type
func Validate(descriptor *Descriptor) []string {
	var issues []string

	if len(descriptor.Entries) == 0 {
		issues = append(issues, "pipeline has no stages (at least one stage is required)")
	}

	decoder := &argumentDecoder{check: true}
	for index, entry := range descriptor.Entries {
		prefix := fmt.Sprintf("stages[%d]", index)
		if entry.Command != "" {
			prefix = fmt.Sprintf("stages[%d] %q", index, entry.Command)
		}

		if entry.Command != "" && len(entry.Receiver) > 0 {
			issues = append(issues, fmt.Sprintf("%s: receiver is only valid on method stages", prefix))
		}
		if entry.Command != "" && hasEmptySegment(entry.Command) {
			issues = append(issues, fmt.Sprintf("%s: command name has an empty segment", prefix))
		}
		if _, err := decoder.stage(entry); err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", prefix, err))
		}
	}

	names := make([]string, 0, len(descriptor.Variables))
	for name := range descriptor.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		declaration := descriptor.Variables[name]
		prefix := fmt.Sprintf("variables.%s", name)
		if !variableName.MatchString(name) {
			issues = append(issues, fmt.Sprintf("%s: name must be a letter or underscore followed by letters, digits, or underscores", prefix))
		}
		declared := value.TypeString
		if declaration.Type != "" {
			parsed, err := value.ParseType(declaration.Type)
			if err != nil {
				issues = append(issues, fmt.Sprintf("%s: %v", prefix, err))
				continue
			}
			if !parsed.Kind.Scalar() {
				issues = append(issues, fmt.Sprintf("%s: type %s cannot be given as text", prefix, parsed))
				continue
			}
			declared = parsed
		}
		if declaration.Default != "" {
			if _, err := declared.Parse(declaration.Default); err != nil {
				issues = append(issues, fmt.Sprintf("%s: default: %v", prefix, err))
			}
		}
	}

	return issues
}

func hasEmptySegment(name string) bool {
	for _, segment := range strings.Split(name, ":") {
		if segment == "" {
			return true
		}
	}
	return false
}
