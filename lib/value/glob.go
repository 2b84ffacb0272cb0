// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/cxz/crush/lib/joberror"
)

// Glob is a compiled path pattern:
//
//   - "*" matches any run of characters within one segment
//   - "?" matches a single non-slash character
//   - "[...]" matches a character class, as in path.Match
//   - "**" as a whole segment matches zero or more segments
//
// "*" and "?" never match "/". Use "**" to cross directory boundaries:
// "src/**/*.go" matches "src/main.go" and "src/lib/value/glob.go".
type Glob struct {
	pattern  string
	segments []string
}

// NewGlob compiles pattern. Malformed character classes are rejected
// here rather than at match time.
func NewGlob(pattern string) (*Glob, error) {
	segments := strings.Split(pattern, "/")
	for _, segment := range segments {
		if segment == "**" {
			continue
		}
		if _, err := path.Match(segment, ""); err != nil {
			return nil, joberror.Parse("malformed glob %q: %v", pattern, err)
		}
	}
	return &Glob{pattern: pattern, segments: segments}, nil
}

func (*Glob) Type() Type       { return TypeGlob }
func (g *Glob) String() string { return g.pattern }
func (*Glob) sealed()          {}

// Pattern returns the source pattern.
func (g *Glob) Pattern() string { return g.pattern }

// Match reports whether text matches the whole pattern.
func (g *Glob) Match(text string) bool {
	return matchSegments(g.segments, strings.Split(text, "/"))
}

// matchSegments walks pattern and subject segments in step. A "**"
// segment tries every split point: it consumes nothing, or one subject
// segment and stays in place.
func matchSegments(pattern, subject []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			// Collapse runs of "**" so the recursion depth stays linear.
			for len(pattern) > 1 && pattern[1] == "**" {
				pattern = pattern[1:]
			}
			if matchSegments(pattern[1:], subject) {
				return true
			}
			if len(subject) == 0 || subject[0] == "" {
				return false
			}
			subject = subject[1:]
			continue
		}
		if len(subject) == 0 {
			return false
		}
		matched, err := path.Match(pattern[0], subject[0])
		if err != nil || !matched {
			return false
		}
		pattern = pattern[1:]
		subject = subject[1:]
	}
	return len(subject) == 0
}

// Files walks root and returns every regular file whose slash-separated
// path relative to root matches the pattern, in lexical order.
func (g *Glob) Files(root string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(root, func(current string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		relative, err := filepath.Rel(root, current)
		if err != nil {
			return err
		}
		if g.Match(filepath.ToSlash(relative)) {
			files = append(files, File(current))
		}
		return nil
	})
	if err != nil {
		return nil, joberror.IO("glob %q: %v", g.pattern, err)
	}
	return files, nil
}
