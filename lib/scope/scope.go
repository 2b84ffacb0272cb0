// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package scope implements the lexical binding environment visible at a
// call site.
//
// Scopes form a parent chain: [Scope.Lookup] walks from the innermost
// scope outward, so a binding in a child shadows the same name in any
// ancestor. Bindings are guarded by a per-scope RWMutex; sibling
// pipeline stages may read and write a shared scope concurrently and
// every operation is linearizable.
//
// [Scope.Readonly] freezes a scope. The root scope that holds the
// process-wide bindings is frozen once it is populated; frozen scopes
// reject Declare and Set with an error, while children of a frozen scope
// remain writable.
package scope

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cxz/crush/lib/value"
)

// ErrReadonly is returned when writing to a frozen scope.
var ErrReadonly = errors.New("scope is read-only")

// ErrNotDeclared is returned by Set when no scope in the chain binds the
// name.
var ErrNotDeclared = errors.New("variable not declared")

// Scope is one level of the binding chain.
type Scope struct {
	parent *Scope

	mu       sync.RWMutex
	bindings map[string]value.Value
	readonly bool
}

// New returns an empty root scope.
func New() *Scope {
	return &Scope{bindings: make(map[string]value.Value)}
}

// Child returns a new scope whose lookups fall back to s.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, bindings: make(map[string]value.Value)}
}

// Parent returns the enclosing scope, or nil for a root.
func (s *Scope) Parent() *Scope { return s.parent }

// Lookup returns the innermost binding of name.
func (s *Scope) Lookup(name string) (value.Value, bool) {
	for current := s; current != nil; current = current.parent {
		current.mu.RLock()
		bound, exists := current.bindings[name]
		current.mu.RUnlock()
		if exists {
			return bound, true
		}
	}
	return nil, false
}

// Declare binds name in this scope, replacing any binding it already
// holds here. Bindings of the same name in ancestors are shadowed, not
// modified.
func (s *Scope) Declare(name string, v value.Value) error {
	if name == "" {
		return errors.New("declaring variable: empty name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readonly {
		return fmt.Errorf("declaring %q: %w", name, ErrReadonly)
	}
	s.bindings[name] = v
	return nil
}

// Set replaces the innermost existing binding of name. The binding's type
// may not change.
func (s *Scope) Set(name string, v value.Value) error {
	for current := s; current != nil; current = current.parent {
		current.mu.Lock()
		existing, exists := current.bindings[name]
		if !exists {
			current.mu.Unlock()
			continue
		}
		defer current.mu.Unlock()
		if current.readonly {
			return fmt.Errorf("setting %q: %w", name, ErrReadonly)
		}
		if !existing.Type().Accepts(v.Type()) {
			return fmt.Errorf("setting %q: variable holds %s, got %s", name, existing.Type(), v.Type())
		}
		current.bindings[name] = v
		return nil
	}
	return fmt.Errorf("setting %q: %w", name, ErrNotDeclared)
}

// Readonly freezes this scope. It does not affect ancestors or
// children.
func (s *Scope) Readonly() {
	s.mu.Lock()
	s.readonly = true
	s.mu.Unlock()
}

// IsReadonly reports whether Readonly has been called on this scope.
func (s *Scope) IsReadonly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readonly
}

// Names returns every name visible from s, sorted.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})
	for current := s; current != nil; current = current.parent {
		current.mu.RLock()
		for name := range current.bindings {
			seen[name] = struct{}{}
		}
		current.mu.RUnlock()
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
