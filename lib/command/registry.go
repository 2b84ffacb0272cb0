// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/scope"
	"github.com/cxz/crush/lib/value"
)

// Root is the first segment of every registered command path.
const Root = "global"

// Registry maps qualified paths to commands and value kinds to method
// tables.
type Registry struct {
	// mu serializes declarations. Once frozen is set, the maps below are
	// never written again and reads take no lock.
	mu     sync.Mutex
	frozen atomic.Bool

	commands   map[string]*Command
	methods    map[value.Kind]*MethodTable
	namespaces [][]string
}

// NewRegistry returns an empty, writable registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		methods:  make(map[value.Kind]*MethodTable),
	}
}

// Declare registers command under its path. Declaring an identical
// definition again is a no-op. Panics if the path is empty, the handler
// is nil, a different command already holds the path, or the registry
// is frozen.
func (r *Registry) Declare(command *Command) {
	if len(command.Path) == 0 {
		panic("command.Registry.Declare: empty path")
	}
	if command.Run == nil {
		panic(fmt.Sprintf("command.Registry.Declare(%s): nil handler", command.FullName()))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		panic(fmt.Sprintf("command.Registry.Declare(%s): registry is frozen", command.FullName()))
	}
	key := command.FullName()
	if existing, exists := r.commands[key]; exists {
		if existing.sameDefinition(command) {
			return
		}
		panic(fmt.Sprintf("command.Registry.Declare(%s): path already declared with a different definition", key))
	}
	r.commands[key] = command
}

// DeclareMethods registers the method table of kind. build runs once,
// on the first Method lookup for that kind. Declaring a second table for
// the same kind panics.
func (r *Registry) DeclareMethods(kind value.Kind, build func(table *MethodTable)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		panic(fmt.Sprintf("command.Registry.DeclareMethods(%s): registry is frozen", kind))
	}
	if _, exists := r.methods[kind]; exists {
		panic(fmt.Sprintf("command.Registry.DeclareMethods(%s): method table already declared", kind))
	}
	r.methods[kind] = &MethodTable{kind: kind, build: build}
}

// Use adds a namespace searched by Resolve after the global root.
// Namespaces are searched in declaration order.
func (r *Registry) Use(namespace ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		panic(fmt.Sprintf("command.Registry.Use(%s): registry is frozen", strings.Join(namespace, ":")))
	}
	r.namespaces = append(r.namespaces, slices.Clone(namespace))
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen.Load() }

// readLock takes the declaration lock while the registry is still
// writable. The returned function releases it.
func (r *Registry) readLock() func() {
	if r.frozen.Load() {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

// Lookup returns the command registered under exactly path.
func (r *Registry) Lookup(path ...string) (*Command, bool) {
	defer r.readLock()()
	command, exists := r.commands[strings.Join(path, ":")]
	return command, exists
}

// Resolve finds the command a free name refers to. The search order is:
// a command reference bound in sc under the joined name, the exact path,
// the path under the global root, then the path under each namespace in
// Use order. A nil sc skips the scope step.
func (r *Registry) Resolve(sc *scope.Scope, path ...string) (*Command, error) {
	if len(path) == 0 {
		return nil, joberror.CommandNotFound("empty command name")
	}
	name := strings.Join(path, ":")

	if sc != nil {
		if bound, exists := sc.Lookup(name); exists {
			if reference, ok := bound.(value.CommandRef); ok {
				if command, ok := reference.Callable.(*Command); ok {
					return command, nil
				}
			}
		}
	}

	release := r.readLock()
	defer release()

	if command, exists := r.commands[name]; exists {
		return command, nil
	}
	if path[0] != Root {
		if command, exists := r.commands[Root+":"+name]; exists {
			return command, nil
		}
	}
	for _, namespace := range r.namespaces {
		key := strings.Join(namespace, ":") + ":" + name
		if command, exists := r.commands[key]; exists {
			return command, nil
		}
	}

	message := fmt.Sprintf("Unknown command %q", name)
	if suggestion := suggest(name, r.shortNames()); suggestion != "" {
		message += fmt.Sprintf(", did you mean %q?", suggestion)
	}
	return nil, joberror.CommandNotFound("%s", message)
}

// shortNames lists every command by the shortest name Resolve accepts
// for it. Callers hold the read lock.
func (r *Registry) shortNames() []string {
	names := make([]string, 0, len(r.commands))
	for key := range r.commands {
		names = append(names, r.shortName(key))
	}
	sort.Strings(names)
	return names
}

func (r *Registry) shortName(key string) string {
	for _, namespace := range r.namespaces {
		prefix := strings.Join(namespace, ":") + ":"
		if strings.HasPrefix(key, prefix) {
			return strings.TrimPrefix(key, prefix)
		}
	}
	return strings.TrimPrefix(key, Root+":")
}

// ShortName returns the shortest name Resolve accepts for command.
func (r *Registry) ShortName(command *Command) string {
	defer r.readLock()()
	return r.shortName(command.FullName())
}

// Commands returns every registered command sorted by full name.
func (r *Registry) Commands() []*Command {
	release := r.readLock()
	commands := make([]*Command, 0, len(r.commands))
	for _, command := range r.commands {
		commands = append(commands, command)
	}
	release()

	sort.Slice(commands, func(i, j int) bool {
		return commands[i].FullName() < commands[j].FullName()
	})
	return commands
}

// Method finds the method name in the table of receiver's kind.
func (r *Registry) Method(receiver value.Value, name string) (*Command, error) {
	kind := receiver.Type().Kind
	table := r.table(kind)
	if table == nil {
		return nil, joberror.MethodNotFound("%s values have no methods (looking for %q)", kind, name)
	}
	if method, exists := table.lookup(name); exists {
		return method, nil
	}
	message := fmt.Sprintf("%s has no method %q", kind, name)
	if suggestion := suggest(name, table.Names()); suggestion != "" {
		message += fmt.Sprintf(", did you mean %q?", suggestion)
	}
	return nil, joberror.MethodNotFound("%s", message)
}

// Methods returns the method table of kind, or nil if none was declared.
func (r *Registry) Methods(kind value.Kind) *MethodTable {
	return r.table(kind)
}

// MethodKinds returns every kind with a method table, in kind order.
func (r *Registry) MethodKinds() []value.Kind {
	release := r.readLock()
	kinds := make([]value.Kind, 0, len(r.methods))
	for kind := range r.methods {
		kinds = append(kinds, kind)
	}
	release()
	slices.Sort(kinds)
	return kinds
}

func (r *Registry) table(kind value.Kind) *MethodTable {
	defer r.readLock()()
	return r.methods[kind]
}

// MethodTable holds the methods of one value kind.
type MethodTable struct {
	kind  value.Kind
	build func(table *MethodTable)

	once    sync.Once
	methods map[string]*Command
	// building is true only while build runs inside once.
	building bool
}

// Kind returns the receiver kind the table serves.
func (t *MethodTable) Kind() value.Kind { return t.kind }

// Declare adds a method. Only valid while the table is being built;
// the same identity and conflict rules as Registry.Declare apply.
func (t *MethodTable) Declare(method *Command) {
	if !t.building {
		panic(fmt.Sprintf("command.MethodTable.Declare(%s): table is not being built", method.FullName()))
	}
	if method.Run == nil || len(method.Path) == 0 {
		panic(fmt.Sprintf("command.MethodTable.Declare(%s): incomplete method", method.FullName()))
	}
	name := method.Name()
	if existing, exists := t.methods[name]; exists {
		if existing.sameDefinition(method) {
			return
		}
		panic(fmt.Sprintf("command.MethodTable.Declare(%s): method already declared with a different definition", method.FullName()))
	}
	t.methods[name] = method
}

func (t *MethodTable) init() {
	t.once.Do(func() {
		t.methods = make(map[string]*Command)
		t.building = true
		t.build(t)
		t.building = false
	})
}

func (t *MethodTable) lookup(name string) (*Command, bool) {
	t.init()
	method, exists := t.methods[name]
	return method, exists
}

// Names returns the method names, sorted.
func (t *MethodTable) Names() []string {
	t.init()
	names := make([]string, 0, len(t.methods))
	for name := range t.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the methods sorted by name.
func (t *MethodTable) All() []*Command {
	names := t.Names()
	methods := make([]*Command, len(names))
	for i, name := range names {
		methods[i] = t.methods[name]
	}
	return methods
}
