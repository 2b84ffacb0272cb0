// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"sync"

	"github.com/cxz/crush/lib/builtin/types"
	"github.com/cxz/crush/lib/command"
)

// Namespaces are searched in this order when resolving a short name.
var Namespaces = []string{"io", "stream", "var", "types", "help"}

var (
	registryOnce sync.Once
	registry     *command.Registry
)

// Registry returns the frozen process-wide registry holding every
// built-in command. Concurrent first calls build it once.
func Registry() *command.Registry {
	registryOnce.Do(func() {
		registry = command.NewRegistry()
		Declare(registry)
		registry.Freeze()
	})
	return registry
}

// Declare adds every built-in command and method table to r and
// registers the built-in namespaces. r must not be frozen and must not
// already hold the built-in method tables.
func Declare(r *command.Registry) {
	for _, declare := range []func() []*command.Command{
		ioCommands,
		streamCommands,
		varCommands,
		helpCommands,
	} {
		for _, c := range declare() {
			r.Declare(c)
		}
	}
	types.Declare(r)
	for _, namespace := range Namespaces {
		r.Use(command.Root, namespace)
	}
}

func path(namespace string, name ...string) []string {
	return append([]string{command.Root, namespace}, name...)
}

// declared builds a command whose signature is rendered from params.
func declared(path []string, params any, run command.Handler, output command.OutputType, short, long string) *command.Command {
	c := &command.Command{
		Path:   path,
		Run:    run,
		Short:  short,
		Long:   long,
		Output: output,
	}
	c.Signature = command.Signature(shortPath(path), params)
	return c
}

// shortPath drops the root and namespace: global:io:json:read is shown
// as json:read.
func shortPath(path []string) string {
	if len(path) <= 2 {
		return path[len(path)-1]
	}
	joined := path[2]
	for _, segment := range path[3:] {
		joined += ":" + segment
	}
	return joined
}
