// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"strings"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/value"
)

// Stage is one command invocation in a pipeline. Either Command is set,
// naming a command to resolve, or Receiver and Method are set for a
// method call on a value.
type Stage struct {
	Command   []string
	Receiver  value.Value
	Method    string
	Arguments command.Arguments
}

// Call returns a stage invoking the command at path.
func Call(path string, arguments ...command.Argument) Stage {
	return Stage{Command: strings.Split(path, ":"), Arguments: arguments}
}

// MethodCall returns a stage invoking method on receiver.
func MethodCall(receiver value.Value, method string, arguments ...command.Argument) Stage {
	return Stage{Receiver: receiver, Method: method, Arguments: arguments}
}

// Name returns how the stage is referred to in logs and errors.
func (s Stage) Name() string {
	if s.Method != "" {
		receiver := "?"
		if s.Receiver != nil {
			receiver = s.Receiver.Type().String()
		}
		return receiver + "." + s.Method
	}
	return strings.Join(s.Command, ":")
}

func (s Stage) String() string {
	if len(s.Arguments) == 0 {
		return s.Name()
	}
	return s.Name() + " " + s.Arguments.String()
}
