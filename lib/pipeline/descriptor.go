// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/scope"
	"github.com/cxz/crush/lib/value"
)

// Descriptor is a pipeline authored on disk as JSONC:
//
//	{
//	  "description": "adults from the census extract",
//	  "variables": {"INPUT": {"default": "people.csv"}},
//	  "stages": [
//	    {"command": "csv", "arguments": [
//	      "${INPUT}",
//	      {"name": "col", "value": "name:string"},
//	      {"name": "col", "value": "age:integer"},
//	    ]},
//	    {"command": "where", "arguments": [{"name": "condition", "value": "row[\"age\"].(int64) >= 18"}]},
//	  ],
//	}
//
// An argument entry is either an operand (positional) or an object with
// "name" and "value" (named). An operand is a JSON literal (strings
// become text, integral numbers integers, other numbers floats), a typed
// literal {"type": "glob", "value": "*.csv"}, or a reference to a scope
// variable {"var": "name"}. ${NAME} references in strings are expanded
// from the resolved variables.
type Descriptor struct {
	Description string              `json:"description,omitempty"`
	Variables   map[string]Variable `json:"variables,omitempty"`
	Entries     []StageDescriptor   `json:"stages"`
}

// Variable declares a descriptor variable.
type Variable struct {
	Description string `json:"description,omitempty"`
	// Type is the value type the variable is declared with in the job's
	// scope. Empty means string.
	Type     string `json:"type,omitempty"`
	Default  string `json:"default,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// StageDescriptor is one stage of a descriptor. Set Command, or
// Receiver and Method.
type StageDescriptor struct {
	Command   string            `json:"command,omitempty"`
	Receiver  json.RawMessage   `json:"receiver,omitempty"`
	Method    string            `json:"method,omitempty"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// ParseDescriptor strips JSONC comments and trailing commas from data,
// then unmarshals the result.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	stripped := jsonc.ToJSON(data)

	var descriptor Descriptor
	if err := json.Unmarshal(stripped, &descriptor); err != nil {
		return nil, fmt.Errorf("parsing pipeline descriptor: %w", err)
	}
	return &descriptor, nil
}

// ReadDescriptor reads and parses a JSONC descriptor file.
func ReadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	descriptor, err := ParseDescriptor(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return descriptor, nil
}

// NameFromPath extracts a pipeline name from a descriptor path by
// stripping the directory and the extension: "jobs/adults.jsonc" is
// "adults".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Stages converts the descriptor to stages. Variable references resolve
// against sc; ${NAME} references in strings expand from variables.
func (d *Descriptor) Stages(sc *scope.Scope, variables map[string]string) ([]Stage, error) {
	decoder := &argumentDecoder{scope: sc, variables: variables}
	stages := make([]Stage, 0, len(d.Entries))
	for index, entry := range d.Entries {
		stage, err := decoder.stage(entry)
		if err != nil {
			return nil, fmt.Errorf("stages[%d]: %w", index, err)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// argumentDecoder turns descriptor JSON into values. With check set it
// only validates structure: variable references and ${NAME} expansion
// are not resolved.
type argumentDecoder struct {
	scope     *scope.Scope
	variables map[string]string
	check     bool
}

func (decoder *argumentDecoder) stage(entry StageDescriptor) (Stage, error) {
	var stage Stage
	switch {
	case entry.Command != "" && entry.Method != "":
		return Stage{}, joberror.Argument("command and method are mutually exclusive")
	case entry.Command != "":
		stage.Command = strings.Split(entry.Command, ":")
	case entry.Method != "":
		if len(entry.Receiver) == 0 {
			return Stage{}, joberror.Argument("method %s requires a receiver", entry.Method)
		}
		receiver, err := decoder.operand(entry.Receiver)
		if err != nil {
			return Stage{}, fmt.Errorf("receiver: %w", err)
		}
		stage.Receiver = receiver
		stage.Method = entry.Method
	default:
		return Stage{}, joberror.Argument("must set either command or method")
	}

	for index, raw := range entry.Arguments {
		argument, err := decoder.argument(raw)
		if err != nil {
			return Stage{}, fmt.Errorf("arguments[%d]: %w", index, err)
		}
		stage.Arguments = append(stage.Arguments, argument)
	}
	return stage, nil
}

func (decoder *argumentDecoder) argument(raw json.RawMessage) (command.Argument, error) {
	native, err := decodeJSON(raw)
	if err != nil {
		return command.Argument{}, err
	}
	if object, ok := native.(map[string]any); ok {
		if nameField, named := object["name"]; named {
			name, ok := nameField.(string)
			if !ok || name == "" {
				return command.Argument{}, joberror.Argument("argument name must be a non-empty string")
			}
			operand, present := object["value"]
			if !present {
				return command.Argument{}, joberror.Argument("argument %s has no value", name)
			}
			converted, err := decoder.literal(operand)
			if err != nil {
				return command.Argument{}, fmt.Errorf("argument %s: %w", name, err)
			}
			return command.Argument{Name: name, Value: converted}, nil
		}
	}
	converted, err := decoder.literal(native)
	if err != nil {
		return command.Argument{}, err
	}
	return command.Argument{Value: converted}, nil
}

func (decoder *argumentDecoder) operand(raw json.RawMessage) (value.Value, error) {
	native, err := decodeJSON(raw)
	if err != nil {
		return nil, err
	}
	return decoder.literal(native)
}

func decodeJSON(raw json.RawMessage) (any, error) {
	reader := json.NewDecoder(bytes.NewReader(raw))
	reader.UseNumber()
	var native any
	if err := reader.Decode(&native); err != nil {
		return nil, joberror.Argument("malformed argument: %v", err)
	}
	return native, nil
}

// literal converts a decoded JSON value.
func (decoder *argumentDecoder) literal(native any) (value.Value, error) {
	switch typed := native.(type) {
	case nil:
		return nil, joberror.Argument("null is not a value")
	case string:
		expanded, err := decoder.expand(typed)
		if err != nil {
			return nil, err
		}
		return value.Text(expanded), nil
	case json.Number:
		if integer, err := typed.Int64(); err == nil {
			return value.Integer(integer), nil
		}
		float, err := typed.Float64()
		if err != nil {
			return nil, joberror.Argument("number %s out of range", typed)
		}
		return value.Float(float), nil
	case bool:
		return value.Bool(typed), nil
	case []any:
		items := make([]value.Value, len(typed))
		for i, element := range typed {
			item, err := decoder.literal(element)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = item
		}
		list, err := value.NewList(commonType(items), items...)
		if err != nil {
			return nil, err
		}
		return list, nil
	case map[string]any:
		return decoder.object(typed)
	}
	return nil, joberror.Argument("unsupported JSON value %T", native)
}

func (decoder *argumentDecoder) object(object map[string]any) (value.Value, error) {
	if reference, ok := object["var"]; ok {
		name, ok := reference.(string)
		if !ok || name == "" {
			return nil, joberror.Argument("var must name a variable")
		}
		if decoder.check {
			return value.Text(name), nil
		}
		if decoder.scope != nil {
			if bound, exists := decoder.scope.Lookup(name); exists {
				return bound, nil
			}
		}
		return nil, joberror.Argument("unbound variable %q", name)
	}

	typeName, hasType := object["type"].(string)
	native, hasValue := object["value"]
	if !hasType || !hasValue {
		return nil, joberror.Argument(`object arguments must be {"type", "value"} or {"var"}`)
	}
	declared, err := value.ParseType(typeName)
	if err != nil {
		return nil, err
	}
	if decoder.check && referencesVariable(native) {
		// The literal is only known once variables are resolved.
		return value.Text(""), nil
	}
	native, err = decoder.plain(native)
	if err != nil {
		return nil, err
	}
	return value.FromNative(declared, native)
}

// plain expands strings and converts json.Number inside the value of a
// typed literal, so value.FromNative sees ordinary Go values.
func (decoder *argumentDecoder) plain(native any) (any, error) {
	switch typed := native.(type) {
	case string:
		return decoder.expand(typed)
	case json.Number:
		if integer, err := typed.Int64(); err == nil {
			return integer, nil
		}
		return typed.Float64()
	case []any:
		converted := make([]any, len(typed))
		for i, element := range typed {
			item, err := decoder.plain(element)
			if err != nil {
				return nil, err
			}
			converted[i] = item
		}
		return converted, nil
	}
	return native, nil
}

func (decoder *argumentDecoder) expand(text string) (string, error) {
	if decoder.check || !strings.Contains(text, "${") {
		return text, nil
	}
	expanded, err := Expand(text, decoder.variables)
	if err != nil {
		return "", joberror.Argument("%v", err)
	}
	return expanded, nil
}

func referencesVariable(native any) bool {
	switch typed := native.(type) {
	case string:
		return strings.Contains(typed, "${")
	case []any:
		for _, element := range typed {
			if referencesVariable(element) {
				return true
			}
		}
	}
	return false
}

// commonType is the type shared by every item, or any.
func commonType(items []value.Value) value.Type {
	if len(items) == 0 {
		return value.TypeAny
	}
	first := items[0].Type()
	for _, item := range items[1:] {
		if !item.Type().Equal(first) {
			return value.TypeAny
		}
	}
	return first
}
