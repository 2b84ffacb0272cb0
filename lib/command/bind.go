// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

// Parameter describes one bindable field of a params struct.
type Parameter struct {
	Name        string
	Description string
	Default     string
	Type        value.Type
	// TypeName is how the type is shown in signatures and help.
	TypeName   string
	Required   bool
	Positional bool
	// Repeated is set for slice fields, which accept the argument any
	// number of times.
	Repeated bool

	index []int
	// column is set for value.ColumnType fields, given as "name:type".
	column bool
}

var (
	valueInterface = reflect.TypeFor[value.Value]()
	columnType     = reflect.TypeFor[value.ColumnType]()
	byteSlice      = reflect.TypeFor[[]byte]()
)

// fieldTypes maps every supported Go field type to the value type it
// binds.
var fieldTypes = map[reflect.Type]value.Type{
	reflect.TypeFor[value.Integer]():       value.TypeInteger,
	reflect.TypeFor[int]():                 value.TypeInteger,
	reflect.TypeFor[int64]():               value.TypeInteger,
	reflect.TypeFor[value.Float]():         value.TypeFloat,
	reflect.TypeFor[float64]():             value.TypeFloat,
	reflect.TypeFor[value.Bool]():          value.TypeBool,
	reflect.TypeFor[bool]():                value.TypeBool,
	reflect.TypeFor[value.Text]():          value.TypeString,
	reflect.TypeFor[string]():              value.TypeString,
	reflect.TypeFor[value.Char]():          value.TypeChar,
	reflect.TypeFor[value.Binary]():        value.TypeBinary,
	byteSlice:                              value.TypeBinary,
	reflect.TypeFor[*value.Glob]():         value.TypeGlob,
	reflect.TypeFor[value.File]():          value.TypeFile,
	reflect.TypeFor[value.Duration]():      value.TypeDuration,
	reflect.TypeFor[time.Duration]():       value.TypeDuration,
	reflect.TypeFor[value.Time]():          value.TypeTime,
	reflect.TypeFor[time.Time]():           value.TypeTime,
	reflect.TypeFor[*value.List]():         value.ListOf(value.TypeAny),
	reflect.TypeFor[*value.BinaryReader](): value.TypeBinaryReader,
	reflect.TypeFor[value.CommandRef]():    value.TypeCommand,
	valueInterface:                         value.TypeAny,
	columnType:                             value.TypeString,
}

// Describe returns the parameters of params, which must be a pointer to
// a struct. Panics on an invalid struct (programming error, not runtime
// data).
//
// # Struct tags
//
//   - arg:"name" names the parameter. Fields without an arg tag are
//     skipped.
//   - desc:"help text" describes it.
//   - default:"value" is used when the argument is absent, parsed
//     according to the field's value type.
//   - required:"true" makes an absent argument an error.
//   - positional:"true" binds unnamed arguments. At most one field may
//     be positional; a slice field collects all of them.
//
// # Supported field types
//
// value.Value (any kind), the scalar value types and their Go
// equivalents (int, int64, float64, bool, string, []byte,
// time.Duration, time.Time), *value.Glob, *value.List,
// *value.BinaryReader, value.CommandRef, value.ColumnType (given as
// "name:type"), and slices of any of these except []byte. Embedded
// structs are flattened.
func Describe(params any) []Parameter {
	pointer := reflect.ValueOf(params)
	if pointer.Kind() != reflect.Pointer || pointer.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("command.Describe: params must be a pointer to a struct, got %T", params))
	}
	parameters, err := describeStruct(pointer.Elem().Type(), nil)
	if err != nil {
		panic(fmt.Sprintf("command.Describe(%T): %v", params, err))
	}
	positional := 0
	for _, parameter := range parameters {
		if parameter.Positional {
			positional++
		}
	}
	if positional > 1 {
		panic(fmt.Sprintf("command.Describe(%T): more than one positional field", params))
	}
	return parameters
}

func describeStruct(structType reflect.Type, prefix []int) ([]Parameter, error) {
	var parameters []Parameter
	for i := range structType.NumField() {
		field := structType.Field(i)
		index := append(append([]int(nil), prefix...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, err := describeStruct(field.Type, index)
			if err != nil {
				return nil, fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			parameters = append(parameters, embedded...)
			continue
		}

		name := field.Tag.Get("arg")
		if name == "" {
			continue
		}
		if !field.IsExported() {
			return nil, fmt.Errorf("field %s: not exported", field.Name)
		}

		parameter := Parameter{
			Name:        name,
			Description: field.Tag.Get("desc"),
			Default:     field.Tag.Get("default"),
			Required:    field.Tag.Get("required") == "true",
			Positional:  field.Tag.Get("positional") == "true",
			index:       index,
		}

		elemType := field.Type
		if elemType.Kind() == reflect.Slice && elemType != byteSlice {
			parameter.Repeated = true
			elemType = elemType.Elem()
		}
		bound, supported := fieldTypes[elemType]
		if !supported {
			return nil, fmt.Errorf("field %s: unsupported type %s", field.Name, field.Type)
		}
		parameter.Type = bound
		parameter.TypeName = bound.String()
		if elemType == columnType {
			parameter.column = true
			parameter.TypeName = "name:type"
		}
		parameters = append(parameters, parameter)
	}
	return parameters, nil
}

// Bind populates the tagged fields of params from arguments. See
// [Describe] for the struct tags. Unknown names, values of the wrong
// type, a non-repeated parameter given twice, and missing required
// parameters are argument errors.
func Bind(arguments Arguments, params any) error {
	parameters := Describe(params)
	target := reflect.ValueOf(params).Elem()

	byName := make(map[string]*Parameter, len(parameters))
	var positional *Parameter
	for i := range parameters {
		byName[parameters[i].Name] = &parameters[i]
		if parameters[i].Positional {
			positional = &parameters[i]
		}
	}

	seen := make(map[string]bool, len(parameters))
	for _, argument := range arguments {
		parameter := positional
		if argument.Name != "" {
			parameter = byName[argument.Name]
			if parameter == nil {
				return joberror.Argument("Unknown parameter %s", argument.Name)
			}
		} else if parameter == nil {
			return joberror.Argument("Unexpected positional argument %q", argument.Value.String())
		}

		if seen[parameter.Name] && !parameter.Repeated {
			if argument.Name == "" {
				return joberror.Argument("Too many positional arguments, %s takes one", parameter.Name)
			}
			return joberror.Argument("Parameter %s given more than once", parameter.Name)
		}
		seen[parameter.Name] = true

		if err := assign(target.FieldByIndex(parameter.index), parameter, argument.Value); err != nil {
			return err
		}
	}

	for i := range parameters {
		parameter := &parameters[i]
		if seen[parameter.Name] {
			continue
		}
		if parameter.Default != "" {
			if err := assignDefault(target.FieldByIndex(parameter.index), parameter); err != nil {
				panic(fmt.Sprintf("command.Bind(%T): default for %s: %v", params, parameter.Name, err))
			}
			continue
		}
		if parameter.Required {
			return joberror.Argument("Missing required parameter %s", parameter.Name)
		}
	}
	return nil
}

func assignDefault(field reflect.Value, parameter *Parameter) error {
	texts := []string{parameter.Default}
	if parameter.Repeated {
		texts = strings.Split(parameter.Default, ",")
	}
	for _, text := range texts {
		var parsed value.Value = value.Text(text)
		if parameter.Type.Kind.Scalar() && !parameter.column {
			var err error
			if parsed, err = parameter.Type.Parse(text); err != nil {
				return err
			}
		}
		if err := assign(field, parameter, parsed); err != nil {
			return err
		}
	}
	return nil
}

// assign converts v to the field's type and stores it, appending for
// repeated parameters.
func assign(field reflect.Value, parameter *Parameter, v value.Value) error {
	if parameter.Repeated {
		element := reflect.New(field.Type().Elem()).Elem()
		if err := store(element, parameter, v); err != nil {
			return err
		}
		field.Set(reflect.Append(field, element))
		return nil
	}
	return store(field, parameter, v)
}

func store(target reflect.Value, parameter *Parameter, v value.Value) error {
	if parameter.column {
		text, ok := v.(value.Text)
		if !ok {
			return mismatch(parameter, v)
		}
		column, err := value.ParseColumn(string(text))
		if err != nil {
			return err
		}
		target.Set(reflect.ValueOf(column))
		return nil
	}

	coerced, err := coerce(parameter, v)
	if err != nil {
		return err
	}
	source := reflect.ValueOf(coerced)
	switch {
	case source.Type().AssignableTo(target.Type()):
		target.Set(source)
	case source.Type().ConvertibleTo(target.Type()):
		// Kinds already agree, so this is Integer to int64 and the like.
		target.Set(source.Convert(target.Type()))
	default:
		return mismatch(parameter, v)
	}
	return nil
}

// coerce checks v against the parameter's type. Text is accepted for
// glob, file, and char parameters and parsed; integers widen to floats.
func coerce(parameter *Parameter, v value.Value) (value.Value, error) {
	want := parameter.Type
	if want.Accepts(v.Type()) {
		return v, nil
	}
	switch want.Kind {
	case value.KindGlob, value.KindFile, value.KindChar:
		if text, ok := v.(value.Text); ok {
			parsed, err := want.Parse(string(text))
			if err != nil {
				return nil, joberror.Argument("Argument %s: %v", parameter.Name, err)
			}
			return parsed, nil
		}
	case value.KindFloat:
		if integer, ok := v.(value.Integer); ok {
			return value.Float(integer), nil
		}
	}
	return nil, mismatch(parameter, v)
}

func mismatch(parameter *Parameter, v value.Value) error {
	return joberror.Argument("Expected argument %q to be of type %s, was of type %s",
		parameter.Name, parameter.TypeName, v.Type())
}

// Signature renders the usage line of a command named name taking
// params. Positional parameters are prefixed with @, repeated ones end
// in "...", and optional ones are bracketed.
//
//	csv [@files:file...] col:name:type... [sep:char=,] [head:integer=0]
func Signature(name string, params any) string {
	tokens := []string{name}
	for _, parameter := range Describe(params) {
		token := parameter.Name + ":" + parameter.TypeName
		if parameter.Positional {
			token = "@" + token
		}
		if parameter.Repeated {
			token += "..."
		}
		if parameter.Default != "" {
			token += "=" + parameter.Default
		}
		if !parameter.Required {
			token = "[" + token + "]"
		}
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, " ")
}
