// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"fmt"
	"go/scanner"
	"go/token"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

type whereParams struct {
	Condition string `arg:"condition" positional:"true" required:"true" desc:"Go boolean expression"`
}

func whereCommand() *command.Command {
	return declared(path("stream", "where"), &whereParams{}, runWhere, command.Unknown(),
		"Keep rows matching a Go expression",
		"The condition is a Go boolean expression. Every column whose name is a Go identifier "+
			"is in scope as a variable of the column's Go type (int64, float64, bool, string, "+
			"[]byte, time.Duration, time.Time, or []any for lists); `row` maps every column name "+
			"to its value. The standard library is importable by its package name, for example "+
			"`strings.HasPrefix(name, \"a\")`. A row for which the condition panics is reported "+
			"and skipped.\n\n"+
			"```\nwhere \"age >= 18 && strings.HasSuffix(email, \\\".org\\\")\"\n```")
}

// predicate is a compiled where condition.
type predicate struct {
	function reflect.Value
	// bound[i] is the schema index of the i-th parameter after row.
	bound []int
}

// goTypeName returns the Go type a column's cells are passed as, or ""
// when the column is only reachable through row.
func goTypeName(t value.Type) string {
	switch t.Kind {
	case value.KindInteger:
		return "int64"
	case value.KindFloat:
		return "float64"
	case value.KindBool:
		return "bool"
	case value.KindString, value.KindChar, value.KindGlob, value.KindFile:
		return "string"
	case value.KindBinary:
		return "[]byte"
	case value.KindDuration:
		return "time.Duration"
	case value.KindTime:
		return "time.Time"
	case value.KindList:
		return "[]any"
	}
	return ""
}

// compilePredicate wraps condition in a function over the columns of
// schema and compiles it with a fresh interpreter.
func compilePredicate(condition string, schema value.Schema) (*predicate, error) {
	parameters := []string{"row map[string]any"}
	var bound []int
	imports := map[string]bool{}
	for i, column := range schema.Columns() {
		goType := goTypeName(column.Type)
		if goType == "" || !token.IsIdentifier(column.Name) ||
			column.Name == "row" || importable[column.Name] != "" {
			continue
		}
		parameters = append(parameters, column.Name+" "+goType)
		bound = append(bound, i)
	}
	for _, name := range referencedPackages(condition) {
		imports[name] = true
	}
	for _, parameter := range parameters {
		if strings.Contains(parameter, "time.") {
			imports["time"] = true
		}
	}

	var source strings.Builder
	source.WriteString("package predicate\n\n")
	for _, name := range slices.Sorted(maps.Keys(imports)) {
		fmt.Fprintf(&source, "import %q\n", name)
	}
	fmt.Fprintf(&source, "\nfunc Keep(%s) bool {\n", strings.Join(parameters, ", "))
	fmt.Fprintf(&source, "\treturn %s\n}\n", condition)

	interpreter := interp.New(interp.Options{})
	if err := interpreter.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loading standard library symbols: %w", err)
	}
	if _, err := interpreter.Eval(source.String()); err != nil {
		return nil, joberror.Argument("where: invalid condition %q: %v", condition, err)
	}
	function, err := interpreter.Eval("predicate.Keep")
	if err != nil {
		return nil, joberror.Argument("where: invalid condition %q: %v", condition, err)
	}
	if function.Kind() != reflect.Func {
		return nil, joberror.Argument("where: condition %q did not compile to a function", condition)
	}
	return &predicate{function: function, bound: bound}, nil
}

// importable lists the standard library packages a condition may use
// without importing them.
var importable = map[string]string{
	"strings": "strings",
	"strconv": "strconv",
	"math":    "math",
	"regexp":  "regexp",
	"time":    "time",
	"bytes":   "bytes",
	"unicode": "unicode",
	"path":    "path",
	"fmt":     "fmt",
}

// referencedPackages returns the importable packages condition uses as
// the left side of a selector (for example strings.HasPrefix).
func referencedPackages(condition string) []string {
	files := token.NewFileSet()
	file := files.AddFile("condition", -1, len(condition))
	var tokens scanner.Scanner
	tokens.Init(file, []byte(condition), nil, 0)

	referenced := map[string]bool{}
	previous := ""
	for {
		_, kind, literal := tokens.Scan()
		if kind == token.EOF {
			break
		}
		if kind == token.PERIOD {
			if importPath, ok := importable[previous]; ok {
				referenced[importPath] = true
			}
		}
		previous = ""
		if kind == token.IDENT {
			previous = literal
		}
	}
	return slices.Sorted(maps.Keys(referenced))
}

// keep evaluates the predicate against row. A panic inside the
// condition, or a non-bool result, is returned as an error.
func (p *predicate) keep(schema value.Schema, row value.Row) (kept bool, err error) {
	cells := make(map[string]any, row.Len())
	for i, column := range schema.Columns() {
		cells[column.Name] = value.Native(row.Cell(i))
	}
	arguments := []reflect.Value{reflect.ValueOf(cells)}
	functionType := p.function.Type()
	for position, index := range p.bound {
		native := cells[schema.Column(index).Name]
		want := functionType.In(position + 1)
		argument := reflect.ValueOf(native)
		if !argument.IsValid() {
			argument = reflect.Zero(want)
		} else if argument.Type() != want && argument.Type().ConvertibleTo(want) {
			argument = argument.Convert(want)
		}
		arguments = append(arguments, argument)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = joberror.Type("where: condition failed: %v", recovered)
		}
	}()
	results := p.function.Call(arguments)
	if len(results) != 1 || results[0].Kind() != reflect.Bool {
		return false, joberror.Type("where: condition did not produce a bool")
	}
	return results[0].Bool(), nil
}

func runWhere(ctx *command.Context) error {
	var params whereParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	input, err := ctx.InputRows()
	if err != nil {
		return err
	}
	schema := input.Schema()
	condition, err := compilePredicate(params.Condition, schema)
	if err != nil {
		return err
	}
	output, err := ctx.Output.Initialize(schema)
	if err != nil {
		return err
	}
	return eachRow(input, func(row value.Row) error {
		kept, err := condition.keep(schema, row)
		if err != nil {
			ctx.Printer.JobError(err)
			return nil
		}
		if !kept {
			return nil
		}
		return output.Send(row)
	})
}
