// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/cxz/crush/lib/joberror"
)

// Parse converts cell text into a value of type t. Only scalar kinds have
// a text form; any other kind fails. The error names the offending text
// and the expected type.
func (t Type) Parse(text string) (Value, error) {
	switch t.Kind {
	case KindInteger:
		parsed, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, parseFailure(text, t)
		}
		return Integer(parsed), nil

	case KindFloat:
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, parseFailure(text, t)
		}
		return Float(parsed), nil

	case KindBool:
		switch text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, parseFailure(text, t)

	case KindString:
		return Text(text), nil

	case KindChar:
		r, size := utf8.DecodeRuneInString(text)
		if (r == utf8.RuneError && size <= 1) || size != len(text) {
			return nil, parseFailure(text, t)
		}
		return Char(r), nil

	case KindBinary:
		return Binary(text), nil

	case KindGlob:
		glob, err := NewGlob(text)
		if err != nil {
			return nil, err
		}
		return glob, nil

	case KindFile:
		return File(text), nil

	case KindDuration:
		parsed, err := time.ParseDuration(text)
		if err != nil {
			return nil, parseFailure(text, t)
		}
		return Duration(parsed), nil

	case KindTime:
		parsed, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, parseFailure(text, t)
		}
		return Time(parsed), nil
	}
	return nil, joberror.Parse("values of type %s cannot be parsed from text", t)
}

func parseFailure(text string, t Type) error {
	return joberror.Parse("cannot parse %q as %s", text, t)
}

func typeMismatch(what string, index int, want Type, got Value) error {
	return joberror.Type("%s %d: expected %s, got %s", what, index, want, got.Type())
}
