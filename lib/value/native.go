// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"encoding/json"
	"math"
	"time"

	"github.com/cxz/crush/lib/joberror"
)

// Native converts v to a plain Go value: int64, float64, bool, string,
// []byte, time.Duration, time.Time, or []any for lists. Chars, globs, and
// files become strings. Kinds with no plain representation (binary
// readers, commands, streams) are returned unchanged.
func Native(v Value) any {
	switch typed := v.(type) {
	case Integer:
		return int64(typed)
	case Float:
		return float64(typed)
	case Bool:
		return bool(typed)
	case Text:
		return string(typed)
	case Char:
		return string(rune(typed))
	case Binary:
		return []byte(typed)
	case *Glob:
		return typed.pattern
	case File:
		return string(typed)
	case Duration:
		return time.Duration(typed)
	case Time:
		return time.Time(typed)
	case *List:
		items := make([]any, len(typed.items))
		for i, item := range typed.items {
			items[i] = Native(item)
		}
		return items
	}
	return v
}

// FromNative converts a plain Go value, as produced by Native or by a
// JSON, CBOR, or Arrow decoder, into a value of type t. Numbers are
// coerced between integer and float kinds when no precision is lost;
// strings are parsed with [Type.Parse] when t is not a string kind.
func FromNative(t Type, native any) (Value, error) {
	if existing, ok := native.(Value); ok {
		if !t.Accepts(existing.Type()) {
			return nil, joberror.Type("expected %s, got %s", t, existing.Type())
		}
		return existing, nil
	}
	if text, ok := native.(string); ok && t.Kind.Scalar() {
		return t.Parse(text)
	}
	switch t.Kind {
	case KindInteger:
		if integer, ok := toInt64(native); ok {
			return Integer(integer), nil
		}
	case KindFloat:
		if float, ok := toFloat64(native); ok {
			return Float(float), nil
		}
	case KindBool:
		if boolean, ok := native.(bool); ok {
			return Bool(boolean), nil
		}
	case KindBinary:
		if raw, ok := native.([]byte); ok {
			copied := make([]byte, len(raw))
			copy(copied, raw)
			return Binary(copied), nil
		}
	case KindDuration:
		switch typed := native.(type) {
		case time.Duration:
			return Duration(typed), nil
		default:
			if nanoseconds, ok := toInt64(native); ok {
				return Duration(nanoseconds), nil
			}
		}
	case KindTime:
		if instant, ok := native.(time.Time); ok {
			return Time(instant), nil
		}
	case KindList:
		items, ok := native.([]any)
		if !ok {
			break
		}
		elem := t.elem()
		converted := make([]Value, len(items))
		for i, item := range items {
			element, err := FromNative(elem, item)
			if err != nil {
				return nil, err
			}
			converted[i] = element
		}
		return NewList(elem, converted...)
	case KindAny:
		return inferNative(native)
	}
	return nil, joberror.Type("cannot convert %T to %s", native, t)
}

// inferNative picks a kind for an untyped native value.
func inferNative(native any) (Value, error) {
	switch typed := native.(type) {
	case string:
		return Text(typed), nil
	case bool:
		return Bool(typed), nil
	case []byte:
		copied := make([]byte, len(typed))
		copy(copied, typed)
		return Binary(copied), nil
	case float64:
		if typed == math.Trunc(typed) && math.Abs(typed) < 1<<53 {
			return Integer(int64(typed)), nil
		}
		return Float(typed), nil
	case json.Number:
		if integer, err := typed.Int64(); err == nil {
			return Integer(integer), nil
		}
		float, err := typed.Float64()
		if err != nil {
			return nil, joberror.Parse("invalid number %q", typed.String())
		}
		return Float(float), nil
	case []any:
		return FromNative(ListOf(TypeAny), typed)
	}
	if integer, ok := toInt64(native); ok {
		return Integer(integer), nil
	}
	if float, ok := toFloat64(native); ok {
		return Float(float), nil
	}
	return nil, joberror.Type("cannot infer a value type for %T", native)
}

func toInt64(native any) (int64, bool) {
	switch typed := native.(type) {
	case int:
		return int64(typed), true
	case int8:
		return int64(typed), true
	case int16:
		return int64(typed), true
	case int32:
		return int64(typed), true
	case int64:
		return typed, true
	case uint8:
		return int64(typed), true
	case uint16:
		return int64(typed), true
	case uint32:
		return int64(typed), true
	case uint64:
		if typed > math.MaxInt64 {
			return 0, false
		}
		return int64(typed), true
	case float64:
		if typed != math.Trunc(typed) || math.Abs(typed) > math.MaxInt64 {
			return 0, false
		}
		return int64(typed), true
	case json.Number:
		integer, err := typed.Int64()
		return integer, err == nil
	}
	return 0, false
}

func toFloat64(native any) (float64, bool) {
	switch typed := native.(type) {
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	case json.Number:
		float, err := typed.Float64()
		return float, err == nil
	}
	if integer, ok := toInt64(native); ok {
		return float64(integer), true
	}
	return 0, false
}
