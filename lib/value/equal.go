// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"bytes"
	"math"
	"time"
)

// Equal reports whether a and b are the same value. Times compare by
// instant, floats treat NaN as equal to NaN, lists compare element-wise.
// Binary readers, commands, and streams compare by identity.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch left := a.(type) {
	case Float:
		right, ok := b.(Float)
		if !ok {
			return false
		}
		return left == right || (math.IsNaN(float64(left)) && math.IsNaN(float64(right)))
	case Binary:
		right, ok := b.(Binary)
		return ok && bytes.Equal(left, right)
	case Time:
		right, ok := b.(Time)
		return ok && time.Time(left).Equal(time.Time(right))
	case *Glob:
		right, ok := b.(*Glob)
		return ok && left.pattern == right.pattern
	case *List:
		right, ok := b.(*List)
		if !ok || !left.elem.Equal(right.elem) || len(left.items) != len(right.items) {
			return false
		}
		for i := range left.items {
			if !Equal(left.items[i], right.items[i]) {
				return false
			}
		}
		return true
	case CommandRef:
		right, ok := b.(CommandRef)
		return ok && left.Callable == right.Callable
	case StreamRef:
		right, ok := b.(StreamRef)
		return ok && left.Source == right.Source
	}
	return a == b
}
