// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFromNative(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		native any
		want   Value
	}{
		{"int64", TypeInteger, int64(4), Integer(4)},
		{"uint64 from cbor", TypeInteger, uint64(4), Integer(4)},
		{"integral float to integer", TypeInteger, float64(30), Integer(30)},
		{"json number to integer", TypeInteger, json.Number("30"), Integer(30)},
		{"integer to float", TypeFloat, int64(2), Float(2)},
		{"string parsed as integer", TypeInteger, "12", Integer(12)},
		{"string parsed as duration", TypeDuration, "1m", Duration(time.Minute)},
		{"duration from nanoseconds", TypeDuration, int64(1000), Duration(time.Microsecond)},
		{"bool", TypeBool, true, Bool(true)},
		{"bytes", TypeBinary, []byte("xy"), Binary("xy")},
		{"any infers integer", TypeAny, float64(3), Integer(3)},
		{"any infers float", TypeAny, 3.5, Float(3.5)},
		{"any infers text", TypeAny, "s", Text("s")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := FromNative(test.typ, test.native)
			if err != nil {
				t.Fatalf("FromNative error: %v", err)
			}
			if !Equal(got, test.want) {
				t.Errorf("FromNative = %v (%s), want %v (%s)", got, got.Type(), test.want, test.want.Type())
			}
		})
	}
}

func TestFromNative_Rejects(t *testing.T) {
	if _, err := FromNative(TypeInteger, 1.5); err == nil {
		t.Error("fractional float accepted as integer")
	}
	if _, err := FromNative(TypeBool, "maybe"); err == nil {
		t.Error("\"maybe\" accepted as bool")
	}
	if _, err := FromNative(TypeInteger, Text("x")); err == nil {
		t.Error("text value accepted as integer")
	}
}

func TestNative_List(t *testing.T) {
	list, err := NewList(TypeInteger, Integer(1), Integer(2))
	if err != nil {
		t.Fatal(err)
	}
	native, ok := Native(list).([]any)
	if !ok || len(native) != 2 || native[0] != int64(1) {
		t.Fatalf("Native(list) = %#v", Native(list))
	}
	back, err := FromNative(ListOf(TypeInteger), native)
	if err != nil {
		t.Fatalf("FromNative error: %v", err)
	}
	if !Equal(back, list) {
		t.Errorf("round trip = %v, want %v", back, list)
	}
}
