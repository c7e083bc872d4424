// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import (
	"errors"
	"testing"
)

func TestEncodeDecodePrimitiveRoundTrip(t *testing.T) {
	tests := []struct {
		tag PrimitiveTypeTag
		v   interface{}
	}{
		{PrimitiveBoolean, true},
		{PrimitiveByte, byte(0xab)},
		{PrimitiveChar, 'x'},
		{PrimitiveDouble, 3.14},
		{PrimitiveInt16, int16(-5)},
		{PrimitiveInt32, int32(42)},
		{PrimitiveInt64, int64(-99)},
		{PrimitiveSingle, float32(1.5)},
		{PrimitiveUInt16, uint16(7)},
		{PrimitiveUInt32, uint32(8)},
		{PrimitiveUInt64, uint64(9)},
		{PrimitiveString, "hello"},
		{PrimitiveDecimal, Decimal("1.5")},
		{PrimitiveTimeSpan, TimeSpan(100)},
	}
	for _, tt := range tests {
		buf, err := encodePrimitive(tt.tag, tt.v)
		if err != nil {
			t.Fatalf("encodePrimitive(%s): %v", tt.tag, err)
		}
		got, n, err := decodePrimitive(tt.tag, buf)
		if err != nil {
			t.Fatalf("decodePrimitive(%s): %v", tt.tag, err)
		}
		if n != len(buf) {
			t.Errorf("%s: consumed %d, want %d", tt.tag, n, len(buf))
		}
		if got != tt.v {
			t.Errorf("%s: got %v, want %v", tt.tag, got, tt.v)
		}
	}
}

func TestEncodePrimitiveUnknownTag(t *testing.T) {
	_, err := encodePrimitive(PrimitiveTypeTag(250), nil)
	if !errors.Is(err, ErrMalformedValue) {
		t.Errorf("got %v, want ErrMalformedValue", err)
	}
}

func TestClassTypeInfoRoundTrip(t *testing.T) {
	c := ClassTypeInfo{TypeName: "System.String", LibraryID: 3}
	got, n, err := decodeClassTypeInfo(c.encode())
	if err != nil {
		t.Fatalf("decodeClassTypeInfo: %v", err)
	}
	if n != len(c.encode()) || got != c {
		t.Errorf("got %+v", got)
	}
}

func TestClassInfoRoundTrip(t *testing.T) {
	c := ClassInfo{ObjectID: 1, Name: "Widget", MemberNames: []string{"A", "B"}}
	buf := c.encode()
	got, n, err := decodeClassInfo(buf)
	if err != nil {
		t.Fatalf("decodeClassInfo: %v", err)
	}
	if n != len(buf) {
		t.Errorf("consumed %d, want %d", n, len(buf))
	}
	if got.ObjectID != c.ObjectID || got.Name != c.Name || len(got.MemberNames) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestMemberTypeInfoRoundTrip(t *testing.T) {
	m := MemberTypeInfo{
		Tags:       []BinaryTypeTag{BinaryPrimitive, BinaryString},
		Additional: []interface{}{PrimitiveInt32, nil},
	}
	buf := m.encode()
	got, n, err := decodeMemberTypeInfo(buf, 2)
	if err != nil {
		t.Fatalf("decodeMemberTypeInfo: %v", err)
	}
	if n != len(buf) {
		t.Errorf("consumed %d, want %d", n, len(buf))
	}
	if len(got.Tags) != 2 || got.Tags[0] != BinaryPrimitive {
		t.Errorf("got %+v", got)
	}
}

func TestArrayInfoRoundTrip(t *testing.T) {
	a := ArrayInfo{ObjectID: 2, Length: 10}
	got, n, err := decodeArrayInfo(a.encode())
	if err != nil {
		t.Fatalf("decodeArrayInfo: %v", err)
	}
	if n != len(a.encode()) || got != a {
		t.Errorf("got %+v", got)
	}
}

func TestValueWithCodeRoundTrip(t *testing.T) {
	v := ValueWithCode{Tag: PrimitiveInt32, Value: int32(5)}
	buf, err := v.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, n, err := decodeValueWithCode(buf)
	if err != nil {
		t.Fatalf("decodeValueWithCode: %v", err)
	}
	if n != len(buf) || got.Value != v.Value {
		t.Errorf("got %+v", got)
	}
}

func TestStringValueWithCodeRoundTrip(t *testing.T) {
	s := StringValueWithCode{Value: "hi"}
	got, n, err := decodeStringValueWithCode(s.encode())
	if err != nil {
		t.Fatalf("decodeStringValueWithCode: %v", err)
	}
	if n != len(s.encode()) || got.Value != s.Value {
		t.Errorf("got %+v", got)
	}
}
