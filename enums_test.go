// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "testing"

func TestRecordKindString(t *testing.T) {
	tests := []struct {
		k    RecordKind
		want string
	}{
		{RecordSerializationHeader, "SerializationHeader"},
		{RecordBinaryMethodCall, "BinaryMethodCall"},
		{RecordBinaryMethodReturn, "BinaryMethodReturn"},
		{RecordKind(200), "RecordKind(200)"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("RecordKind(%d).String() = %q, want %q", byte(tt.k), got, tt.want)
		}
	}
}

func TestPrimitiveTypeTagString(t *testing.T) {
	if got := PrimitiveInt32.String(); got != "Int32" {
		t.Errorf("got %q", got)
	}
	if got := PrimitiveTypeTag(250).String(); got != "PrimitiveTypeTag(250)" {
		t.Errorf("got %q", got)
	}
}

func TestBinaryTypeTagString(t *testing.T) {
	if got := BinaryClass.String(); got != "Class" {
		t.Errorf("got %q", got)
	}
}

func TestNewCallMessageFlags(t *testing.T) {
	f := NewCallMessageFlags(true)
	if !f.ArgsInArray() || f.NoArgs() || !f.NoContext() {
		t.Errorf("got %032b", uint32(f))
	}
	if !f.HasCallArray() {
		t.Error("want HasCallArray true")
	}

	f = NewCallMessageFlags(false)
	if !f.NoArgs() || f.ArgsInArray() {
		t.Errorf("got %032b", uint32(f))
	}
	if f.HasCallArray() {
		t.Error("want HasCallArray false for no-args call")
	}
}

func TestNewReturnMessageFlags(t *testing.T) {
	f := NewReturnMessageFlags(true)
	if !f.ExceptionInArray() || f.ReturnValueInArray() {
		t.Errorf("got %032b", uint32(f))
	}
	if !f.HasCallArray() {
		t.Error("want HasCallArray true for exception return")
	}

	f = NewReturnMessageFlags(false)
	if !f.ReturnValueInArray() || f.ExceptionInArray() {
		t.Errorf("got %032b", uint32(f))
	}
}
