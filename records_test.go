// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "testing"

func roundTrip(t *testing.T, r Record) Record {
	t.Helper()
	buf, err := r.Encode()
	if err != nil {
		t.Fatalf("Encode(%T): %v", r, err)
	}
	got, n, err := DecodeRecord(buf, 0)
	if err != nil {
		t.Fatalf("DecodeRecord(%T): %v", r, err)
	}
	if n != len(buf) {
		t.Errorf("%T: consumed %d, want %d", r, n, len(buf))
	}
	if got.Kind() != r.Kind() {
		t.Errorf("got kind %s, want %s", got.Kind(), r.Kind())
	}
	return got
}

func TestSerializationHeaderRoundTrip(t *testing.T) {
	r := SerializationHeader{RootID: 1, HeaderID: -1, MajorVersion: 1, MinorVersion: 0}
	got := roundTrip(t, r).(SerializationHeader)
	if got != r {
		t.Errorf("got %+v, want %+v", got, r)
	}
}

func TestSerializationHeaderRejectsUnsupportedVersion(t *testing.T) {
	r := SerializationHeader{MajorVersion: 2, MinorVersion: 0}
	buf, _ := r.Encode()
	if _, _, err := DecodeRecord(buf, 0); err == nil {
		t.Error("want error for unsupported version")
	}
}

func TestClassWithIDRoundTrip(t *testing.T) {
	r := ClassWithID{ObjectID: 3, MetadataID: 1}
	got := roundTrip(t, r).(ClassWithID)
	if got != r {
		t.Errorf("got %+v", got)
	}
}

func TestBinaryObjectStringRoundTrip(t *testing.T) {
	r := BinaryObjectString{ObjectID: 5, Value: "hello world"}
	got := roundTrip(t, r).(BinaryObjectString)
	if got != r {
		t.Errorf("got %+v", got)
	}
}

func TestMemberPrimitiveTypedRoundTrip(t *testing.T) {
	r := MemberPrimitiveTyped{Tag: PrimitiveInt32, Value: int32(99)}
	got := roundTrip(t, r).(MemberPrimitiveTyped)
	if got.Tag != r.Tag || got.Value != r.Value {
		t.Errorf("got %+v", got)
	}
}

func TestMemberReferenceRoundTrip(t *testing.T) {
	r := MemberReference{IDRef: 7}
	got := roundTrip(t, r).(MemberReference)
	if got != r {
		t.Errorf("got %+v", got)
	}
}

func TestObjectNullAndMessageEndRoundTrip(t *testing.T) {
	roundTrip(t, ObjectNull{})
	roundTrip(t, MessageEnd{})
}

func TestBinaryLibraryRoundTrip(t *testing.T) {
	r := BinaryLibrary{LibraryID: 2, Name: "MyAssembly, Version=1.0.0.0"}
	got := roundTrip(t, r).(BinaryLibrary)
	if got != r {
		t.Errorf("got %+v", got)
	}
}

func TestArraySinglePrimitiveRoundTrip(t *testing.T) {
	r := ArraySinglePrimitive{
		ArrayInfo: ArrayInfo{ObjectID: 1, Length: 3},
		ItemType:  PrimitiveInt32,
		Values:    []interface{}{int32(1), int32(2), int32(3)},
	}
	got := roundTrip(t, r).(ArraySinglePrimitive)
	if len(got.Values) != 3 || got.Values[1] != int32(2) {
		t.Errorf("got %+v", got)
	}
}

func TestArraySingleObjectRoundTrip(t *testing.T) {
	r := ArraySingleObject{ArrayInfo: ArrayInfo{ObjectID: 4, Length: 2}}
	got := roundTrip(t, r).(ArraySingleObject)
	if got != r {
		t.Errorf("got %+v", got)
	}
}

func TestArraySingleStringRoundTrip(t *testing.T) {
	r := ArraySingleString{ArrayInfo: ArrayInfo{ObjectID: 6, Length: 1}}
	got := roundTrip(t, r).(ArraySingleString)
	if got != r {
		t.Errorf("got %+v", got)
	}
}

func TestDecodeRecordUnknownTag(t *testing.T) {
	if _, _, err := DecodeRecord([]byte{0xfe}, 0); err == nil {
		t.Error("want error on unknown record tag")
	}
}

func TestDecodeRecordEmptyBuffer(t *testing.T) {
	if _, _, err := DecodeRecord(nil, 0); err == nil {
		t.Error("want error on empty buffer")
	}
}
