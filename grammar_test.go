// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
)

func TestMethodCallRoundTrip(t *testing.T) {
	reg := NewClassRegistry()
	args := []interface{}{int32(7), "hello"}
	msg := BuildMethodCall(reg, "MyService", "DoThing", args)

	buf, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeMessage(buf, reg, nil)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}

	if decoded.Call == nil {
		t.Fatal("decoded message carries no BinaryMethodCall")
	}
	if decoded.Call.TypeName != "MyService" || decoded.Call.MethodName != "DoThing" {
		t.Errorf("got %+v", decoded.Call)
	}
	if diff := deep.Equal(decoded.CallArray, args); diff != nil {
		t.Errorf("call array round trip mismatch: %v", diff)
	}
}

func TestMethodReturnRoundTrip(t *testing.T) {
	reg := NewClassRegistry()
	msg := BuildMethodReturn(reg, int32(99), nil)

	buf, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeMessage(buf, reg, nil)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if decoded.Return == nil {
		t.Fatal("decoded message carries no BinaryMethodReturn")
	}
	if len(decoded.CallArray) != 1 || decoded.CallArray[0] != int32(99) {
		t.Errorf("got %+v", decoded.CallArray)
	}
}

func TestMethodReturnExceptionRoundTrip(t *testing.T) {
	reg := NewClassRegistry()
	excClass := RemotingClass{
		Name:    "RemotingException",
		Library: SystemLib,
		Members: []MemberSpec{
			{WireName: "Message", Tag: BinaryString},
		},
	}
	if err := reg.Declare(excClass); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	exc, _ := reg.Lookup(SystemLib, "RemotingException")
	inst := exc.NewInstance()
	inst.Set("Message", "boom")

	msg := BuildMethodReturn(reg, nil, inst)
	buf, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeMessage(buf, reg, nil)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if len(decoded.CallArray) != 1 {
		t.Fatalf("got %d call array elements, want 1", len(decoded.CallArray))
	}
	got, ok := decoded.CallArray[0].(*ClassInstance)
	if !ok {
		t.Fatalf("got %T, want *ClassInstance", decoded.CallArray[0])
	}
	if v, _ := got.Get("Message"); v != "boom" {
		t.Errorf("Message = %v", v)
	}
}

func TestDecodeMessageTruncated(t *testing.T) {
	if _, err := DecodeMessage([]byte{0x00, 0x01}, NewClassRegistry(), nil); err == nil {
		t.Error("want error on truncated input")
	}
}

func TestDecodeMessageRejectsOversizedArray(t *testing.T) {
	reg := NewClassRegistry()
	args := []interface{}{int32(1), int32(2), int32(3), int32(4), int32(5)}
	msg := BuildMethodCall(reg, "MyService", "DoThing", args)
	buf, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	_, err = DecodeMessage(buf, reg, &DecodeOptions{MaxArrayLength: len(args) - 1})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("got %v, want ErrLimitExceeded", err)
	}

	// The default cap is generous enough to admit this small array.
	if _, err := DecodeMessage(buf, reg, nil); err != nil {
		t.Errorf("DecodeMessage with default options: %v", err)
	}
}

func TestDecodeMessageRejectsTooManyReferenceables(t *testing.T) {
	reg := NewClassRegistry()
	args := []interface{}{"a", "b", "c"}
	msg := BuildMethodCall(reg, "MyService", "DoThing", args)
	buf, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	_, err = DecodeMessage(buf, reg, &DecodeOptions{MaxReferenceables: 1})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("got %v, want ErrLimitExceeded", err)
	}
}
