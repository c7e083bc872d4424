// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "testing"

func TestBuildMethodCallDedupesRepeatedString(t *testing.T) {
	reg := NewClassRegistry()
	args := []interface{}{"same", "same", "different"}
	msg := BuildMethodCall(reg, "Svc", "Method", args)
	buf, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeMessage(buf, reg, nil)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if len(decoded.CallArray) != 3 {
		t.Fatalf("got %d elements, want 3", len(decoded.CallArray))
	}
	for i, want := range args {
		if decoded.CallArray[i] != want {
			t.Errorf("element %d: got %v, want %v", i, decoded.CallArray[i], want)
		}
	}
}

func TestBuildMethodCallDedupesRepeatedClassInstance(t *testing.T) {
	reg := NewClassRegistry()
	cls := RemotingClass{
		Name:    "Point",
		Library: "Geo",
		Members: []MemberSpec{
			{WireName: "X", Tag: BinaryPrimitive, PrimTag: PrimitiveInt32},
			{WireName: "Y", Tag: BinaryPrimitive, PrimTag: PrimitiveInt32},
		},
	}
	if err := reg.Declare(cls); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	c, _ := reg.Lookup("Geo", "Point")
	inst := c.NewInstance()
	inst.Set("X", int32(1))
	inst.Set("Y", int32(2))

	msg := BuildMethodCall(reg, "Svc", "Method", []interface{}{inst, inst})
	buf, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeMessage(buf, reg, nil)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if len(decoded.CallArray) != 2 {
		t.Fatalf("got %d elements, want 2", len(decoded.CallArray))
	}
	first, ok := decoded.CallArray[0].(*ClassInstance)
	if !ok {
		t.Fatalf("got %T, want *ClassInstance", decoded.CallArray[0])
	}
	second, ok := decoded.CallArray[1].(*ClassInstance)
	if !ok {
		t.Fatalf("got %T, want *ClassInstance", decoded.CallArray[1])
	}
	if first != second {
		t.Error("repeated instance decoded as two distinct objects, want identity preserved via MemberReference")
	}
	if x, _ := first.Get("X"); x != int32(1) {
		t.Errorf("X = %v", x)
	}
}
