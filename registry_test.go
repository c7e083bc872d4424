// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import "testing"

func TestClassRegistryDeclareLookup(t *testing.T) {
	reg := NewClassRegistry()
	cls := RemotingClass{
		Name:    "Widget",
		Library: "MyLib",
		Members: []MemberSpec{
			{WireName: "Count", Tag: BinaryPrimitive, PrimTag: PrimitiveInt32, Default: int32(0)},
			{WireName: "Label", Tag: BinaryString},
		},
	}
	if err := reg.Declare(cls); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	got, ok := reg.Lookup("MyLib", "Widget")
	if !ok {
		t.Fatal("Lookup: not found")
	}
	if got.Name != "Widget" || len(got.Members) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestClassRegistryDuplicateDeclare(t *testing.T) {
	reg := NewClassRegistry()
	cls := RemotingClass{Name: "Widget", Library: "MyLib"}
	if err := reg.Declare(cls); err != nil {
		t.Fatalf("first Declare: %v", err)
	}
	if err := reg.Declare(cls); err == nil {
		t.Fatal("second Declare: want error, got nil")
	}
}

func TestClassRegistryLookupMiss(t *testing.T) {
	reg := NewClassRegistry()
	if _, ok := reg.Lookup("MyLib", "Nope"); ok {
		t.Error("Lookup: want miss, got hit")
	}
}

func TestRemotingClassNewInstanceDefaults(t *testing.T) {
	cls := &RemotingClass{
		Name: "Widget",
		Members: []MemberSpec{
			{WireName: "Count", Default: int32(7)},
			{WireName: "Label", Default: nil},
		},
	}
	inst := cls.NewInstance()
	if v, ok := inst.Get("Count"); !ok || v != int32(7) {
		t.Errorf("Count = %v, %v", v, ok)
	}
	if v, ok := inst.Get("Label"); !ok || v != nil {
		t.Errorf("Label = %v, %v", v, ok)
	}
}

func TestClassInstanceGetSet(t *testing.T) {
	cls := &RemotingClass{
		Name:    "Widget",
		Members: []MemberSpec{{WireName: "Count"}},
	}
	inst := cls.NewInstance()
	if !inst.Set("Count", int32(42)) {
		t.Fatal("Set: want success")
	}
	if v, _ := inst.Get("Count"); v != int32(42) {
		t.Errorf("got %v", v)
	}
	if inst.Set("Missing", 1) {
		t.Error("Set on missing member: want false")
	}
	if _, ok := inst.Get("Missing"); ok {
		t.Error("Get on missing member: want miss")
	}
}

func TestRemotingClassIsSystem(t *testing.T) {
	sys := &RemotingClass{Library: SystemLib}
	if !sys.IsSystem() {
		t.Error("want IsSystem true")
	}
	user := &RemotingClass{Library: "MyLib"}
	if user.IsSystem() {
		t.Error("want IsSystem false")
	}
}
