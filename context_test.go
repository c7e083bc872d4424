// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import (
	"errors"
	"testing"
)

func TestMessageContextLibraries(t *testing.T) {
	ctx := NewMessageContext(nil)
	if err := ctx.AddLibrary(1, "MyAssembly"); err != nil {
		t.Fatalf("AddLibrary: %v", err)
	}
	if err := ctx.AddLibrary(1, "Dup"); err == nil {
		t.Error("duplicate library id: want error")
	}
	name, err := ctx.LibraryName(1)
	if err != nil || name != "MyAssembly" {
		t.Errorf("got %q, %v", name, err)
	}
	if _, err := ctx.LibraryName(99); !errors.Is(err, ErrUnknownLibrary) {
		t.Errorf("got %v, want ErrUnknownLibrary", err)
	}
	id, ok := ctx.LibraryID("MyAssembly")
	if !ok || id != 1 {
		t.Errorf("got %d, %v", id, ok)
	}
}

func TestMessageContextClasses(t *testing.T) {
	ctx := NewMessageContext(nil)
	cls := &RemotingClass{Name: "Widget"}
	if err := ctx.AddClass(5, cls, "MyLib"); err != nil {
		t.Fatalf("AddClass: %v", err)
	}
	if err := ctx.AddClass(5, cls, "MyLib"); err == nil {
		t.Error("duplicate object id: want error")
	}
	got, lib, err := ctx.LookupClass(5)
	if err != nil || got != cls || lib != "MyLib" {
		t.Errorf("got %v, %q, %v", got, lib, err)
	}
	if _, _, err := ctx.LookupClass(999); !errors.Is(err, ErrUnknownClass) {
		t.Errorf("got %v, want ErrUnknownClass", err)
	}
}

func TestMessageContextForwardReference(t *testing.T) {
	ctx := NewMessageContext(nil)
	var resolved interface{}
	ctx.AddReference(3, func(v interface{}) { resolved = v })
	if !ctx.HasPending() {
		t.Fatal("want HasPending true before target arrives")
	}
	if err := ctx.AddRefable(3, "the value"); err != nil {
		t.Fatalf("AddRefable: %v", err)
	}
	if ctx.HasPending() {
		t.Error("want HasPending false after target arrives")
	}
	if resolved != "the value" {
		t.Errorf("got %v", resolved)
	}
}

func TestMessageContextImmediateReference(t *testing.T) {
	ctx := NewMessageContext(nil)
	if err := ctx.AddRefable(1, "already here"); err != nil {
		t.Fatalf("AddRefable: %v", err)
	}
	var resolved interface{}
	ctx.AddReference(1, func(v interface{}) { resolved = v })
	if resolved != "already here" {
		t.Errorf("got %v", resolved)
	}
	if ctx.HasPending() {
		t.Error("want HasPending false")
	}
}

func TestMessageContextStringInterning(t *testing.T) {
	ctx := NewMessageContext(nil)
	if _, ok := ctx.InternString("hello"); ok {
		t.Error("want miss before SetInternedString")
	}
	ctx.SetInternedString("hello", 7)
	id, ok := ctx.InternString("hello")
	if !ok || id != 7 {
		t.Errorf("got %d, %v", id, ok)
	}
}

func TestMessageContextReferenceables(t *testing.T) {
	ctx := NewMessageContext(nil)
	if err := ctx.AddRefable(1, "a"); err != nil {
		t.Fatalf("AddRefable: %v", err)
	}
	if err := ctx.AddRefable(2, "b"); err != nil {
		t.Fatalf("AddRefable: %v", err)
	}
	got := ctx.Referenceables()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v", got)
	}
}
