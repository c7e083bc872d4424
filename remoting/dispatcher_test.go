// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package remoting

import (
	"testing"

	"github.com/saferwall/msnrbf"
)

func TestHandlerFuncDispatch(t *testing.T) {
	var gotType, gotMethod string
	var gotArgs []interface{}
	h := HandlerFunc(func(typeName, methodName string, args []interface{}) (interface{}, *msnrbf.ClassInstance, error) {
		gotType, gotMethod, gotArgs = typeName, methodName, args
		return "ok", nil, nil
	})
	value, exc, err := h.Dispatch("MyService", "DoThing", []interface{}{int32(1)})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if exc != nil {
		t.Errorf("got exception %+v, want nil", exc)
	}
	if value != "ok" {
		t.Errorf("got %v, want ok", value)
	}
	if gotType != "MyService" || gotMethod != "DoThing" || len(gotArgs) != 1 {
		t.Errorf("got %q %q %v", gotType, gotMethod, gotArgs)
	}
}

func TestNewExceptionReply(t *testing.T) {
	inst := NewExceptionReply("boom")
	msg, ok := inst.Get("Message")
	if !ok || msg != "boom" {
		t.Errorf("got %v, %v", msg, ok)
	}
}
