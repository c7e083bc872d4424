// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package remoting

import "github.com/saferwall/msnrbf"

// Handler is the application-level dispatcher contract named but not
// defined by spec.md section 6: it maps a (typeName, methodName) pair
// and its positional, already-decoded arguments to either a return
// value or an exception. args mirrors the positional tuple the Grammar
// Engine resolves from a BinaryMethodCall's call array.
type Handler interface {
	Dispatch(typeName, methodName string, args []interface{}) (value interface{}, exception *msnrbf.ClassInstance, err error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(typeName, methodName string, args []interface{}) (interface{}, *msnrbf.ClassInstance, error)

// Dispatch calls f.
func (f HandlerFunc) Dispatch(typeName, methodName string, args []interface{}) (interface{}, *msnrbf.ClassInstance, error) {
	return f(typeName, methodName, args)
}

// NewExceptionReply builds a RemotingException instance carrying msg as
// its Message field, the shape error_reply places in a method return's
// call array on any dispatch failure (server.py's error_reply).
func NewExceptionReply(msg string) *msnrbf.ClassInstance {
	inst := RemotingException.NewInstance()
	inst.Set("Message", msg)
	return inst
}
