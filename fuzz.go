// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// +build gofuzz

package msnrbf

// Fuzz is the go-fuzz entry point: decode data as a method call/return
// and, if that succeeds, round-trip it back through Encode, reusing the
// same winnowing strategy as the PE fuzz target this package started
// from (parse, then discard anything that doesn't parse).
func Fuzz(data []byte) int {
	msg, err := DecodeMessage(data, nil, nil)
	if err != nil {
		return 0
	}
	if _, err := msg.Encode(); err != nil {
		return 1
	}
	return 1
}
