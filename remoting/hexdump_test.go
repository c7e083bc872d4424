// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package remoting

import "testing"

func TestIsKnownRecordTag(t *testing.T) {
	if !isKnownRecordTag(0) { // RecordSerializationHeader
		t.Error("want tag 0 recognized as SerializationHeader")
	}
	if isKnownRecordTag(250) {
		t.Error("want tag 250 unrecognized")
	}
}

func TestDumperViewDoesNotPanic(t *testing.T) {
	d := NewDumper()
	d.View([]byte{0x00, 0x01, 0x02, 0x03, 0x04})
	d.View(nil)
}
