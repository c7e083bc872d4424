// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrtp

import "testing"

func TestSingleMessagePackUnpack(t *testing.T) {
	m := SingleMessage{
		MajorVersion:  1,
		MinorVersion:  0,
		OperationType: OpRequest,
		Headers: []Header{
			RequestUriHeader{URI: CountedString{Value: "/MyService.rem"}},
			ContentTypeHeader{Type: CountedString{Value: "application/octet-stream"}},
		},
		Payload: []byte{0xde, 0xad, 0xbe, 0xef},
	}

	buf, err := m.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	if need := BytesNeeded(buf); need != 0 {
		t.Fatalf("BytesNeeded on a complete frame = %d, want 0", need)
	}

	got, err := Unpack(buf)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got.MajorVersion != m.MajorVersion || got.OperationType != m.OperationType {
		t.Errorf("got %+v", got)
	}
	if len(got.Headers) != 2 {
		t.Fatalf("got %d headers, want 2", len(got.Headers))
	}
	uri, ok := got.Headers[0].(RequestUriHeader)
	if !ok || uri.URI.Value != "/MyService.rem" {
		t.Errorf("got header %+v", got.Headers[0])
	}
	if string(got.Payload) != string(m.Payload) {
		t.Errorf("payload got %x, want %x", got.Payload, m.Payload)
	}
}

func TestBytesNeededPartialPreamble(t *testing.T) {
	buf := []byte{0x2e, 0x4e}
	if need := BytesNeeded(buf); need != preambleLen-len(buf) {
		t.Errorf("got %d, want %d", need, preambleLen-len(buf))
	}
}

func TestBytesNeededPartialPayload(t *testing.T) {
	m := SingleMessage{OperationType: OpReply, Payload: []byte{1, 2, 3, 4, 5}}
	buf, err := m.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	truncated := buf[:len(buf)-2]
	if need := BytesNeeded(truncated); need != 2 {
		t.Errorf("got %d, want 2", need)
	}
}

func TestUnpackBadProtocolID(t *testing.T) {
	buf := make([]byte, preambleLen)
	if _, err := Unpack(buf); err == nil {
		t.Error("want error on bad protocol id")
	}
}

func TestUnpackTruncatedPreamble(t *testing.T) {
	if _, err := Unpack([]byte{1, 2, 3}); err == nil {
		t.Error("want error on truncated preamble")
	}
}
