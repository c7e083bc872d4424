// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrtp

import "testing"

func TestCountedStringRoundTrip(t *testing.T) {
	s := CountedString{Value: "hello world"}
	got, n, err := decodeCountedString(s.encode())
	if err != nil {
		t.Fatalf("decodeCountedString: %v", err)
	}
	if n != len(s.encode()) {
		t.Errorf("consumed %d, want %d", n, len(s.encode()))
	}
	if got.Value != s.Value {
		t.Errorf("got %q, want %q", got.Value, s.Value)
	}
}

func TestDecodeHeaderEachKind(t *testing.T) {
	tests := []struct {
		name string
		h    Header
	}{
		{"end", EndHeader{}},
		{"status code", StatusCodeHeader{Code: 200}},
		{"status phrase", StatusPhraseHeader{Phrase: CountedString{Value: "OK"}}},
		{"request uri", RequestUriHeader{URI: CountedString{Value: "/Foo.rem"}}},
		{"close connection", CloseConnectionHeader{}},
		{"content type", ContentTypeHeader{Type: CountedString{Value: "text/plain"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := tt.h.encode()
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, n, err := decodeHeader(enc)
			if err != nil {
				t.Fatalf("decodeHeader: %v", err)
			}
			if n != len(enc) {
				t.Errorf("consumed %d, want %d", n, len(enc))
			}
			if got != tt.h {
				t.Errorf("got %#v, want %#v", got, tt.h)
			}
		})
	}
}

func TestDecodeHeaderUnknownTag(t *testing.T) {
	if _, _, err := decodeHeader([]byte{0xfe}); err == nil {
		t.Error("want error on unknown header tag")
	}
}

func TestDecodeCountedStringUnknownEncoding(t *testing.T) {
	buf := []byte{0, 0, 0, 0, 0, 0}
	buf[0] = requestUriTag
	buf[1] = 9 // unsupported encoding
	if _, n, err := decodeCountedString(buf[1:]); err == nil {
		t.Errorf("want error on unsupported encoding, got n=%d", n)
	}
}
