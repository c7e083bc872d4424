// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
)

func TestPackUnpackLength(t *testing.T) {
	tests := []struct {
		name string
		in   uint32
	}{
		{"zero", 0},
		{"one byte max", 0x7f},
		{"two bytes min", 0x80},
		{"two bytes max", 0x3fff},
		{"large", 0x10000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := packLength(tt.in)
			got, n, err := unpackLength(buf)
			if err != nil {
				t.Fatalf("unpackLength: %v", err)
			}
			if n != len(buf) {
				t.Errorf("consumed %d bytes, want %d", n, len(buf))
			}
			if got != tt.in {
				t.Errorf("got %d, want %d", got, tt.in)
			}
		})
	}
}

func TestUnpackLengthTruncated(t *testing.T) {
	_, _, err := unpackLength([]byte{0x80, 0x80})
	if !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("got %v, want ErrTruncatedInput", err)
	}
}

func TestPackUnpackString(t *testing.T) {
	tests := []string{"", "hello", "with a \x00 nul", "unicode éè"}
	for _, s := range tests {
		buf := packString(s)
		got, n, err := unpackString(buf)
		if err != nil {
			t.Fatalf("unpackString(%q): %v", s, err)
		}
		if n != len(buf) {
			t.Errorf("consumed %d, want %d", n, len(buf))
		}
		if got != s {
			t.Errorf("got %q, want %q", got, s)
		}
	}
}

func TestUnpackStringInvalidUTF8(t *testing.T) {
	buf := append(packLength(1), 0xff)
	_, _, err := unpackString(buf)
	if !errors.Is(err, ErrMalformedValue) {
		t.Errorf("got %v, want ErrMalformedValue", err)
	}
}

func TestPackUnpackBool(t *testing.T) {
	for _, v := range []bool{true, false} {
		buf := packBool(v)
		got, _, err := unpackBool(buf)
		if err != nil {
			t.Fatalf("unpackBool: %v", err)
		}
		if got != v {
			t.Errorf("got %v, want %v", got, v)
		}
	}
}

func TestUnpackBoolInvalid(t *testing.T) {
	_, _, err := unpackBool([]byte{7})
	if !errors.Is(err, ErrMalformedValue) {
		t.Errorf("got %v, want ErrMalformedValue", err)
	}
}

func TestPackUnpackFixedWidth(t *testing.T) {
	if got, _, _ := unpackInt32(packInt32(-42)); got != -42 {
		t.Errorf("int32 round trip got %d", got)
	}
	if got, _, _ := unpackUint32(packUint32(0xdeadbeef)); got != 0xdeadbeef {
		t.Errorf("uint32 round trip got %x", got)
	}
	if got, _, _ := unpackInt16(packInt16(-7)); got != -7 {
		t.Errorf("int16 round trip got %d", got)
	}
	if got, _, _ := unpackInt64(packInt64(-123456789)); got != -123456789 {
		t.Errorf("int64 round trip got %d", got)
	}
	if got, _, _ := unpackByte(packByte(0xab)); got != 0xab {
		t.Errorf("byte round trip got %x", got)
	}
	if got, _, _ := unpackSingle(packSingle(3.25)); got != 3.25 {
		t.Errorf("float32 round trip got %v", got)
	}
	if got, _, _ := unpackDouble(packDouble(-1.5)); got != -1.5 {
		t.Errorf("float64 round trip got %v", got)
	}
}

func TestPackUnpackDateTime(t *testing.T) {
	dt := DateTime{Ticks: 637900000000000000, Kind: DateTimeUTC}
	got, _, err := unpackDateTime(packDateTime(dt))
	if err != nil {
		t.Fatalf("unpackDateTime: %v", err)
	}
	if diff := deep.Equal(got, dt); diff != nil {
		t.Errorf("round trip mismatch: %v", diff)
	}
}

func TestPackUnpackTimeSpan(t *testing.T) {
	ts := TimeSpan(-98765)
	got, _, err := unpackTimeSpan(packTimeSpan(ts))
	if err != nil {
		t.Fatalf("unpackTimeSpan: %v", err)
	}
	if got != ts {
		t.Errorf("got %d, want %d", got, ts)
	}
}

func TestPackUnpackDecimal(t *testing.T) {
	d := Decimal("79228162514264337593543950335")
	got, _, err := unpackDecimal(packDecimal(d))
	if err != nil {
		t.Fatalf("unpackDecimal: %v", err)
	}
	if got != d {
		t.Errorf("got %q, want %q", got, d)
	}
}
