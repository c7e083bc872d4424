// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package msnrbf

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// packLength encodes n as a 7-bit variable-length integer, little-endian
// groups, high bit meaning "another byte follows". MS-NRBF allows up to
// five bytes (31 value bits), enough for any realistic string length.
func packLength(n uint32) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			out = append(out, b|0x80)
			continue
		}
		out = append(out, b)
		break
	}
	return out
}

// unpackLength decodes a 7-bit variable-length integer from the front of
// buf, returning the value and the number of bytes consumed.
func unpackLength(buf []byte) (uint32, int, error) {
	var n uint32
	for i := 0; i < 5; i++ {
		if i >= len(buf) {
			return 0, 0, ErrTruncatedInput
		}
		b := buf[i]
		n |= uint32(b&0x7f) << (7 * uint(i))
		if b&0x80 == 0 {
			return n, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: length prefix longer than 5 bytes", ErrMalformedValue)
}

// packString encodes an UTF-8 string as a length-prefixed byte sequence:
// packLength(len(utf8 bytes)) || bytes.
func packString(s string) []byte {
	b := []byte(s)
	out := packLength(uint32(len(b)))
	return append(out, b...)
}

// unpackString decodes a LengthPrefixedString from the front of buf,
// returning the string and the number of bytes consumed.
func unpackString(buf []byte) (string, int, error) {
	n, width, err := unpackLength(buf)
	if err != nil {
		return "", 0, err
	}
	end := width + int(n)
	if end > len(buf) {
		return "", 0, ErrTruncatedInput
	}
	b := buf[width:end]
	if !utf8.Valid(b) {
		return "", 0, fmt.Errorf("%w: invalid utf-8 in length-prefixed string", ErrMalformedValue)
	}
	return string(b), end, nil
}

func packBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func unpackBool(buf []byte) (bool, int, error) {
	if len(buf) < 1 {
		return false, 0, ErrTruncatedInput
	}
	switch buf[0] {
	case 0:
		return false, 1, nil
	case 1:
		return true, 1, nil
	default:
		return false, 0, fmt.Errorf("%w: boolean byte %d", ErrMalformedValue, buf[0])
	}
}

func packInt32(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func unpackInt32(buf []byte) (int32, int, error) {
	if len(buf) < 4 {
		return 0, 0, ErrTruncatedInput
	}
	return int32(binary.LittleEndian.Uint32(buf[:4])), 4, nil
}

func packUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func unpackUint32(buf []byte) (uint32, int, error) {
	if len(buf) < 4 {
		return 0, 0, ErrTruncatedInput
	}
	return binary.LittleEndian.Uint32(buf[:4]), 4, nil
}

func packInt16(v int16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}

func unpackInt16(buf []byte) (int16, int, error) {
	if len(buf) < 2 {
		return 0, 0, ErrTruncatedInput
	}
	return int16(binary.LittleEndian.Uint16(buf[:2])), 2, nil
}

func packUint16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func unpackUint16(buf []byte) (uint16, int, error) {
	if len(buf) < 2 {
		return 0, 0, ErrTruncatedInput
	}
	return binary.LittleEndian.Uint16(buf[:2]), 2, nil
}

func packInt64(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

func unpackInt64(buf []byte) (int64, int, error) {
	if len(buf) < 8 {
		return 0, 0, ErrTruncatedInput
	}
	return int64(binary.LittleEndian.Uint64(buf[:8])), 8, nil
}

func packUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func unpackUint64(buf []byte) (uint64, int, error) {
	if len(buf) < 8 {
		return 0, 0, ErrTruncatedInput
	}
	return binary.LittleEndian.Uint64(buf[:8]), 8, nil
}

func packByte(v byte) []byte { return []byte{v} }

func unpackByte(buf []byte) (byte, int, error) {
	if len(buf) < 1 {
		return 0, 0, ErrTruncatedInput
	}
	return buf[0], 1, nil
}

func packSingle(v float32) []byte {
	return packUint32(math.Float32bits(v))
}

func unpackSingle(buf []byte) (float32, int, error) {
	u, n, err := unpackUint32(buf)
	if err != nil {
		return 0, 0, err
	}
	return math.Float32frombits(u), n, nil
}

func packDouble(v float64) []byte {
	return packUint64(math.Float64bits(v))
}

func unpackDouble(buf []byte) (float64, int, error) {
	u, n, err := unpackUint64(buf)
	if err != nil {
		return 0, 0, err
	}
	return math.Float64frombits(u), n, nil
}

// DateTimeKind mirrors System.DateTimeKind: the low two bits packed
// alongside the tick count.
type DateTimeKind byte

// DateTimeKind values.
const (
	DateTimeUnspecified DateTimeKind = 0
	DateTimeUTC         DateTimeKind = 1
	DateTimeLocal       DateTimeKind = 2
)

// DateTime is a .NET DateTime value: a 62-bit tick count and a 2-bit kind,
// packed into a single 64-bit little-endian word on the wire.
type DateTime struct {
	Ticks int64
	Kind  DateTimeKind
}

func packDateTime(dt DateTime) []byte {
	word := (uint64(dt.Ticks) << 2) | uint64(dt.Kind&0x3)
	return packUint64(word)
}

func unpackDateTime(buf []byte) (DateTime, int, error) {
	word, n, err := unpackUint64(buf)
	if err != nil {
		return DateTime{}, 0, err
	}
	return DateTime{
		Ticks: int64(word >> 2),
		Kind:  DateTimeKind(word & 0x3),
	}, n, nil
}

// TimeSpan is a raw 64-bit tick count, little-endian on the wire.
type TimeSpan int64

func packTimeSpan(v TimeSpan) []byte { return packInt64(int64(v)) }

func unpackTimeSpan(buf []byte) (TimeSpan, int, error) {
	v, n, err := unpackInt64(buf)
	return TimeSpan(v), n, err
}

// Decimal is carried on the wire as a length-prefixed ASCII/UTF-8 decimal
// string, e.g. "79228162514264337593543950335".
type Decimal string

func packDecimal(v Decimal) []byte { return packString(string(v)) }

func unpackDecimal(buf []byte) (Decimal, int, error) {
	s, n, err := unpackString(buf)
	return Decimal(s), n, err
}
