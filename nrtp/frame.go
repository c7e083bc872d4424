// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package nrtp implements the MS-NRTP single-message transport frame:
// the 14-byte preamble, the header token stream, and the length-prefixed
// NRBF payload it carries. It does not interpret the payload; that is
// msnrbf's job.
package nrtp

import (
	"encoding/binary"
	"fmt"
)

// ProtocolID is the fixed 4-byte magic every SingleMessage preamble
// opens with: the bytes ".NET", read as a little-endian uint32.
const ProtocolID uint32 = 0x54454E2E

// OperationType values, MS-NRTP 2.2.2.2.
const (
	OpRequest       uint16 = 0
	OpOneWayRequest uint16 = 1
	OpReply         uint16 = 2
)

const preambleLen = 14

// SingleMessage is one MS-NRTP frame: fixed preamble, a variable run of
// header tokens terminated by EndHeader, and the NRBF payload.
type SingleMessage struct {
	MajorVersion        uint8
	MinorVersion        uint8
	OperationType       uint16
	ContentDistribution uint16
	Headers             []Header
	Payload             []byte
}

// Pack serializes m to its wire form.
func (m SingleMessage) Pack() ([]byte, error) {
	buf := make([]byte, preambleLen)
	binary.LittleEndian.PutUint32(buf[0:4], ProtocolID)
	buf[4] = m.MajorVersion
	buf[5] = m.MinorVersion
	binary.LittleEndian.PutUint16(buf[6:8], m.OperationType)
	binary.LittleEndian.PutUint16(buf[8:10], m.ContentDistribution)
	binary.LittleEndian.PutUint32(buf[10:14], uint32(len(m.Payload)))

	for _, h := range m.Headers {
		enc, err := h.encode()
		if err != nil {
			return nil, err
		}
		buf = append(buf, enc...)
	}
	endBytes, _ := EndHeader{}.encode()
	buf = append(buf, endBytes...)
	buf = append(buf, m.Payload...)
	return buf, nil
}

// Unpack parses a complete frame out of buf. It requires the full
// message (BytesNeeded(buf) == 0); callers reading off a socket should
// buffer until that holds before calling Unpack.
func Unpack(buf []byte) (SingleMessage, error) {
	if len(buf) < preambleLen {
		return SingleMessage{}, fmt.Errorf("nrtp: preamble truncated, got %d bytes", len(buf))
	}
	if got := binary.LittleEndian.Uint32(buf[0:4]); got != ProtocolID {
		return SingleMessage{}, fmt.Errorf("nrtp: bad protocol id 0x%08X", got)
	}
	m := SingleMessage{
		MajorVersion:        buf[4],
		MinorVersion:        buf[5],
		OperationType:       binary.LittleEndian.Uint16(buf[6:8]),
		ContentDistribution: binary.LittleEndian.Uint16(buf[8:10]),
	}
	length := binary.LittleEndian.Uint32(buf[10:14])

	off := preambleLen
	for {
		h, n, err := decodeHeader(buf[off:])
		if err != nil {
			return SingleMessage{}, err
		}
		off += n
		if _, ok := h.(EndHeader); ok {
			break
		}
		m.Headers = append(m.Headers, h)
	}

	want := off + int(length)
	if len(buf) < want {
		return SingleMessage{}, fmt.Errorf("nrtp: payload truncated, need %d more bytes", want-len(buf))
	}
	m.Payload = buf[off:want]
	return m, nil
}

// BytesNeeded reports how many additional bytes must be read before
// Unpack(buf) can succeed, or 0 if buf already holds a complete frame.
// It never errors on a short preamble or header run — a negative read
// is simply reported as "need the rest" — letting the server's reader
// loop keep pulling off the socket.
func BytesNeeded(buf []byte) int {
	if len(buf) < preambleLen {
		return preambleLen - len(buf)
	}
	length := int(binary.LittleEndian.Uint32(buf[10:14]))

	off := preambleLen
	for {
		if off > len(buf) {
			return off - len(buf)
		}
		n, ok := headerSize(buf[off:])
		if !ok {
			return 1
		}
		done := off < len(buf) && buf[off] == endHeaderTag
		off += n
		if done {
			break
		}
	}
	remaining := len(buf) - off
	need := length - remaining
	if need < 0 {
		return 0
	}
	return need
}
