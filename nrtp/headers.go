// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrtp

import (
	"encoding/binary"
	"fmt"
)

// Header token tags, MS-NRTP 2.2.3.
const (
	endHeaderTag       byte = 0
	statusCodeTag      byte = 2
	statusPhraseTag    byte = 3
	requestUriTag      byte = 4
	closeConnectionTag byte = 5
	contentTypeTag     byte = 6
)

// Header is one header token preceding a SingleMessage's NRBF payload.
type Header interface {
	encode() ([]byte, error)
}

// CountedString is StatusPhrase/RequestUri/ContentType's payload shape:
// an encoding byte (0 unicode, 1 utf8) followed by a length-prefixed
// string. Only utf8 is supported: encode always writes 1, and decode
// rejects any other encoding byte, unicode (UTF-16LE) included.
type CountedString struct {
	Value string
}

func (s CountedString) encode() []byte {
	body := make([]byte, 0, 5+len(s.Value))
	body = append(body, 1) // utf8
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(s.Value)))
	body = append(body, lenBuf...)
	body = append(body, []byte(s.Value)...)
	return body
}

func decodeCountedString(buf []byte) (CountedString, int, error) {
	if len(buf) < 5 {
		return CountedString{}, 0, fmt.Errorf("nrtp: counted string truncated")
	}
	encoding := buf[0]
	length := int(binary.LittleEndian.Uint32(buf[1:5]))
	if len(buf) < 5+length {
		return CountedString{}, 0, fmt.Errorf("nrtp: counted string body truncated")
	}
	if encoding != 1 {
		return CountedString{}, 0, fmt.Errorf("nrtp: unsupported counted string encoding %d", encoding)
	}
	return CountedString{Value: string(buf[5 : 5+length])}, 5 + length, nil
}

// EndHeader terminates the header run; it carries no payload.
type EndHeader struct{}

func (EndHeader) encode() ([]byte, error) { return []byte{endHeaderTag}, nil }

// StatusCodeHeader carries an HTTP-style status code.
type StatusCodeHeader struct{ Code uint16 }

func (h StatusCodeHeader) encode() ([]byte, error) {
	body := []byte{statusCodeTag, 0, 0}
	binary.LittleEndian.PutUint16(body[1:3], h.Code)
	return body, nil
}

// StatusPhraseHeader carries a human-readable status phrase.
type StatusPhraseHeader struct{ Phrase CountedString }

func (h StatusPhraseHeader) encode() ([]byte, error) {
	return append([]byte{statusPhraseTag}, h.Phrase.encode()...), nil
}

// RequestUriHeader carries the invocation URI on a request frame.
type RequestUriHeader struct{ URI CountedString }

func (h RequestUriHeader) encode() ([]byte, error) {
	return append([]byte{requestUriTag}, h.URI.encode()...), nil
}

// CloseConnectionHeader asks the peer to close the connection after
// this message. It carries no payload.
type CloseConnectionHeader struct{}

func (CloseConnectionHeader) encode() ([]byte, error) { return []byte{closeConnectionTag}, nil }

// ContentTypeHeader names the payload's media type (always
// application/octet-stream for NRBF in this implementation).
type ContentTypeHeader struct{ Type CountedString }

func (h ContentTypeHeader) encode() ([]byte, error) {
	return append([]byte{contentTypeTag}, h.Type.encode()...), nil
}

// decodeHeader reads one header token from buf, returning the token and
// the number of bytes consumed.
func decodeHeader(buf []byte) (Header, int, error) {
	if len(buf) < 1 {
		return nil, 0, fmt.Errorf("nrtp: header tag truncated")
	}
	switch buf[0] {
	case endHeaderTag:
		return EndHeader{}, 1, nil
	case closeConnectionTag:
		return CloseConnectionHeader{}, 1, nil
	case statusCodeTag:
		if len(buf) < 3 {
			return nil, 0, fmt.Errorf("nrtp: status code header truncated")
		}
		return StatusCodeHeader{Code: binary.LittleEndian.Uint16(buf[1:3])}, 3, nil
	case statusPhraseTag:
		s, n, err := decodeCountedString(buf[1:])
		if err != nil {
			return nil, 0, err
		}
		return StatusPhraseHeader{Phrase: s}, 1 + n, nil
	case requestUriTag:
		s, n, err := decodeCountedString(buf[1:])
		if err != nil {
			return nil, 0, err
		}
		return RequestUriHeader{URI: s}, 1 + n, nil
	case contentTypeTag:
		s, n, err := decodeCountedString(buf[1:])
		if err != nil {
			return nil, 0, err
		}
		return ContentTypeHeader{Type: s}, 1 + n, nil
	default:
		return nil, 0, fmt.Errorf("nrtp: unknown header tag %d", buf[0])
	}
}

// headerSize reports the byte length of the header token starting at
// buf[0], or ok=false if buf doesn't yet hold enough bytes to know.
func headerSize(buf []byte) (n int, ok bool) {
	if len(buf) < 1 {
		return 0, false
	}
	switch buf[0] {
	case endHeaderTag, closeConnectionTag:
		return 1, true
	case statusCodeTag:
		if len(buf) < 3 {
			return 0, false
		}
		return 3, true
	case statusPhraseTag, requestUriTag, contentTypeTag:
		if len(buf) < 6 {
			return 0, false
		}
		length := int(binary.LittleEndian.Uint32(buf[2:6]))
		return 6 + length, true
	default:
		// Unknown tag: report consumed-1 so the caller's progress check
		// doesn't spin; Unpack will surface the real error.
		return 1, true
	}
}
