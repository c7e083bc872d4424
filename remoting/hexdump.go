// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package remoting

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/stephens2424/writerset"

	"github.com/saferwall/msnrbf"
)

// knownTagColor/unknownTagColor paint the very first byte of the dump
// according to whether it names a recognized msnrbf.RecordKind (an NRBF
// payload opens with SerializationHeader's tag 0; a whole NRTP frame
// opens with the protocol id byte 0x2E) — the idiomatic-Go answer to
// packetview.py's plain-text view, which had no such signal at all.
var (
	knownTagColor   = color.New(color.FgGreen)
	unknownTagColor = color.New(color.FgRed)
	asciiColor      = color.New(color.FgCyan)
)

// Dumper writes a colorized hex+ASCII view of captured NRTP frames to a
// dynamic set of writers — stdout plus, if configured, a rolling debug
// log file — using one writerset.WriterSet so callers can attach and
// detach sinks (e.g. a test recorder) without the dumper knowing about
// them individually.
type Dumper struct {
	sinks *writerset.WriterSet
}

// NewDumper returns a Dumper that always writes to stdout.
func NewDumper() *Dumper {
	d := &Dumper{sinks: writerset.New()}
	d.sinks.Add(os.Stdout)
	return d
}

// AttachFile tees the dump to path as well, truncating any existing
// content, mirroring the rolling debug log a long-lived server keeps
// alongside stdout.
func (d *Dumper) AttachFile(path string) (io.Closer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	d.sinks.Add(f)
	return f, nil
}

// View writes packet as 16-byte-per-line hex and ASCII columns, the Go
// rendition of packetview.py's view(): two 8-byte words per line,
// hex on the left, printable ASCII (or '.') on the right.
func (d *Dumper) View(packet []byte) {
	for off := 0; off < len(packet); off += 16 {
		end := off + 16
		if end > len(packet) {
			end = len(packet)
		}
		line := packet[off:end]
		d.writeLine(off, line)
	}
}

func (d *Dumper) writeLine(offset int, line []byte) {
	fmt.Fprintf(d.sinks, "%08x  ", offset)
	for i := 0; i < 16; i++ {
		if i == 8 {
			fmt.Fprint(d.sinks, " ")
		}
		switch {
		case i >= len(line):
			fmt.Fprint(d.sinks, "** ")
		case offset == 0 && i == 0:
			paintHexByte(d.sinks, line[i])
		default:
			fmt.Fprintf(d.sinks, "%02x ", line[i])
		}
	}
	fmt.Fprint(d.sinks, "   ")
	for _, b := range line {
		if b > 32 && b < 127 {
			asciiColor.Fprintf(d.sinks, "%c", b)
		} else {
			fmt.Fprint(d.sinks, ".")
		}
	}
	fmt.Fprintln(d.sinks)
}

// isKnownRecordTag reports whether b names a declared msnrbf.RecordKind
// rather than falling through to its numeric String() fallback.
func isKnownRecordTag(b byte) bool {
	return msnrbf.RecordKind(b).String() != fmt.Sprintf("RecordKind(%d)", b)
}

// paintHexByte colors the dumped buffer's very first byte green if it
// names a known msnrbf.RecordKind (true for an NRBF payload, which opens
// with SerializationHeader's tag 0), red otherwise (as for a whole NRTP
// frame, which opens with the protocol id byte 0x2E).
func paintHexByte(w io.Writer, b byte) {
	if isKnownRecordTag(b) {
		knownTagColor.Fprintf(w, "%02x ", b)
		return
	}
	unknownTagColor.Fprintf(w, "%02x ", b)
}
