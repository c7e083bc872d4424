// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package remoting

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// Capture is a memory-mapped captured NRTP stream file, read by the
// dump CLI command exactly the way pe.New memory-maps the target
// executable instead of reading it into a buffer.
type Capture struct {
	f    *os.File
	data mmap.MMap
}

// OpenCapture memory-maps the file at path read-only.
func OpenCapture(path string) (*Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Capture{f: f, data: data}, nil
}

// Bytes returns the mapped file content.
func (c *Capture) Bytes() []byte { return c.data }

// Close unmaps and closes the underlying file.
func (c *Capture) Close() error {
	if err := c.data.Unmap(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}
