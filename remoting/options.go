// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package remoting

import (
	"os"

	"github.com/saferwall/msnrbf"
	"github.com/saferwall/msnrbf/log"
)

// Default tuning knobs, applied in NewServer wherever an Options field is left
// at its zero value. MaxReferenceables and MaxArrayLength reuse
// msnrbf.DecodeOptions' own defaults rather than redeclaring them, so
// the server-side cap and the codec's cap can never drift apart.
const (
	// DefaultMaxReferenceables is msnrbf.DefaultMaxReferenceables.
	DefaultMaxReferenceables = msnrbf.DefaultMaxReferenceables

	// DefaultMaxArrayLength is msnrbf.DefaultMaxArrayLength.
	DefaultMaxArrayLength = msnrbf.DefaultMaxArrayLength

	// DefaultMaxWorkers is the fixed worker pool size a Server starts
	// with, mirroring the Python original's ThreadPoolExecutor(max_workers=2)
	// default in server.py.
	DefaultMaxWorkers = 2

	// DefaultAddr is the TCP address a Server listens on absent an
	// explicit configuration, per spec.md section 6.
	DefaultAddr = "0.0.0.0:7431"
)

// Options configures a Server with a zero-value-means-default
// pattern: callers build a partial Options and NewServer fills in
// anything left at its zero value.
type Options struct {
	// MaxReferenceables caps decoded referenceables per message, by
	// default (DefaultMaxReferenceables).
	MaxReferenceables int

	// MaxArrayLength caps any array length accepted on decode, by
	// default (DefaultMaxArrayLength).
	MaxArrayLength int

	// MaxWorkers sizes the server's fixed worker pool, by default
	// (DefaultMaxWorkers).
	MaxWorkers int

	// Registry resolves declared remoting classes; nil uses
	// msnrbf.DefaultRegistry.
	Registry *msnrbf.ClassRegistry

	// Logger receives connection and decode diagnostics; nil installs a
	// filtered stdout logger, exactly mirroring file.go's New/NewBytes.
	Logger log.Logger
}

func (o *Options) fillDefaults() {
	if o.MaxReferenceables == 0 {
		o.MaxReferenceables = DefaultMaxReferenceables
	}
	if o.MaxArrayLength == 0 {
		o.MaxArrayLength = DefaultMaxArrayLength
	}
	if o.MaxWorkers == 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	if o.Registry == nil {
		o.Registry = msnrbf.DefaultRegistry
	}
}

func (o *Options) helper() *log.Helper {
	if o.Logger != nil {
		return log.NewHelper(o.Logger)
	}
	return log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(log.LevelInfo)))
}
