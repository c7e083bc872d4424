// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log provides a small leveled-logging facade so collaborators
// (the server, the dispatcher) never depend on a concrete logging
// backend directly.
package log

import (
	"fmt"
	"log"
	"os"
)

// Level identifies a log severity, ordered from least to most severe.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal structured-logging contract collaborators log
// through. Log takes alternating key/value pairs after level.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes to a standard library *log.Logger.
type stdLogger struct {
	std *log.Logger
}

// NewStdLogger returns a Logger backed by the standard library, writing
// to w.
func NewStdLogger(w *os.File) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &stdLogger{std: log.New(w, "", log.LstdFlags)}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "MISSING_VALUE")
	}
	msg := fmt.Sprintf("[%s]", level)
	for i := 0; i < len(keyvals); i += 2 {
		msg += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	l.std.Println(msg)
	return nil
}

// Filter wraps a Logger, dropping records below a configured level.
type Filter struct {
	next Logger
	min  Level
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// NewFilter returns a Logger that forwards to next only records at or
// above the level set by opts (LevelDebug if none given).
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &Filter{next: next, min: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// FilterLevel builds a FilterOption setting the minimum level that
// passes: log.NewFilter(logger, log.FilterLevel(log.LevelError)).
func FilterLevel(min Level) FilterOption {
	return func(f *Filter) { f.min = min }
}

// Helper provides the Debugf/Infof/Warnf/Errorf sugar collaborators call
// directly instead of building keyvals by hand.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger in a Helper.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) Debugf(format string, args ...interface{}) {
	_ = h.logger.Log(LevelDebug, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Infof(format string, args ...interface{}) {
	_ = h.logger.Log(LevelInfo, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Warnf(format string, args ...interface{}) {
	_ = h.logger.Log(LevelWarn, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Errorf(format string, args ...interface{}) {
	_ = h.logger.Log(LevelError, "msg", fmt.Sprintf(format, args...))
}
