// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xlog is a small leveled-logging facade, shaped after the
// log.Logger/log.Helper contract the decoder's file-backed and CLI
// entry points are written against: a Logger writes key/value pairs,
// a Filter drops entries below a configured level, and a Helper
// exposes the printf-style Debugf/Infof/Warnf/Errorf methods most
// call sites actually want.
package xlog

import (
	"fmt"
	"io"
	"log"
)

// Level is a logging severity.
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

// Logger is the minimal structured sink every call site writes through.
// Keyvals alternate key, value, key, value, ... An odd keyval count pads
// a trailing "MISSING" value.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes every entry to an underlying io.Writer via the
// standard library's log.Logger.
type stdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a Logger that writes to w using the standard
// library's timestamped line format.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{l: log.New(w, "", log.LstdFlags)}
}

func (s *stdLogger) Log(level Level, keyvals ...interface{}) error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "MISSING")
	}
	msg := level.String()
	for i := 0; i < len(keyvals); i += 2 {
		msg += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	s.l.Println(msg)
	return nil
}

// filter wraps a Logger and drops entries below a minimum level.
type filter struct {
	next Logger
	min  Level
}

// FilterOption configures a Filter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level a Filter passes through.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.min = level }
}

// NewFilter wraps next, applying opts (typically FilterLevel).
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filter{next: next, min: LevelInfo}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods over a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with Debugf/Infof/Warnf/Errorf.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) Debugf(format string, a ...interface{}) {
	h.logger.Log(LevelDebug, "msg", fmt.Sprintf(format, a...))
}

func (h *Helper) Infof(format string, a ...interface{}) {
	h.logger.Log(LevelInfo, "msg", fmt.Sprintf(format, a...))
}

func (h *Helper) Warnf(format string, a ...interface{}) {
	h.logger.Log(LevelWarn, "msg", fmt.Sprintf(format, a...))
}

func (h *Helper) Errorf(format string, a ...interface{}) {
	h.logger.Log(LevelError, "msg", fmt.Sprintf(format, a...))
}
