//
// Copyright (c) 2020-2025 Markku Rossi
//
// All rights reserved.
//

package env

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Logger implements the engine logging facility. If Clock is set,
// messages carry the clock tick they were logged at.
type Logger struct {
	Verbose bool
	Clock   func() uint64
	m       sync.Mutex
	out     io.Writer
	name    string
}

// NewLogger creates a new logger outputting to the argument
// io.Writer. All messages are prefixed with name.
func NewLogger(out io.Writer, name string) *Logger {
	return &Logger{
		out:  out,
		name: name,
	}
}

// Name returns the logger name.
func (l *Logger) Name() string {
	return l.name
}

// Debugf logs a debug message if Verbose logging is enabled.
func (l *Logger) Debugf(format string, a ...interface{}) {
	if !l.Verbose {
		return
	}
	l.output("", fmt.Sprintf(format, a...))
}

// Errorf logs an error message and returns its first line as an
// error.
func (l *Logger) Errorf(format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	l.output("", msg)

	if idx := strings.IndexRune(msg, '\n'); idx > 0 {
		msg = msg[:idx]
	}
	return errors.New(msg)
}

// Warningf logs a warning message.
func (l *Logger) Warningf(format string, a ...interface{}) {
	l.output("warning: ", fmt.Sprintf(format, a...))
}

func (l *Logger) output(level, msg string) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	prefix := l.name
	if l.Clock != nil {
		prefix = fmt.Sprintf("%s@%d", l.name, l.Clock())
	}

	l.m.Lock()
	fmt.Fprintf(l.out, "%s: %s%s", prefix, level, msg)
	l.m.Unlock()
}
