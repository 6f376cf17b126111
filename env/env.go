//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package env implements global environment for the SHA-1 engine
// host.
package env

import (
	"crypto/rand"
	"io"
	"os"
)

const (
	// DefaultBase is the default base address of the engine register
	// window.
	DefaultBase = 0x30000024

	// DefaultMaxPolls is the default number of status polls before a
	// caller gives up waiting for the engine.
	DefaultMaxPolls = 1000

	// DefaultTicksPerPoll is the default number of clock ticks between
	// two status polls.
	DefaultTicksPerPoll = 5
)

// Config defines the global system configuration for the engine,
// its register map, and its callers. Config must not be modified
// after being passed to any module. It is safe for concurrent use by
// multiple modules as they do not modify it.
type Config struct {
	Rand         io.Reader
	Base         uint32
	Verbose      bool
	Log          io.Writer
	MaxPolls     int
	TicksPerPoll int
}

// GetRandom returns the source of entropy for generated test
// messages.
func (config *Config) GetRandom() io.Reader {
	if config != nil && config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetBase returns the base address of the first register window.
func (config *Config) GetBase() uint32 {
	if config != nil && config.Base != 0 {
		return config.Base
	}
	return DefaultBase
}

// GetMaxPolls returns the status poll limit.
func (config *Config) GetMaxPolls() int {
	if config != nil && config.MaxPolls > 0 {
		return config.MaxPolls
	}
	return DefaultMaxPolls
}

// GetTicksPerPoll returns the number of clock ticks between status
// polls.
func (config *Config) GetTicksPerPoll() int {
	if config != nil && config.TicksPerPoll > 0 {
		return config.TicksPerPoll
	}
	return DefaultTicksPerPoll
}

// GetLogger returns a logger for the named component.
func (config *Config) GetLogger(name string) *Logger {
	var out io.Writer = os.Stderr
	var verbose bool
	if config != nil {
		if config.Log != nil {
			out = config.Log
		}
		verbose = config.Verbose
	}
	l := NewLogger(out, name)
	l.Verbose = verbose
	return l
}
