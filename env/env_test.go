//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package env

import (
	"bytes"
	"testing"
)

func TestDefaults(t *testing.T) {
	var config *Config
	if config.GetBase() != DefaultBase {
		t.Errorf("GetBase: got %x", config.GetBase())
	}
	if config.GetMaxPolls() != DefaultMaxPolls {
		t.Errorf("GetMaxPolls: got %d", config.GetMaxPolls())
	}
	if config.GetTicksPerPoll() != DefaultTicksPerPoll {
		t.Errorf("GetTicksPerPoll: got %d", config.GetTicksPerPoll())
	}
	if config.GetRandom() == nil {
		t.Errorf("GetRandom: nil")
	}

	config = &Config{
		Base:         0x1000,
		MaxPolls:     3,
		TicksPerPoll: 7,
	}
	if config.GetBase() != 0x1000 || config.GetMaxPolls() != 3 ||
		config.GetTicksPerPoll() != 7 {
		t.Errorf("explicit config values not returned: %+v", config)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	config := &Config{
		Log: &buf,
	}
	l := config.GetLogger("sha1")

	l.Debugf("hidden")
	if buf.Len() != 0 {
		t.Errorf("Debugf output without Verbose: %q", buf.String())
	}
	l.Verbose = true
	l.Debugf("tick %d", 1)
	if buf.String() != "sha1: tick 1\n" {
		t.Errorf("Debugf: got %q", buf.String())
	}
	buf.Reset()

	err := l.Errorf("bad %s\nmore", "thing")
	if err == nil || err.Error() != "bad thing" {
		t.Errorf("Errorf: got %v", err)
	}
	if buf.String() != "sha1: bad thing\nmore\n" {
		t.Errorf("Errorf output: got %q", buf.String())
	}
	buf.Reset()

	l.Warningf("careful")
	if buf.String() != "sha1: warning: careful\n" {
		t.Errorf("Warningf: got %q", buf.String())
	}
}

func TestLoggerClock(t *testing.T) {
	var buf bytes.Buffer
	var tick uint64 = 163

	l := NewLogger(&buf, "sha1⁰")
	l.Clock = func() uint64 {
		return tick
	}
	l.Warningf("panic\n")
	if buf.String() != "sha1⁰@163: warning: panic\n" {
		t.Errorf("Warningf: got %q", buf.String())
	}
}
