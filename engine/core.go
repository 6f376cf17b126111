//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package engine implements the SHA-1 digest core as a synchronous
// state machine. The core is advanced one clock tick at a time with
// Step. Each of the 80 rounds takes two ticks: a compute tick which
// evaluates the new round value into temp and snapshots the working
// registers, and a copy tick which commits the rotated registers.
//
//	Init -> Start -> LoopOne -> LoopTwo -> LoopThree -> LoopFour
//	     -> Done -> Final -> Init
//
// The hash state h0..h4 is chained between blocks. It is set to the
// SHA-1 initial value only by reset.
package engine

import (
	"io"
	"math/bits"

	"github.com/markkurossi/sha1core/env"
	"github.com/markkurossi/sha1core/sha1"
)

var loopConstants = [4]uint32{sha1.K0, sha1.K1, sha1.K2, sha1.K3}

// Core implements the digest core. The zero value is not usable; use
// New to create cores.
type Core struct {
	log *env.Logger

	// Input wires.
	on     bool
	reset  bool
	panic  bool
	loaded bool

	state State
	ticks uint64

	h                      [5]uint32
	a, b, c, d, e          uint32
	aOld, bOld, cOld, dOld uint32
	temp                   uint32

	message  sha1.Block
	schedule [sha1.Rounds]uint32
	index    int

	compute     bool
	copyValues  bool
	accumulated bool
	offPending  bool
	finish      bool
}

// Snapshot holds the observable registers of the core.
type Snapshot struct {
	Tick       uint64
	State      State
	Index      int
	H          [5]uint32
	Working    [5]uint32
	Temp       uint32
	K          uint32
	W          uint32
	Compute    bool
	CopyValues bool
	Finish     bool
}

// New creates a new digest core in the Init state with the SHA-1
// initial hash value. The log argument may be nil. Log messages are
// stamped with the core's tick count unless the logger has a clock.
func New(log *env.Logger) *Core {
	if log == nil {
		log = env.NewLogger(io.Discard, "sha1")
	}
	core := &Core{
		log: log,
	}
	if log.Clock == nil {
		log.Clock = core.Ticks
	}
	core.init()
	return core
}

func (core *Core) init() {
	core.state = Init
	core.h = sha1.IV()
	core.a, core.b, core.c, core.d, core.e = 0, 0, 0, 0, 0
	core.aOld, core.bOld, core.cOld, core.dOld = 0, 0, 0, 0
	core.temp = 0
	core.index = 0
	core.compute = false
	core.copyValues = false
	core.accumulated = false
	core.offPending = false
	core.finish = false
	core.loaded = false
}

// SetOn sets the run request wire.
func (core *Core) SetOn(on bool) {
	core.on = on
}

// SetReset sets the reset wire. While reset is asserted, every tick
// forces the core to Init with the initial hash value.
func (core *Core) SetReset(reset bool) {
	core.reset = reset
}

// SetPanic latches the panic wire. The core moves to Panic on the
// next tick and stays there.
func (core *Core) SetPanic() {
	core.panic = true
}

// SetWord sets the message word i. The message is writable only in
// the Init state while the run request is unset. The function returns
// false if the word was not written.
func (core *Core) SetWord(i int, w uint32) bool {
	if !core.Writable() || i < 0 || i >= sha1.BlockWords {
		return false
	}
	core.message[i] = w
	return true
}

// Writable tests if the message block can be modified.
func (core *Core) Writable() bool {
	return core.state == Init && !core.on && !core.panic
}

// MarkLoaded marks the message block complete. The core starts the
// block on the first tick where the run request is set.
func (core *Core) MarkLoaded() {
	core.loaded = true
}

// Step advances the core by one clock tick. Panic and reset are
// evaluated before the transition table.
func (core *Core) Step() {
	core.ticks++

	if core.panic {
		if core.state != Panic {
			core.log.Debugf("%v -> %v", core.state, Panic)
		}
		core.state = Panic
		core.finish = false
		core.compute = false
		core.copyValues = false
		return
	}
	if core.reset {
		if core.state != Init {
			core.log.Debugf("%v -> %v (reset)", core.state, Init)
		}
		core.init()
		return
	}

	switch core.state {
	case Init:
		if !core.on || !core.loaded {
			return
		}
		core.loaded = false
		core.schedule = sha1.Expand(core.message)
		core.a, core.b, core.c, core.d, core.e =
			core.h[0], core.h[1], core.h[2], core.h[3], core.h[4]
		core.index = 0
		core.transition(Start)

	case Start:
		core.compute = true
		core.copyValues = false
		core.transition(LoopOne)

	case LoopOne, LoopTwo, LoopThree, LoopFour:
		if core.compute {
			core.round()
		} else {
			core.commit()
		}

	case Done:
		if !core.accumulated {
			core.h[0] += core.a
			core.h[1] += core.b
			core.h[2] += core.c
			core.h[3] += core.d
			core.h[4] += core.e
			core.index = 0
			core.accumulated = true
		} else {
			core.accumulated = false
			core.finish = true
			core.transition(Final)
		}

	case Final:
		if core.on {
			core.offPending = false
			return
		}
		if !core.offPending {
			core.offPending = true
			return
		}
		core.offPending = false
		core.finish = false
		core.index = 0
		core.transition(Init)

	case Panic:
	}
}

// round runs the compute phase of the current round.
func (core *Core) round() {
	core.temp = bits.RotateLeft32(core.a, 5) +
		sha1.Mix(core.index, core.b, core.c, core.d) +
		core.e + core.K() + core.W()

	core.aOld, core.bOld, core.cOld, core.dOld =
		core.a, core.b, core.c, core.d

	core.compute = false
	core.copyValues = true
}

// commit runs the copy phase of the current round.
func (core *Core) commit() {
	core.e = core.dOld
	core.d = core.cOld
	core.c = bits.RotateLeft32(core.bOld, 30)
	core.b = core.aOld
	core.a = core.temp
	core.index++

	core.copyValues = false
	if core.index >= sha1.Rounds {
		core.compute = false
		core.transition(Done)
		return
	}
	core.compute = true
	if next := epochState(core.index); next != core.state {
		core.transition(next)
	}
}

func (core *Core) transition(next State) {
	core.log.Debugf("%v -> %v: index=%d", core.state, next, core.index)
	core.state = next
}

// State returns the current core state.
func (core *Core) State() State {
	return core.state
}

// Index returns the current round index.
func (core *Core) Index() int {
	return core.index
}

// Ticks returns the number of ticks the core has run.
func (core *Core) Ticks() uint64 {
	return core.ticks
}

// K returns the round constant of the current epoch. Outside the loop
// states the function returns 0.
func (core *Core) K() uint32 {
	if !core.state.Loop() {
		return 0
	}
	return loopConstants[core.state-LoopOne]
}

// W returns the expanded message word of the current round. Outside
// the loop states the function returns 0.
func (core *Core) W() uint32 {
	if !core.state.Loop() {
		return 0
	}
	return core.schedule[core.index]
}

// Compute tests if the next tick is a compute tick.
func (core *Core) Compute() bool {
	return core.compute
}

// CopyValues tests if the next tick is a copy tick.
func (core *Core) CopyValues() bool {
	return core.copyValues
}

// Finish tests if the digest is available.
func (core *Core) Finish() bool {
	return core.finish
}

// On returns the run request wire.
func (core *Core) On() bool {
	return core.on
}

// Panicked tests if the panic wire is latched.
func (core *Core) Panicked() bool {
	return core.panic
}

// H returns the hash state h0..h4.
func (core *Core) H() [5]uint32 {
	return core.h
}

// Working returns the working registers a..e.
func (core *Core) Working() [5]uint32 {
	return [5]uint32{core.a, core.b, core.c, core.d, core.e}
}

// Message returns the current message block.
func (core *Core) Message() sha1.Block {
	return core.message
}

// Digest returns the digest h0||h1||h2||h3||h4. The boolean result is
// false if the core has not finished.
func (core *Core) Digest() (sha1.Digest, bool) {
	if !core.finish {
		return sha1.Digest{}, false
	}
	return sha1.DigestFromWords(core.h), true
}

// Snapshot returns the observable core registers.
func (core *Core) Snapshot() Snapshot {
	return Snapshot{
		Tick:       core.ticks,
		State:      core.state,
		Index:      core.index,
		H:          core.h,
		Working:    core.Working(),
		Temp:       core.temp,
		K:          core.K(),
		W:          core.W(),
		Compute:    core.compute,
		CopyValues: core.copyValues,
		Finish:     core.finish,
	}
}
