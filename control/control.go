//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package control implements the register map of the SHA-1 engine.
// The register window contains six 32-bit registers relative to the
// window base address:
//
//	+0x00  GET_NR  R    number of commands
//	+0x04  GET_ID  R    engine identifier "SHA1"
//	+0x08  OPS     R/W  bit0 on, bit1 reset, bit2 panic, bit3 done,
//	                    bits 4-11 round index
//	+0x0C  MSG_IN  W    next message word; reads return Busy
//	+0x10  DIGEST  R    digest words h0..h4, cycling
//	+0x14  PANIC   W    PanicMagic forces the engine to panic
//
// Invalid operations never fail. They return the Busy sentinel so that
// polling callers need no special error handling.
package control

import (
	"github.com/markkurossi/sha1core/engine"
	"github.com/markkurossi/sha1core/env"
	"github.com/markkurossi/sha1core/sha1"
	"github.com/markkurossi/text/superscript"
)

// Register offsets.
const (
	GetNR  = 0x00
	GetID  = 0x04
	Ops    = 0x08
	MsgIn  = 0x0C
	Digest = 0x10
	Panic  = 0x14

	// Window is the size of the register window in bytes.
	Window = 0x18
)

// Register values.
const (
	NumCommands = 4
	ID          = 0x53484131
	Busy        = 0xFFFFFEA
	PanicMagic  = 0x0BADF00D

	// Ack is the acknowledgement of an accepted write.
	Ack = 1
)

// OPS register bits.
const (
	OpsOn         = 1 << 0
	OpsReset      = 1 << 1
	OpsPanic      = 1 << 2
	OpsDone       = 1 << 3
	OpsIndexShift = 4
	OpsIndexMask  = 0xff << OpsIndexShift
)

// ControlPlane implements the register protocol over one digest
// core. The control plane exclusively owns its core and it is the only
// mutator of the core's input wires.
type ControlPlane struct {
	id   int
	base uint32
	log  *env.Logger
	core *engine.Core

	on    bool
	reset bool
	panic bool

	msgIdx    int
	digestIdx int

	irq        bool
	lastFinish bool
}

// New creates a new control plane with the register window at base.
func New(id int, base uint32, config *env.Config) *ControlPlane {
	log := config.GetLogger("sha1" + superscript.Itoa(id))
	return &ControlPlane{
		id:   id,
		base: base,
		log:  log,
		core: engine.New(log),
	}
}

// ID returns the control plane ID.
func (cp *ControlPlane) ID() int {
	return cp.id
}

// Name returns the control plane name.
func (cp *ControlPlane) Name() string {
	return cp.log.Name()
}

// Base returns the base address of the register window.
func (cp *ControlPlane) Base() uint32 {
	return cp.base
}

// Size returns the size of the register window.
func (cp *ControlPlane) Size() uint32 {
	return Window
}

// Core returns the digest core. The core must only be observed; all
// modifications go through the registers.
func (cp *ControlPlane) Core() *engine.Core {
	return cp.core
}

// IRQ returns the interrupt line. The line is raised when the core
// finishes a block and it is acknowledged by any write to OPS.
func (cp *ControlPlane) IRQ() bool {
	return cp.irq
}

func (cp *ControlPlane) offset(addr uint32) (uint32, bool) {
	if addr < cp.base || addr-cp.base >= Window || addr&3 != 0 {
		return 0, false
	}
	return addr - cp.base, true
}

// Read reads the register at addr. Addresses outside the register
// window read as 0.
func (cp *ControlPlane) Read(addr uint32) uint32 {
	off, ok := cp.offset(addr)
	if !ok {
		return 0
	}
	switch off {
	case GetNR:
		return NumCommands
	case GetID:
		return ID
	case Ops:
		return cp.ops()
	case MsgIn:
		return Busy
	case Digest:
		return cp.readDigest()
	default:
		return 0
	}
}

// Write writes val to the register at addr and returns the write
// acknowledgement. Writes outside the register window are ignored.
func (cp *ControlPlane) Write(addr, val uint32) uint32 {
	off, ok := cp.offset(addr)
	if !ok {
		return 0
	}
	switch off {
	case Ops:
		return cp.writeOps(val)
	case MsgIn:
		return cp.writeMsg(val)
	case Digest:
		return Busy
	case Panic:
		if val != PanicMagic {
			return 0
		}
		cp.latchPanic()
		return Ack
	default:
		return 0
	}
}

// Step advances the engine by one clock tick.
func (cp *ControlPlane) Step() {
	cp.core.Step()

	if cp.reset {
		cp.reset = false
		cp.core.SetReset(false)
	}

	finish := cp.core.Finish()
	if finish && !cp.lastFinish {
		cp.log.Debugf("irq: digest ready")
		cp.irq = true
	}
	cp.lastFinish = finish
}

func (cp *ControlPlane) ops() uint32 {
	var val uint32
	if cp.on {
		val |= OpsOn
	}
	if cp.reset {
		val |= OpsReset
	} else {
		val |= uint32(cp.core.Index()<<OpsIndexShift) & OpsIndexMask
	}
	if cp.panic {
		val |= OpsPanic
	}
	if cp.core.Finish() {
		val |= OpsDone
	}
	return val
}

func (cp *ControlPlane) writeOps(val uint32) uint32 {
	if cp.panic {
		return cp.ops()
	}
	cp.irq = false

	if val&OpsPanic != 0 {
		cp.latchPanic()
		return cp.ops()
	}
	cp.on = val&OpsOn != 0
	cp.core.SetOn(cp.on)

	if val&OpsReset != 0 {
		cp.log.Debugf("reset")
		cp.reset = true
		cp.msgIdx = 0
		cp.digestIdx = 0
		cp.core.SetReset(true)
	}
	return cp.ops()
}

func (cp *ControlPlane) writeMsg(val uint32) uint32 {
	// The pending reset clears the loaded flag on the next tick.
	if cp.on || cp.reset || cp.panic || !cp.core.Writable() {
		return Busy
	}
	if !cp.core.SetWord(cp.msgIdx, val) {
		return Busy
	}
	cp.msgIdx++
	if cp.msgIdx >= sha1.BlockWords {
		cp.log.Debugf("block loaded")
		cp.msgIdx = 0
		cp.digestIdx = 0
		cp.core.MarkLoaded()
		cp.on = true
		cp.core.SetOn(true)
	}
	return Ack
}

func (cp *ControlPlane) readDigest() uint32 {
	if cp.panic || !cp.core.Finish() {
		return Busy
	}
	h := cp.core.H()
	val := h[cp.digestIdx]
	cp.digestIdx = (cp.digestIdx + 1) % len(h)
	return val
}

func (cp *ControlPlane) latchPanic() {
	if !cp.panic {
		cp.log.Warningf("panic")
	}
	cp.panic = true
	cp.core.SetPanic()
}
