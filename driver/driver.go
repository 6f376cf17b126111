//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package driver implements the caller side of the SHA-1 engine
// register protocol. The driver loads padded message blocks into the
// engine, polls the engine status, and reads back the digest. The
// engine never blocks; all waiting is done by the driver with a
// bounded number of status polls.
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/markkurossi/sha1core/control"
	"github.com/markkurossi/sha1core/env"
	"github.com/markkurossi/sha1core/sha1"
	"github.com/markkurossi/sha1core/timing"
)

var (
	// ErrTimeout is returned when the engine does not reach the
	// expected state within the configured number of polls.
	ErrTimeout = errors.New("driver: timeout")

	// ErrPanic is returned when the engine is in the panic state.
	ErrPanic = errors.New("driver: engine panic")

	// ErrBusy is returned when the engine rejects an operation.
	ErrBusy = errors.New("driver: engine busy")
)

// Port implements register access to the engine.
type Port interface {
	Read(addr uint32) (uint32, error)
	Write(addr, val uint32) (uint32, error)
	Tick(addr uint32, n int) error
}

// Driver implements the engine driver.
type Driver struct {
	// Timing, if set, receives one tick sample per processed block.
	Timing *timing.Timing

	port         Port
	base         uint32
	log          *env.Logger
	maxPolls     int
	ticksPerPoll int
	ticks        uint64
}

// New creates a new driver for the engine with the register window at
// base.
func New(port Port, base uint32, config *env.Config) *Driver {
	return &Driver{
		port:         port,
		base:         base,
		log:          config.GetLogger(fmt.Sprintf("driver@%08x", base)),
		maxPolls:     config.GetMaxPolls(),
		ticksPerPoll: config.GetTicksPerPoll(),
	}
}

// Ticks returns the number of clock ticks the driver has issued.
func (d *Driver) Ticks() uint64 {
	return d.ticks
}

func (d *Driver) tick(n int) error {
	d.ticks += uint64(n)
	return d.port.Tick(d.base, n)
}

func (d *Driver) read(reg uint32) (uint32, error) {
	return d.port.Read(d.base + reg)
}

func (d *Driver) write(reg, val uint32) (uint32, error) {
	return d.port.Write(d.base+reg, val)
}

// Probe verifies that a SHA-1 engine is mapped at the driver base
// address.
func (d *Driver) Probe() error {
	id, err := d.read(control.GetID)
	if err != nil {
		return err
	}
	if id != control.ID {
		return fmt.Errorf("driver: invalid engine ID %08x at %08x", id, d.base)
	}
	nr, err := d.read(control.GetNR)
	if err != nil {
		return err
	}
	if nr != control.NumCommands {
		return fmt.Errorf("driver: unsupported command count %d", nr)
	}
	d.log.Debugf("engine %08x: %d commands", id, nr)
	return nil
}

// Status returns the OPS register value.
func (d *Driver) Status() (uint32, error) {
	return d.read(control.Ops)
}

// Reset resets the engine. The engine hash state returns to the SHA-1
// initial value.
func (d *Driver) Reset() error {
	val, err := d.write(control.Ops, control.OpsReset)
	if err != nil {
		return err
	}
	if val&control.OpsPanic != 0 {
		return ErrPanic
	}
	return d.tick(1)
}

// Load writes the block into the engine. The engine starts processing
// the block after the last word.
func (d *Driver) Load(ctx context.Context, block sha1.Block) error {
	for i, w := range block {
		var polls int
		for {
			val, err := d.write(control.MsgIn, w)
			if err != nil {
				return err
			}
			if val == control.Ack {
				break
			}
			if val != control.Busy {
				return fmt.Errorf("driver: word %d: unexpected ack %08x", i, val)
			}
			if err := d.poll(ctx, &polls); err != nil {
				return fmt.Errorf("%w: loading word %d", err, i)
			}
		}
		if err := d.tick(1); err != nil {
			return err
		}
	}
	return nil
}

// poll waits for the next poll interval.
func (d *Driver) poll(ctx context.Context, polls *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	*polls++
	if *polls > d.maxPolls {
		return ErrTimeout
	}
	status, err := d.Status()
	if err != nil {
		return err
	}
	if status&control.OpsPanic != 0 {
		return ErrPanic
	}
	return d.tick(d.ticksPerPoll)
}

// Wait waits until the engine has finished the current block.
func (d *Driver) Wait(ctx context.Context) error {
	var polls int
	for {
		status, err := d.Status()
		if err != nil {
			return err
		}
		if status&control.OpsPanic != 0 {
			return ErrPanic
		}
		if status&control.OpsDone != 0 {
			return nil
		}
		if status&control.OpsOn == 0 {
			return fmt.Errorf("%w: engine not running", ErrBusy)
		}
		d.log.Debugf("wait: round %d",
			(status&control.OpsIndexMask)>>control.OpsIndexShift)
		if err := d.poll(ctx, &polls); err != nil {
			return err
		}
	}
}

// Digest reads the digest of a finished engine.
func (d *Driver) Digest() (sha1.Digest, error) {
	status, err := d.Status()
	if err != nil {
		return sha1.Digest{}, err
	}
	if status&control.OpsPanic != 0 {
		return sha1.Digest{}, ErrPanic
	}
	if status&control.OpsDone == 0 {
		return sha1.Digest{}, ErrBusy
	}
	var h [5]uint32
	for i := range h {
		h[i], err = d.read(control.Digest)
		if err != nil {
			return sha1.Digest{}, err
		}
	}
	return sha1.DigestFromWords(h), nil
}

// Release drops the run request and waits until the engine is idle.
// The hash state is retained for the next block.
func (d *Driver) Release(ctx context.Context) error {
	if _, err := d.write(control.Ops, 0); err != nil {
		return err
	}
	var polls int
	for {
		if err := d.poll(ctx, &polls); err != nil {
			return err
		}
		status, err := d.Status()
		if err != nil {
			return err
		}
		if status&(control.OpsOn|control.OpsDone) == 0 {
			return nil
		}
	}
}

// Panic forces the engine to the panic state.
func (d *Driver) Panic() error {
	val, err := d.write(control.Panic, control.PanicMagic)
	if err != nil {
		return err
	}
	if val != control.Ack {
		return fmt.Errorf("driver: panic not acknowledged: %08x", val)
	}
	return d.tick(1)
}

// Sum computes the SHA-1 digest of data with the engine. The data is
// padded and its blocks are chained in the engine without resets.
func (d *Driver) Sum(ctx context.Context, data []byte) (sha1.Digest, error) {
	if err := d.Reset(); err != nil {
		return sha1.Digest{}, err
	}
	blocks := sha1.Pad(data)
	for idx, block := range blocks {
		start := d.ticks
		if err := d.Load(ctx, block); err != nil {
			return sha1.Digest{}, err
		}
		loaded := d.ticks
		if err := d.Wait(ctx); err != nil {
			return sha1.Digest{}, err
		}
		computed := d.ticks

		var digest sha1.Digest
		var err error
		if idx+1 >= len(blocks) {
			digest, err = d.Digest()
			if err != nil {
				return sha1.Digest{}, err
			}
		}
		if err := d.Release(ctx); err != nil {
			return sha1.Digest{}, err
		}
		if d.Timing != nil {
			sample := d.Timing.Sample(fmt.Sprintf("Block %d", idx),
				d.ticks-start, nil)
			sample.SubSample("Load", loaded-start)
			sample.SubSample("Compute", computed-loaded)
			sample.SubSample("Release", d.ticks-computed)
		}
		if idx+1 >= len(blocks) {
			d.log.Debugf("%d bytes, %d blocks: %s", len(data), len(blocks),
				digest)
			return digest, nil
		}
	}
	return sha1.Digest{}, errors.New("driver: no blocks")
}
