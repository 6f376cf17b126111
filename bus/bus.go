//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package bus implements a register bus which maps register windows
// of several devices into one 32-bit address space. Each device is
// serialized by its own lock so that independent devices can be
// driven from parallel goroutines.
package bus

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnmapped is returned for addresses outside every register
	// window.
	ErrUnmapped = errors.New("bus: unmapped address")
)

// Device implements a register mapped device.
type Device interface {
	Base() uint32
	Size() uint32
	Read(addr uint32) uint32
	Write(addr, val uint32) uint32
	Step()
}

type slot struct {
	m   sync.Mutex
	dev Device
}

func (s *slot) contains(addr uint32) bool {
	base := s.dev.Base()
	return addr >= base && addr-base < s.dev.Size()
}

// Bus implements the register bus.
type Bus struct {
	m     sync.RWMutex
	slots []*slot
}

// New creates a new empty bus.
func New() *Bus {
	return new(Bus)
}

// Attach attaches the device to the bus. The device register window
// must not overlap with any attached device.
func (b *Bus) Attach(dev Device) error {
	if dev.Size() == 0 {
		return fmt.Errorf("bus: empty register window at %08x", dev.Base())
	}
	start := uint64(dev.Base())
	end := start + uint64(dev.Size())
	if end > 1<<32 {
		return fmt.Errorf("bus: register window %08x+%x out of range",
			start, dev.Size())
	}

	b.m.Lock()
	defer b.m.Unlock()

	for _, s := range b.slots {
		sStart := uint64(s.dev.Base())
		sEnd := sStart + uint64(s.dev.Size())
		if start < sEnd && sStart < end {
			return fmt.Errorf("bus: window %08x-%08x overlaps %08x-%08x",
				start, end, sStart, sEnd)
		}
	}
	b.slots = append(b.slots, &slot{
		dev: dev,
	})
	sort.Slice(b.slots, func(i, j int) bool {
		return b.slots[i].dev.Base() < b.slots[j].dev.Base()
	})
	return nil
}

// Devices returns the attached devices in address order.
func (b *Bus) Devices() []Device {
	b.m.RLock()
	defer b.m.RUnlock()

	result := make([]Device, len(b.slots))
	for idx, s := range b.slots {
		result[idx] = s.dev
	}
	return result
}

func (b *Bus) lookup(addr uint32) (*slot, error) {
	b.m.RLock()
	defer b.m.RUnlock()

	idx := sort.Search(len(b.slots), func(i int) bool {
		s := b.slots[i]
		return s.dev.Base()+s.dev.Size()-1 >= addr
	})
	if idx < len(b.slots) && b.slots[idx].contains(addr) {
		return b.slots[idx], nil
	}
	return nil, fmt.Errorf("%w: %08x", ErrUnmapped, addr)
}

// Read reads the register at addr.
func (b *Bus) Read(addr uint32) (uint32, error) {
	s, err := b.lookup(addr)
	if err != nil {
		return 0, err
	}
	s.m.Lock()
	defer s.m.Unlock()

	return s.dev.Read(addr), nil
}

// Write writes val to the register at addr and returns the write
// acknowledgement.
func (b *Bus) Write(addr, val uint32) (uint32, error) {
	s, err := b.lookup(addr)
	if err != nil {
		return 0, err
	}
	s.m.Lock()
	defer s.m.Unlock()

	return s.dev.Write(addr, val), nil
}

// Tick advances the clock of the device mapped at addr by n ticks.
func (b *Bus) Tick(addr uint32, n int) error {
	s, err := b.lookup(addr)
	if err != nil {
		return err
	}
	s.m.Lock()
	defer s.m.Unlock()

	for i := 0; i < n; i++ {
		s.dev.Step()
	}
	return nil
}

// TickAll advances the clocks of all devices by n ticks.
func (b *Bus) TickAll(n int) {
	b.m.RLock()
	defer b.m.RUnlock()

	for _, s := range b.slots {
		s.m.Lock()
		for i := 0; i < n; i++ {
			s.dev.Step()
		}
		s.m.Unlock()
	}
}
