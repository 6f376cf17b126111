//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package wire

import (
	"errors"
	"io"
	"testing"

	"github.com/markkurossi/sha1core/bus"
	"github.com/markkurossi/sha1core/control"
	"github.com/markkurossi/sha1core/env"
	"github.com/markkurossi/sha1core/sha1"
)

func newSession(t *testing.T) (*Client, *bus.Bus, chan error) {
	t.Helper()
	b, _, err := bus.NewHost(2, &env.Config{
		Log: io.Discard,
	})
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	cc, sc := Pipe()
	done := make(chan error, 1)
	go func() {
		done <- Serve(sc, b)
	}()
	return NewClient(cc), b, done
}

func TestConnValues(t *testing.T) {
	c0, c1 := Pipe()
	long := string(make([]byte, writeBufSize+100))

	go func() {
		c0.SendByte(42)
		c0.SendUint32(0xdeadbeef)
		c0.SendString("Hello, world!")
		c0.SendString(long)
		c0.Flush()
	}()

	if v, err := c1.ReceiveByte(); err != nil || v != 42 {
		t.Errorf("ReceiveByte: %v, %v", v, err)
	}
	if v, err := c1.ReceiveUint32(); err != nil || v != 0xdeadbeef {
		t.Errorf("ReceiveUint32: %x, %v", v, err)
	}
	if v, err := c1.ReceiveString(); err != nil || v != "Hello, world!" {
		t.Errorf("ReceiveString: %q, %v", v, err)
	}
	if v, err := c1.ReceiveString(); err != nil || len(v) != len(long) {
		t.Errorf("ReceiveString: [%d]byte, %v", len(v), err)
	}
}

func TestRemoteRegisters(t *testing.T) {
	client, _, done := newSession(t)
	base := uint32(env.DefaultBase)

	val, err := client.Read(base + control.GetID)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if val != control.ID {
		t.Errorf("GET_ID: got %x, expected %x", val, control.ID)
	}

	// Second engine.
	val, err = client.Read(base + control.Window + control.GetNR)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if val != control.NumCommands {
		t.Errorf("GET_NR: got %d", val)
	}

	_, err = client.Read(base - 4)
	if !errors.Is(err, bus.ErrUnmapped) {
		t.Errorf("unmapped Read: got %v, expected %v", err, bus.ErrUnmapped)
	}
	if err := client.Tick(0, 1); !errors.Is(err, bus.ErrUnmapped) {
		t.Errorf("unmapped Tick: got %v", err)
	}

	block := sha1.Pad([]byte("abc"))[0]
	for _, w := range block {
		val, err := client.Write(base+control.MsgIn, w)
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		if val != control.Ack {
			t.Fatalf("MSG_IN: got %x", val)
		}
	}
	if err := client.Tick(base, 200); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	val, err = client.Read(base + control.Ops)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if val&control.OpsDone == 0 {
		t.Fatalf("engine not done: OPS=%x", val)
	}
	val, err = client.Read(base + control.Digest)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if val != 0xa9993e36 {
		t.Errorf("digest[0]: got %08x", val)
	}

	if client.Stats().Sum() == 0 {
		t.Errorf("no I/O recorded")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Serve: %v", err)
	}
}

func TestTickLimit(t *testing.T) {
	b, engines, err := bus.NewHost(1, &env.Config{
		Log: io.Discard,
	})
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	cc, sc := Pipe()
	done := make(chan error, 1)
	go func() {
		done <- Serve(sc, b)
	}()
	base := engines[0].Base()

	cc.SendByte(OpTick)
	cc.SendUint32(base)
	cc.SendUint32(MaxTicks + 1)
	if err := cc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	status, err := cc.ReceiveByte()
	if err != nil {
		t.Fatalf("ReceiveByte: %v", err)
	}
	if status != statusError {
		t.Fatalf("status: got %d, expected %d", status, statusError)
	}
	if _, err := cc.ReceiveString(); err != nil {
		t.Fatalf("ReceiveString: %v", err)
	}
	if ticks := engines[0].Core().Ticks(); ticks != 0 {
		t.Errorf("rejected request ran %d ticks", ticks)
	}

	client := NewClient(cc)
	if err := client.Tick(base, 2*MaxTicks+3); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if ticks := engines[0].Core().Ticks(); ticks != 2*MaxTicks+3 {
		t.Errorf("ticks: got %d, expected %d", ticks, 2*MaxTicks+3)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Serve: %v", err)
	}
}

func TestPipeClose(t *testing.T) {
	cc, sc := Pipe()

	go func() {
		cc.SendByte(OpClose)
		cc.Close()
	}()
	if v, err := sc.ReceiveByte(); err != nil || v != OpClose {
		t.Fatalf("ReceiveByte: %v, %v", v, err)
	}
	if _, err := sc.ReceiveByte(); !errors.Is(err, io.EOF) {
		t.Errorf("ReceiveByte after close: got %v, expected %v", err, io.EOF)
	}
}

func TestServeEOF(t *testing.T) {
	b := bus.New()
	cc, sc := Pipe()
	done := make(chan error, 1)
	go func() {
		done <- Serve(sc, b)
	}()
	if err := cc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Serve: %v", err)
	}
}

func TestServeInvalidOp(t *testing.T) {
	b := bus.New()
	cc, sc := Pipe()
	done := make(chan error, 1)
	go func() {
		done <- Serve(sc, b)
	}()
	cc.SendByte(0xff)
	cc.Flush()
	if err := <-done; err == nil {
		t.Errorf("Serve accepted invalid operation")
	}
}
