//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package wire implements remote register access over a byte stream.
// A request is an operation byte followed by the operation arguments
// as big-endian uint32 values:
//
//	OpRead   addr
//	OpWrite  addr val
//	OpTick   addr count
//	OpClose
//
// Every request is answered with a status byte followed by the
// result value. Failed requests carry the error message instead of
// the value.
package wire

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/markkurossi/sha1core/bus"
)

// Operation codes.
const (
	OpRead byte = iota + 1
	OpWrite
	OpTick
	OpClose
)

// MaxTicks is the largest tick count a single OpTick request may
// carry. Larger requests are rejected with an error status.
const MaxTicks = 4096

const (
	statusOK byte = iota
	statusUnmapped
	statusError
)

// Target implements register access for the server.
type Target interface {
	Read(addr uint32) (uint32, error)
	Write(addr, val uint32) (uint32, error)
	Tick(addr uint32, n int) error
}

// Serve serves register requests from conn until the peer closes the
// connection or sends OpClose.
func Serve(conn *Conn, target Target) error {
	for {
		op, err := conn.ReceiveByte()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		}
		var val uint32
		switch op {
		case OpRead:
			addr, err := conn.ReceiveUint32()
			if err != nil {
				return err
			}
			val, err = target.Read(addr)
			if err := reply(conn, val, err); err != nil {
				return err
			}

		case OpWrite:
			addr, err := conn.ReceiveUint32()
			if err != nil {
				return err
			}
			v, err := conn.ReceiveUint32()
			if err != nil {
				return err
			}
			val, err = target.Write(addr, v)
			if err := reply(conn, val, err); err != nil {
				return err
			}

		case OpTick:
			addr, err := conn.ReceiveUint32()
			if err != nil {
				return err
			}
			count, err := conn.ReceiveUint32()
			if err != nil {
				return err
			}
			if count > MaxTicks {
				err = fmt.Errorf("wire: tick count %d exceeds %d",
					count, MaxTicks)
			} else {
				err = target.Tick(addr, int(count))
			}
			if err := reply(conn, count, err); err != nil {
				return err
			}

		case OpClose:
			if err := reply(conn, 0, nil); err != nil {
				return err
			}
			return nil

		default:
			return fmt.Errorf("wire: invalid operation %d", op)
		}
	}
}

func reply(conn *Conn, val uint32, err error) error {
	switch {
	case err == nil:
		if err := conn.SendByte(statusOK); err != nil {
			return err
		}
		if err := conn.SendUint32(val); err != nil {
			return err
		}
	case errors.Is(err, bus.ErrUnmapped):
		if err := conn.SendByte(statusUnmapped); err != nil {
			return err
		}
		if err := conn.SendString(err.Error()); err != nil {
			return err
		}
	default:
		if err := conn.SendByte(statusError); err != nil {
			return err
		}
		if err := conn.SendString(err.Error()); err != nil {
			return err
		}
	}
	return conn.Flush()
}

// Client implements remote register access. The client methods can
// be called from multiple goroutines; requests are serialized.
type Client struct {
	m    sync.Mutex
	conn *Conn
}

// NewClient creates a new client for the connection.
func NewClient(conn *Conn) *Client {
	return &Client{
		conn: conn,
	}
}

// Stats returns the connection I/O statistics.
func (c *Client) Stats() IOStats {
	return c.conn.Stats
}

// Read reads the register at addr.
func (c *Client) Read(addr uint32) (uint32, error) {
	return c.call(OpRead, addr)
}

// Write writes val to the register at addr.
func (c *Client) Write(addr, val uint32) (uint32, error) {
	return c.call(OpWrite, addr, val)
}

// Tick advances the clock of the device at addr by n ticks. Counts
// above MaxTicks are sent as multiple requests.
func (c *Client) Tick(addr uint32, n int) error {
	if n < 0 {
		return fmt.Errorf("wire: invalid tick count %d", n)
	}
	for n > 0 {
		count := min(n, MaxTicks)
		if _, err := c.call(OpTick, addr, uint32(count)); err != nil {
			return err
		}
		n -= count
	}
	return nil
}

// Close closes the session and the underlying connection.
func (c *Client) Close() error {
	if _, err := c.call(OpClose); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}

func (c *Client) call(op byte, args ...uint32) (uint32, error) {
	c.m.Lock()
	defer c.m.Unlock()

	if err := c.conn.SendByte(op); err != nil {
		return 0, err
	}
	for _, arg := range args {
		if err := c.conn.SendUint32(arg); err != nil {
			return 0, err
		}
	}
	if err := c.conn.Flush(); err != nil {
		return 0, err
	}

	status, err := c.conn.ReceiveByte()
	if err != nil {
		return 0, err
	}
	switch status {
	case statusOK:
		return c.conn.ReceiveUint32()

	case statusUnmapped:
		msg, err := c.conn.ReceiveString()
		if err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w (remote: %s)", bus.ErrUnmapped, msg)

	case statusError:
		msg, err := c.conn.ReceiveString()
		if err != nil {
			return 0, err
		}
		return 0, errors.New(msg)

	default:
		return 0, fmt.Errorf("wire: invalid status %d", status)
	}
}
