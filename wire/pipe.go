//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package wire

import (
	"io"
	"sync"
)

// Pipe creates an in-process register link. The first connection is
// the client end and the second the server end. Closing either end
// delivers io.EOF to the peer's next receive.
func Pipe() (client, server *Conn) {
	c2s, s2c := newHalf(), newHalf()

	return NewConn(&endpoint{in: s2c, out: c2s}),
		NewConn(&endpoint{in: c2s, out: s2c})
}

// half is one direction of a pipe.
type half struct {
	r    *io.PipeReader
	w    *io.PipeWriter
	once sync.Once
}

func newHalf() *half {
	r, w := io.Pipe()
	return &half{
		r: r,
		w: w,
	}
}

// endpoint reads from in and writes to out.
type endpoint struct {
	in  *half
	out *half
}

func (e *endpoint) Read(data []byte) (int, error) {
	return e.in.r.Read(data)
}

func (e *endpoint) Write(data []byte) (int, error) {
	return e.out.w.Write(data)
}

// Close ends the outgoing direction with io.EOF and drops any data
// still unread in the incoming direction.
func (e *endpoint) Close() error {
	var err error
	e.out.once.Do(func() {
		err = e.out.w.Close()
	})
	if err != nil {
		return err
	}
	return e.in.r.CloseWithError(io.ErrClosedPipe)
}
