//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package driver

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/markkurossi/sha1core/sha1"
	"golang.org/x/crypto/chacha20"
)

// MaxSoakMessage is the maximum length of a generated soak message.
const MaxSoakMessage = 4 * sha1.BlockSize

// Generator generates deterministic pseudo-random test messages from
// a chacha20 keystream.
type Generator struct {
	cipher *chacha20.Cipher
}

// NewGenerator creates a message generator. The key and nonce are
// read from rand.
func NewGenerator(rand io.Reader) (*Generator, error) {
	var seed [chacha20.KeySize + chacha20.NonceSize]byte
	if _, err := io.ReadFull(rand, seed[:]); err != nil {
		return nil, fmt.Errorf("driver: failed to read seed: %w", err)
	}
	c, err := chacha20.NewUnauthenticatedCipher(seed[:chacha20.KeySize],
		seed[chacha20.KeySize:])
	if err != nil {
		return nil, err
	}
	return &Generator{
		cipher: c,
	}, nil
}

func (g *Generator) keystream(out []byte) {
	for i := range out {
		out[i] = 0
	}
	g.cipher.XORKeyStream(out, out)
}

// Next returns the next message. The message length is in the range
// [0...MaxSoakMessage].
func (g *Generator) Next() []byte {
	var hdr [2]byte
	g.keystream(hdr[:])

	msg := make([]byte, int(binary.BigEndian.Uint16(hdr[:]))%(MaxSoakMessage+1))
	g.keystream(msg)
	return msg
}

// Soak hashes count generated messages with the engine and verifies
// the digests against the reference implementation. The function
// returns the number of verified messages.
func (d *Driver) Soak(ctx context.Context, count int, rand io.Reader) (int, error) {
	gen, err := NewGenerator(rand)
	if err != nil {
		return 0, err
	}
	for i := 0; i < count; i++ {
		msg := gen.Next()
		digest, err := d.Sum(ctx, msg)
		if err != nil {
			return i, err
		}
		expected := sha1.Sum(msg)
		if digest != expected {
			return i, fmt.Errorf("driver: soak message %d (%d bytes): engine %s, reference %s",
				i, len(msg), digest, expected)
		}
		d.log.Debugf("soak %d: %d bytes: %s", i, len(msg), digest)
	}
	return count, nil
}
