//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package sha1

import (
	"encoding/binary"
	"fmt"

	fasthex "github.com/tmthrgd/go-hex"
)

// Digest is a 160-bit SHA-1 digest.
type Digest [Size]byte

// DigestFromWords creates a digest from the hash state words h0..h4.
func DigestFromWords(h [5]uint32) Digest {
	var d Digest
	for i, v := range h {
		binary.BigEndian.PutUint32(d[i*4:], v)
	}
	return d
}

// ParseDigest parses the hex encoded digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != 2*Size {
		return d, fmt.Errorf("sha1: invalid digest length %d", len(s))
	}
	if _, err := fasthex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("sha1: invalid digest: %w", err)
	}
	return d, nil
}

// Words returns the digest as the hash state words h0..h4.
func (d Digest) Words() [5]uint32 {
	var h [5]uint32
	for i := range h {
		h[i] = binary.BigEndian.Uint32(d[i*4:])
	}
	return h
}

func (d Digest) String() string {
	return fasthex.EncodeToString(d[:])
}
