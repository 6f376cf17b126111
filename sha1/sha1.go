//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package sha1 implements the SHA-1 constants, message schedule, and
// padding shared by the digest engine and its callers. It also
// provides a straight-line reference compression function which is
// used to validate the engine.
//
// SHA-1 is cryptographically broken and should not be used for secure
// applications.
package sha1

import (
	"encoding/binary"
	"math/bits"
)

// The size of a SHA-1 checksum in bytes.
const Size = 20

// The blocksize of SHA-1 in bytes.
const BlockSize = 64

const (
	// BlockWords is the number of 32-bit words in one message block.
	BlockWords = BlockSize / 4

	// Rounds is the number of rounds per block.
	Rounds = 80

	// EpochRounds is the number of rounds sharing one mixing
	// function and round constant.
	EpochRounds = 20
)

// Initial hash values.
const (
	Init0 = 0x67452301
	Init1 = 0xEFCDAB89
	Init2 = 0x98BADCFE
	Init3 = 0x10325476
	Init4 = 0xC3D2E1F0
)

// Round constants for the four epochs.
const (
	K0 = 0x5A827999
	K1 = 0x6ED9EBA1
	K2 = 0x8F1BBCDC
	K3 = 0xCA62C1D6
)

// Block is one 512-bit message block as big-endian words.
type Block [BlockWords]uint32

// IV returns the SHA-1 initial hash state.
func IV() [5]uint32 {
	return [5]uint32{Init0, Init1, Init2, Init3, Init4}
}

// Pad pads the data with the SHA-1 padding and splits the result into
// message blocks. The padding adds a 1 bit and 0 bits until 56 bytes
// mod 64, followed by the message length in bits.
func Pad(data []byte) []Block {
	length := uint64(len(data))

	var t uint64
	if length%BlockSize < 56 {
		t = 56 - length%BlockSize
	} else {
		t = BlockSize + 56 - length%BlockSize
	}

	padded := make([]byte, length+t+8)
	copy(padded, data)
	padded[length] = 0x80
	binary.BigEndian.PutUint64(padded[length+t:], length<<3)

	result := make([]Block, len(padded)/BlockSize)
	for i := range result {
		result[i] = ParseBlock(padded[i*BlockSize:])
	}
	return result
}

// ParseBlock decodes the first BlockSize bytes of data into a message
// block.
func ParseBlock(data []byte) Block {
	var b Block
	for i := 0; i < BlockWords; i++ {
		b[i] = binary.BigEndian.Uint32(data[i*4:])
	}
	return b
}

// Compress runs the 80 rounds over the block and returns the chained
// hash state.
func Compress(state [5]uint32, block Block) [5]uint32 {
	w := Expand(block)

	a, b, c, d, e := state[0], state[1], state[2], state[3], state[4]
	for i := 0; i < Rounds; i++ {
		t := bits.RotateLeft32(a, 5) + Mix(i, b, c, d) + e + w[i] +
			RoundConstant(i)
		a, b, c, d, e = t, a, bits.RotateLeft32(b, 30), c, d
	}

	state[0] += a
	state[1] += b
	state[2] += c
	state[3] += d
	state[4] += e

	return state
}

// Sum returns the SHA-1 checksum of the data.
func Sum(data []byte) Digest {
	state := IV()
	for _, block := range Pad(data) {
		state = Compress(state, block)
	}
	return DigestFromWords(state)
}
