//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package sha1

import (
	"math/bits"
)

// Epoch returns the epoch 0..3 of the round index.
func Epoch(index int) int {
	switch {
	case index < EpochRounds:
		return 0
	case index < 2*EpochRounds:
		return 1
	case index < 3*EpochRounds:
		return 2
	default:
		return 3
	}
}

// RoundConstant returns the round constant of the round index.
func RoundConstant(index int) uint32 {
	switch Epoch(index) {
	case 0:
		return K0
	case 1:
		return K1
	case 2:
		return K2
	default:
		return K3
	}
}

// Mix applies the mixing function of the round index to the working
// registers b, c, and d.
func Mix(index int, b, c, d uint32) uint32 {
	switch Epoch(index) {
	case 0:
		return Ch(b, c, d)
	case 2:
		return Maj(b, c, d)
	default:
		return Parity(b, c, d)
	}
}

// Ch is the choose function of the first epoch.
func Ch(b, c, d uint32) uint32 {
	return (b & c) | (^b & d)
}

// Parity is the mixing function of the second and fourth epochs.
func Parity(b, c, d uint32) uint32 {
	return b ^ c ^ d
}

// Maj is the majority function of the third epoch.
func Maj(b, c, d uint32) uint32 {
	return (b & c) | (b & d) | (c & d)
}

// Expand computes the 80-word message schedule of the block. Rounds
// 0-15 use the block words directly, and the remaining words are
// derived with the standard SHA-1 expansion.
func Expand(block Block) [Rounds]uint32 {
	var w [Rounds]uint32
	copy(w[:], block[:])
	for i := BlockWords; i < Rounds; i++ {
		w[i] = bits.RotateLeft32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
	}
	return w
}
