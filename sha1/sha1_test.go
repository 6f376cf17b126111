//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package sha1

import (
	stdsha1 "crypto/sha1"
	"testing"
)

var sumTests = []struct {
	in  string
	out string
}{
	{"", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
	{"abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
	{
		"abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq",
		"84983e441c3bd26ebaae4aa1f95129e5e54670f1",
	},
}

func TestSum(t *testing.T) {
	for idx, test := range sumTests {
		d := Sum([]byte(test.in))
		if d.String() != test.out {
			t.Errorf("test %d: Sum(%q)=%s, expected %s",
				idx, test.in, d, test.out)
		}
	}
}

func TestSumLengths(t *testing.T) {
	var data []byte
	for i := 0; i < 3*BlockSize; i++ {
		expected := stdsha1.Sum(data)
		got := Sum(data)
		if got != Digest(expected) {
			t.Fatalf("len %d: got %s, expected %x", len(data), got, expected)
		}
		data = append(data, byte(i))
	}
}

func TestPad(t *testing.T) {
	blocks := Pad([]byte("abc"))
	if len(blocks) != 1 {
		t.Fatalf("Pad: got %d blocks, expected 1", len(blocks))
	}
	expected := Block{0x61626380}
	expected[15] = 0x18
	if blocks[0] != expected {
		t.Errorf("Pad: got %x, expected %x", blocks[0], expected)
	}

	for _, l := range []int{55, 56, 63, 64, 119, 120} {
		n := len(Pad(make([]byte, l)))
		want := (l+8)/BlockSize + 1
		if n != want {
			t.Errorf("Pad(%d): got %d blocks, expected %d", l, n, want)
		}
	}
}

func TestRoundConstant(t *testing.T) {
	tests := []struct {
		index int
		k     uint32
	}{
		{0, K0}, {19, K0},
		{20, K1}, {39, K1},
		{40, K2}, {59, K2},
		{60, K3}, {79, K3},
	}
	for _, test := range tests {
		if k := RoundConstant(test.index); k != test.k {
			t.Errorf("RoundConstant(%d)=%08x, expected %08x",
				test.index, k, test.k)
		}
	}
}

func TestExpand(t *testing.T) {
	blocks := Pad([]byte("abc"))
	w := Expand(blocks[0])
	for i := 0; i < BlockWords; i++ {
		if w[i] != blocks[0][i] {
			t.Errorf("w[%d]=%08x, expected %08x", i, w[i], blocks[0][i])
		}
	}
	// W16 of "abc" from FIPS 180 appendix A.
	if w[16] != 0xc2c4c700 {
		t.Errorf("w[16]=%08x, expected c2c4c700", w[16])
	}
}

func TestDigest(t *testing.T) {
	d, err := ParseDigest(sumTests[1].out)
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	h := d.Words()
	if h[0] != 0xa9993e36 || h[4] != 0x9cd0d89d {
		t.Errorf("Words: got %08x", h)
	}
	if DigestFromWords(h) != d {
		t.Errorf("DigestFromWords mismatch")
	}
	if _, err := ParseDigest("abc"); err == nil {
		t.Errorf("ParseDigest accepted short input")
	}
}
