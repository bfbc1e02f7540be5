package common

import "testing"

func TestZigZagRoundTrip(t *testing.T) {
	for k := 0; k < 64; k++ {
		if got := ZigZagIndex[ZigZag[k]]; got != k {
			t.Errorf("ZigZagIndex[ZigZag[%d]] = %d", k, got)
		}
	}
	for n := 0; n < 64; n++ {
		if got := ZigZag[ZigZagIndex[n]]; got != n {
			t.Errorf("ZigZag[ZigZagIndex[%d]] = %d", n, got)
		}
	}
}

func TestZigZagIsPermutation(t *testing.T) {
	var seen [64]bool
	for _, n := range ZigZag {
		if n < 0 || n > 63 || seen[n] {
			t.Fatalf("ZigZag is not a permutation at %d", n)
		}
		seen[n] = true
	}
}

func TestZigZagCorners(t *testing.T) {
	// The traversal starts at DC, moves right, then walks the diagonals
	tests := []struct{ k, natural int }{
		{0, 0},   // DC
		{1, 1},   // (0,1)
		{2, 8},   // (1,0)
		{3, 16},  // (2,0)
		{63, 63}, // (7,7)
		{62, 62}, // (7,6)
	}
	for _, tt := range tests {
		if ZigZag[tt.k] != tt.natural {
			t.Errorf("ZigZag[%d] = %d, want %d", tt.k, ZigZag[tt.k], tt.natural)
		}
	}
}
