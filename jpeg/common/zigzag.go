package common

// ZigZag maps a position in zigzag (encoding) order to its natural
// row-major offset in an 8x8 block.
var ZigZag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// ZigZagIndex maps a natural row-major offset to its position in zigzag
// order; it is the inverse of ZigZag.
var ZigZagIndex [64]int

func init() {
	for k, n := range ZigZag {
		ZigZagIndex[n] = k
	}
}
