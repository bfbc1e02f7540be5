package common

// maxCodeLength is the longest code a JPEG Huffman table may assign.
const maxCodeLength = 16

// Huffman table classes as they appear in the DHT Tc nibble.
const (
	HuffmanClassDC = 0
	HuffmanClassAC = 1
)

// HuffmanTable is a canonical Huffman decoding table built from a DHT
// sub-table: the per-length code counts and the symbol values in code order.
type HuffmanTable struct {
	// Bits[i] is the number of codes of length i+1
	Bits [maxCodeLength]int
	// Values holds the symbol for each code, ordered by (length, index)
	Values []byte

	// Per-length code ranges for prefix matching
	minCode [maxCodeLength]int32
	maxCode [maxCodeLength]int32
	valPtr  [maxCodeLength]int32
}

// Build derives the canonical code assignment. The first code of length 1
// is 0; codes within a length are sequential; advancing a length shifts the
// running code left by one. A table that would assign the all-ones code of
// any length is malformed, as is a Values slice shorter than the counts.
func (h *HuffmanTable) Build() error {
	total := 0
	for _, n := range h.Bits {
		if n < 0 {
			return ErrInvalidHuffmanTable
		}
		total += n
	}
	if total > len(h.Values) {
		return ErrIncompleteHuffmanTable
	}

	code := int32(0)
	p := int32(0)
	for l := 0; l < maxCodeLength; l++ {
		if h.Bits[l] == 0 {
			h.maxCode[l] = -1
			code <<= 1
			continue
		}
		h.valPtr[l] = p
		h.minCode[l] = code
		for i := 0; i < h.Bits[l]; i++ {
			if code == (1<<uint(l+1))-1 {
				return ErrInvalidHuffmanTable
			}
			code++
		}
		h.maxCode[l] = code - 1
		p += int32(h.Bits[l])
		code <<= 1
	}

	return nil
}

// Codes returns the assigned (code, length) pair for every symbol, in
// Values order. Only valid after Build.
func (h *HuffmanTable) Codes() []HuffmanCode {
	codes := make([]HuffmanCode, 0, len(h.Values))
	for l := 0; l < maxCodeLength; l++ {
		for i := 0; i < h.Bits[l]; i++ {
			codes = append(codes, HuffmanCode{
				Code: uint16(h.minCode[l] + int32(i)),
				Len:  l + 1,
			})
		}
	}
	return codes
}

// HuffmanCode is one assigned canonical code
type HuffmanCode struct {
	Code uint16
	Len  int
}
