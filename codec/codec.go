package codec

// Codec is the universal interface for image decoders that can be
// dispatched by content sniffing
type Codec interface {
	// Decode decodes a compressed stream
	Decode(data []byte) (*DecodeResult, error)

	// Detect reports whether data starts a stream of this format
	Detect(data []byte) bool

	// Name returns a human-readable name
	Name() string
}

// DecodeResult contains the result of decoding
type DecodeResult struct {
	PixelData  []byte // Row-major samples: gray bytes or RGB triples
	Width      int    // Image width
	Height     int    // Image height
	Components int    // Number of color components (1=grayscale, 3=RGB)
	BitDepth   int    // Bits per sample
}
