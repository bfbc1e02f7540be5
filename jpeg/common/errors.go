package common

import "errors"

// Decode errors. Each is raised at its detection point and is terminal;
// callers match with errors.Is.
var (
	// Stream framing and prolog
	ErrInvalidMagicHeader   = errors.New("invalid SOI/JFIF magic header")
	ErrInvalidMarker        = errors.New("invalid JPEG marker")
	ErrUnknownMarker        = errors.New("unknown JPEG marker")
	ErrUnknownMarkerInFrame = errors.New("unexpected marker inside frame")

	// Unsupported coding processes and features
	ErrUnsupportedFrameFormat = errors.New("unsupported frame format (only baseline DCT)")
	ErrUnsupportedPrecision   = errors.New("unsupported sample precision (only 8-bit)")
	ErrUnsupportedFeature     = errors.New("unsupported JPEG feature")
	ErrUnsupportedMultiframe  = errors.New("multiple frames in one stream")

	// Frame and scan headers
	ErrInvalidComponentCount    = errors.New("invalid component count")
	ErrInvalidSamplingFactor    = errors.New("invalid sampling factor")
	ErrInvalidSpectralSelection = errors.New("invalid spectral selection")
	ErrUnknownScanComponent     = errors.New("scan references unknown component")

	// Table definitions and references
	ErrInvalidHuffmanTable    = errors.New("invalid Huffman table")
	ErrIncompleteHuffmanTable = errors.New("incomplete Huffman table")
	ErrNoSuchHuffmanCode      = errors.New("no matching Huffman code")
	ErrUnknownQuantPrecision  = errors.New("unknown quantization table precision")
	ErrUnknownQuantTable      = errors.New("quantization table not defined")
	ErrNoDCHuffmanTable       = errors.New("DC Huffman table not defined")
	ErrNoACHuffmanTable       = errors.New("AC Huffman table not defined")

	// Entropy-coded data
	ErrInvalidDCMagnitude = errors.New("invalid DC magnitude category")
	ErrInvalidACMagnitude = errors.New("invalid AC magnitude category")
	ErrMarkerInScan       = errors.New("marker inside entropy-coded data")

	// Malformed structure
	ErrInvalidSOF        = errors.New("invalid Start of Frame segment")
	ErrInvalidSOS        = errors.New("invalid Start of Scan segment")
	ErrInvalidDQT        = errors.New("invalid quantization table segment")
	ErrInvalidData       = errors.New("invalid JPEG data")
	ErrInvalidDimensions = errors.New("invalid image dimensions")
)
