package baseline

import (
	"github.com/earthfail/go-jfif-codec/codec"
)

// Codec implements codec.Codec for baseline JFIF streams
type Codec struct{}

// NewCodec creates a new baseline JFIF codec
func NewCodec() *Codec {
	return &Codec{}
}

// Decode decodes baseline JFIF data
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	pixelData, width, height, components, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return &codec.DecodeResult{
		PixelData:  pixelData,
		Width:      width,
		Height:     height,
		Components: components,
		BitDepth:   8, // Baseline is always 8-bit
	}, nil
}

// Detect reports whether data opens with the SOI marker and the JFIF
// identifier at its fixed offset
func (c *Codec) Detect(data []byte) bool {
	return len(data) >= 10 &&
		data[0] == 0xFF && data[1] == 0xD8 &&
		string(data[6:10]) == "JFIF"
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return "jfif-baseline"
}

func init() {
	codec.Register(NewCodec())
}
