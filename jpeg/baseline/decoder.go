package baseline

import (
	"bytes"
	"fmt"
	"io"

	"github.com/earthfail/go-jfif-codec/jpeg/common"
)

// Component represents a color component in the frame
type Component struct {
	ID byte // Component identifier from the frame header
	H  int  // Horizontal sampling factor
	V  int  // Vertical sampling factor
	Tq int  // Quantization table selector

	dcSelector int   // DC Huffman table selector, bound at SOS
	acSelector int   // AC Huffman table selector, bound at SOS
	dcPred     int32 // DC prediction value

	coef []int32 // Decoded coefficients, 64 per block, block-major
	data []byte  // Reconstructed samples, 64 per block, block-major
}

// Image is the result of decoding one JFIF stream
type Image struct {
	// Pixels holds row-major samples: one byte per pixel for grayscale,
	// RGB triples for color
	Pixels     []byte
	Width      int
	Height     int
	Components int
	JFIF       *JFIFHeader
}

// Decoder holds the per-stream decoding state. Tables are bound lazily as
// their defining segments arrive; a later DQT/DHT with the same selector
// replaces the prior occupant. Nothing is shared between decoder instances.
type Decoder struct {
	r *common.Reader

	jfif       *JFIFHeader
	width      int
	height     int
	precision  int
	components []*Component
	blocksWide int
	blocksHigh int

	qtables  [4]*common.QuantTable
	dcTables [2]*common.HuffmanTable
	acTables [2]*common.HuffmanTable

	sawSOF  bool
	inFrame bool
	pixels  []byte
}

// Decode decodes a JFIF baseline stream from memory
func Decode(jpegData []byte) (pixelData []byte, width, height, components int, err error) {
	img, err := DecodeImage(bytes.NewReader(jpegData))
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return img.Pixels, img.Width, img.Height, img.Components, nil
}

// DecodeImage decodes a JFIF baseline stream from a seekable source
func DecodeImage(rs io.ReadSeeker) (*Image, error) {
	d := &Decoder{r: common.NewReader(rs)}
	if err := d.decode(); err != nil {
		return nil, err
	}
	return &Image{
		Pixels:     d.pixels,
		Width:      d.width,
		Height:     d.height,
		Components: len(d.components),
		JFIF:       d.jfif,
	}, nil
}

func (d *Decoder) decode() error {
	if err := d.readProlog(); err != nil {
		return err
	}

	for {
		marker, err := d.r.ReadMarker()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}

		switch {
		case marker == common.MarkerEOI:
			if d.pixels == nil {
				return fmt.Errorf("%w: no scan before EOI", common.ErrInvalidData)
			}
			return nil

		case common.IsSOF(marker):
			if d.sawSOF {
				return common.ErrUnsupportedMultiframe
			}
			if marker != common.MarkerSOF0 {
				return fmt.Errorf("%w: %s", common.ErrUnsupportedFrameFormat, common.MarkerName(marker))
			}
			if err := d.parseSOF(); err != nil {
				return err
			}

		case marker == common.MarkerDQT:
			if err := d.parseDQT(); err != nil {
				return err
			}

		case marker == common.MarkerDHT:
			if err := d.parseDHT(); err != nil {
				return err
			}

		case marker == common.MarkerSOS:
			if !d.inFrame {
				return common.ErrInvalidSOS
			}
			if err := d.parseSOS(); err != nil {
				return err
			}

		case marker == common.MarkerDRI || marker == common.MarkerDNL ||
			marker == common.MarkerDAC || marker == common.MarkerDHP ||
			marker == common.MarkerEXP:
			return fmt.Errorf("%w: %s", common.ErrUnsupportedFeature, common.MarkerName(marker))

		case d.inFrame:
			return fmt.Errorf("%w: %s", common.ErrUnknownMarkerInFrame, common.MarkerName(marker))

		case common.IsAPP(marker) || marker == common.MarkerCOM:
			if err := d.r.SkipSegment(); err != nil {
				return err
			}

		default:
			return fmt.Errorf("%w: %s", common.ErrUnknownMarker, common.MarkerName(marker))
		}
	}
}

// readProlog requires SOI followed by a JFIF APP0. A second APP0
// immediately after the JFIF one is rejected rather than skipped.
func (d *Decoder) readProlog() error {
	soi, err := d.r.ReadUint16()
	if err != nil || soi != common.MarkerSOI {
		return common.ErrInvalidMagicHeader
	}

	app0, err := d.r.ReadUint16()
	if err != nil || app0 != common.MarkerAPP0 {
		return common.ErrInvalidMagicHeader
	}

	data, err := d.r.ReadSegment()
	if err != nil {
		return common.ErrInvalidMagicHeader
	}

	d.jfif, err = parseJFIF(data)
	if err != nil {
		return err
	}

	next, err := d.r.ReadUint16()
	if err == nil && next == common.MarkerAPP0 {
		return common.ErrInvalidMagicHeader
	}
	if err == nil {
		return d.r.Rewind(2)
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// parseSOF parses the baseline frame header
func (d *Decoder) parseSOF() error {
	data, err := d.r.ReadSegment()
	if err != nil {
		return err
	}

	if len(data) < 6 {
		return common.ErrInvalidSOF
	}

	d.precision = int(data[0])
	if d.precision != 8 {
		return fmt.Errorf("%w: %d-bit", common.ErrUnsupportedPrecision, d.precision)
	}

	d.height = int(data[1])<<8 | int(data[2])
	d.width = int(data[3])<<8 | int(data[4])
	if d.width <= 0 || d.height <= 0 {
		return common.ErrInvalidDimensions
	}

	numComponents := int(data[5])
	if numComponents != 1 && numComponents != 3 {
		return fmt.Errorf("%w: %d in frame", common.ErrInvalidComponentCount, numComponents)
	}

	// The declared length must exactly account for the component list
	if len(data) != 6+numComponents*3 {
		return common.ErrInvalidSOF
	}

	d.blocksWide = common.DivCeil(d.width, 8)
	d.blocksHigh = common.DivCeil(d.height, 8)
	blocks := d.blocksWide * d.blocksHigh

	d.components = make([]*Component, numComponents)
	for i := 0; i < numComponents; i++ {
		off := 6 + i*3
		comp := &Component{
			ID: data[off],
			H:  int(data[off+1] >> 4),
			V:  int(data[off+1] & 0x0F),
			Tq: int(data[off+2]),
		}

		if comp.H < 1 || comp.H > 4 || comp.V < 1 || comp.V > 4 {
			return fmt.Errorf("%w: %dx%d", common.ErrInvalidSamplingFactor, comp.H, comp.V)
		}
		// Subsampled frames are outside the supported subset
		if comp.H != 1 || comp.V != 1 {
			return fmt.Errorf("%w: %dx%d (only 1x1)", common.ErrInvalidSamplingFactor, comp.H, comp.V)
		}
		if comp.Tq > 3 {
			return common.ErrUnknownQuantTable
		}

		comp.coef = make([]int32, blocks*64)
		comp.data = make([]byte, blocks*64)
		d.components[i] = comp
	}

	d.sawSOF = true
	d.inFrame = true
	return nil
}

// parseDQT installs the quantization tables of one DQT segment, which may
// carry several tables concatenated
func (d *Decoder) parseDQT() error {
	data, err := d.r.ReadSegment()
	if err != nil {
		return err
	}

	off := 0
	for off < len(data) {
		table, tq, next, err := common.ParseQuantTable(data, off)
		if err != nil {
			return err
		}
		d.qtables[tq] = table
		off = next
	}

	return nil
}

// parseDHT builds the Huffman tables of one DHT segment, which may carry
// several sub-tables concatenated
func (d *Decoder) parseDHT() error {
	data, err := d.r.ReadSegment()
	if err != nil {
		return err
	}

	off := 0
	for off < len(data) {
		tc := int(data[off] >> 4)
		th := int(data[off] & 0x0F)
		if tc != common.HuffmanClassDC && tc != common.HuffmanClassAC {
			return fmt.Errorf("%w: class %d", common.ErrInvalidHuffmanTable, tc)
		}
		if th > 1 {
			return fmt.Errorf("%w: destination %d", common.ErrInvalidHuffmanTable, th)
		}
		off++

		if off+16 > len(data) {
			return common.ErrIncompleteHuffmanTable
		}
		table := &common.HuffmanTable{}
		total := 0
		for i := 0; i < 16; i++ {
			table.Bits[i] = int(data[off+i])
			total += table.Bits[i]
		}
		off += 16

		if off+total > len(data) {
			return common.ErrIncompleteHuffmanTable
		}
		table.Values = make([]byte, total)
		copy(table.Values, data[off:off+total])
		off += total

		if err := table.Build(); err != nil {
			return err
		}

		if tc == common.HuffmanClassDC {
			d.dcTables[th] = table
		} else {
			d.acTables[th] = table
		}
	}

	return nil
}
