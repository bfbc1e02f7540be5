package baseline

import (
	"fmt"

	"github.com/earthfail/go-jfif-codec/jpeg/common"
)

// parseSOS validates the scan header, entropy-decodes every MCU of the
// scan into the coefficient blocks, then reconstructs samples and pixels.
func (d *Decoder) parseSOS() error {
	data, err := d.r.ReadSegment()
	if err != nil {
		return err
	}

	if len(data) < 1 {
		return common.ErrInvalidSOS
	}

	ns := int(data[0])
	if ns < 1 || ns > 4 {
		return fmt.Errorf("%w: %d in scan", common.ErrInvalidComponentCount, ns)
	}
	if len(data) != 1+2*ns+3 {
		return common.ErrInvalidSOS
	}

	scanComps := make([]*Component, ns)
	for i := 0; i < ns; i++ {
		cs := data[1+2*i]
		sel := data[2+2*i]

		var comp *Component
		for _, c := range d.components {
			if c.ID == cs {
				comp = c
				break
			}
		}
		if comp == nil {
			return fmt.Errorf("%w: id %d", common.ErrUnknownScanComponent, cs)
		}

		td := int(sel >> 4)
		ta := int(sel & 0x0F)
		if td > 1 || d.dcTables[td] == nil {
			return fmt.Errorf("%w: selector %d", common.ErrNoDCHuffmanTable, td)
		}
		if ta > 1 || d.acTables[ta] == nil {
			return fmt.Errorf("%w: selector %d", common.ErrNoACHuffmanTable, ta)
		}
		if d.qtables[comp.Tq] == nil {
			return fmt.Errorf("%w: selector %d", common.ErrUnknownQuantTable, comp.Tq)
		}

		comp.dcSelector = td
		comp.acSelector = ta
		scanComps[i] = comp
	}

	ss := int(data[1+2*ns])
	se := int(data[2+2*ns])
	ah := int(data[3+2*ns] >> 4)
	al := int(data[3+2*ns] & 0x0F)

	if ss > 63 || se > 63 || se < ss || (ss == 0 && se != 63) {
		return fmt.Errorf("%w: Ss=%d Se=%d", common.ErrInvalidSpectralSelection, ss, se)
	}
	if ss != 0 || se != 63 || ah != 0 || al != 0 {
		return fmt.Errorf("%w: non-baseline scan parameters", common.ErrUnsupportedFeature)
	}

	// Predictors restart at zero for every scan
	for _, c := range d.components {
		c.dcPred = 0
	}

	bits := common.NewBitReader(d.r)
	for by := 0; by < d.blocksHigh; by++ {
		for bx := 0; bx < d.blocksWide; bx++ {
			block := by*d.blocksWide + bx
			for _, comp := range scanComps {
				if err := d.decodeBlock(bits, comp, block); err != nil {
					return err
				}
			}
		}
	}

	d.reconstruct()
	d.pixels = d.convertToPixels()
	d.inFrame = false
	return nil
}

// decodeBlock entropy-decodes one 8x8 block. Coefficients land in the
// block in natural order via the zigzag permutation.
func (d *Decoder) decodeBlock(bits *common.BitReader, comp *Component, block int) error {
	blk := comp.coef[block*64 : block*64+64]

	// DC: magnitude category, then the differential added to the predictor
	t, err := bits.ReadSymbol(d.dcTables[comp.dcSelector])
	if err != nil {
		return err
	}
	if t > 11 {
		return fmt.Errorf("%w: category %d", common.ErrInvalidDCMagnitude, t)
	}

	diff, err := bits.ReceiveExtend(int(t))
	if err != nil {
		return err
	}
	comp.dcPred += diff
	blk[0] = comp.dcPred

	// AC: (run, size) symbols for positions 1..63
	acTable := d.acTables[comp.acSelector]
	k := 1
	for k < 64 {
		rs, err := bits.ReadSymbol(acTable)
		if err != nil {
			return err
		}

		r := int(rs >> 4)
		s := int(rs & 0x0F)

		if s == 0 {
			if rs == 0x00 {
				// End of block; the rest stays zero
				break
			}
			if rs == 0xF0 {
				k += 16
				if k > 64 {
					return fmt.Errorf("%w: zero run past end of block", common.ErrInvalidData)
				}
				continue
			}
			return fmt.Errorf("%w: AC symbol 0x%02X", common.ErrInvalidData, rs)
		}
		if s > 10 {
			return fmt.Errorf("%w: category %d", common.ErrInvalidACMagnitude, s)
		}

		k += r
		if k > 63 {
			return fmt.Errorf("%w: zero run past end of block", common.ErrInvalidData)
		}

		v, err := bits.ReceiveExtend(s)
		if err != nil {
			return err
		}
		blk[common.ZigZag[k]] = v
		k++
	}

	return nil
}

// reconstruct dequantizes every block in place and applies the inverse DCT
func (d *Decoder) reconstruct() {
	blocks := d.blocksWide * d.blocksHigh
	for _, comp := range d.components {
		q := d.qtables[comp.Tq]
		for b := 0; b < blocks; b++ {
			blk := comp.coef[b*64 : b*64+64]
			for i := 0; i < 64; i++ {
				blk[i] *= int32(q.Value(i))
			}
			common.IDCT(blk, comp.data[b*64:b*64+64], 8)
		}
	}
}

// sampleAt reads the reconstructed sample of comp at pixel (x, y)
func (d *Decoder) sampleAt(comp *Component, x, y int) byte {
	block := (y/8)*d.blocksWide + x/8
	return comp.data[block*64+(y%8)*8+(x%8)]
}

// convertToPixels produces the row-major output buffer. Samples of edge
// blocks beyond the image extent are discarded here.
func (d *Decoder) convertToPixels() []byte {
	switch len(d.components) {
	case 1:
		pixels := make([]byte, d.width*d.height)
		comp := d.components[0]
		for y := 0; y < d.height; y++ {
			for x := 0; x < d.width; x++ {
				pixels[y*d.width+x] = d.sampleAt(comp, x, y)
			}
		}
		return pixels

	case 3:
		// Component order in the frame header is Y, Cb, Cr
		pixels := make([]byte, d.width*d.height*3)
		for y := 0; y < d.height; y++ {
			for x := 0; x < d.width; x++ {
				yy := d.sampleAt(d.components[0], x, y)
				cb := d.sampleAt(d.components[1], x, y)
				cr := d.sampleAt(d.components[2], x, y)

				r, g, b := ycbcrToRGB(yy, cb, cr)
				off := (y*d.width + x) * 3
				pixels[off+0] = r
				pixels[off+1] = g
				pixels[off+2] = b
			}
		}
		return pixels
	}

	return nil
}

// ycbcrToRGB converts one level-shifted YCbCr sample triple to RGB using
// the JFIF relation (Kr=0.299, Kg=0.587, Kb=0.114) in 16.16 fixed point.
func ycbcrToRGB(yy, cb, cr byte) (byte, byte, byte) {
	y := int(yy)
	cbVal := int(cb) - 128
	crVal := int(cr) - 128

	r := y + (91881*crVal+32768)>>16
	g := y - (22554*cbVal+46802*crVal+32768)>>16
	b := y + (116130*cbVal+32768)>>16

	return byte(common.Clamp(r, 0, 255)),
		byte(common.Clamp(g, 0, 255)),
		byte(common.Clamp(b, 0, 255))
}
