package baseline

import (
	"bytes"
	"math"

	"github.com/earthfail/go-jfif-codec/jpeg/common"
)

// Minimal baseline JFIF encoder used to produce conformant streams for
// round-trip tests: no subsampling, standard Huffman tables, quality-scaled
// quantization tables. The forward DCT is a straight float evaluation so
// the test oracle stays independent of the decoder's integer transform.

type bitWriter struct {
	buf *bytes.Buffer
	acc uint32
	n   int
}

func (w *bitWriter) writeBits(v uint32, n int) {
	w.acc = w.acc<<uint(n) | (v & ((1 << uint(n)) - 1))
	w.n += n
	for w.n >= 8 {
		b := byte(w.acc >> uint(w.n-8))
		w.buf.WriteByte(b)
		if b == 0xFF {
			// Byte stuffing
			w.buf.WriteByte(0x00)
		}
		w.n -= 8
	}
}

func (w *bitWriter) flush() {
	if w.n > 0 {
		pad := 8 - w.n
		w.writeBits((1<<uint(pad))-1, pad)
	}
}

// encodeCategory returns the magnitude category and the raw bits that
// follow the category symbol
func encodeCategory(v int32) (int, uint32) {
	if v == 0 {
		return 0, 0
	}
	a := v
	if a < 0 {
		a = -a
	}
	cat := 0
	for a > 0 {
		a >>= 1
		cat++
	}
	if v < 0 {
		v += (1 << uint(cat)) - 1
	}
	return cat, uint32(v) & ((1 << uint(cat)) - 1)
}

// codeLookup maps each symbol of a built table to its canonical code
func codeLookup(t *common.HuffmanTable) map[byte]common.HuffmanCode {
	codes := t.Codes()
	m := make(map[byte]common.HuffmanCode, len(codes))
	for i, c := range codes {
		m[t.Values[i]] = c
	}
	return m
}

func fdctBlock(samples *[64]float64, out *[64]float64) {
	for v := 0; v < 8; v++ {
		for u := 0; u < 8; u++ {
			cu, cv := 1.0, 1.0
			if u == 0 {
				cu = math.Sqrt2 / 2
			}
			if v == 0 {
				cv = math.Sqrt2 / 2
			}
			sum := 0.0
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					sum += samples[y*8+x] *
						math.Cos(float64(2*x+1)*float64(u)*math.Pi/16) *
						math.Cos(float64(2*y+1)*float64(v)*math.Pi/16)
				}
			}
			out[v*8+u] = sum * cu * cv / 4
		}
	}
}

func writeSegment(buf *bytes.Buffer, marker uint16, payload []byte) {
	buf.WriteByte(byte(marker >> 8))
	buf.WriteByte(byte(marker))
	length := len(payload) + 2
	buf.WriteByte(byte(length >> 8))
	buf.WriteByte(byte(length))
	buf.Write(payload)
}

func writeMarker(buf *bytes.Buffer, marker uint16) {
	buf.WriteByte(byte(marker >> 8))
	buf.WriteByte(byte(marker))
}

func jfifAPP0() []byte {
	return []byte{'J', 'F', 'I', 'F', 0, 1, 2, 0, 0, 1, 0, 1, 0, 0}
}

func dhtPayload(class, id byte, bits [16]int, values []byte) []byte {
	p := make([]byte, 0, 17+len(values))
	p = append(p, class<<4|id)
	for _, n := range bits {
		p = append(p, byte(n))
	}
	return append(p, values...)
}

type testEncoder struct {
	width, height, comps int
	qt                   [2][64]uint16
	dcCodes              [2]map[byte]common.HuffmanCode
	acCodes              [2]map[byte]common.HuffmanCode
	dcPred               [3]int32
}

// encodeTestJFIF produces a baseline JFIF stream for row-major pixels
// (gray bytes or RGB triples). Quality 100 yields all-ones quantizers.
func encodeTestJFIF(pixels []byte, width, height, comps, quality int) []byte {
	enc := &testEncoder{width: width, height: height, comps: comps}
	enc.qt[0] = common.ScaleQuantTable(common.DefaultLuminanceQuantTable, quality)
	enc.qt[1] = common.ScaleQuantTable(common.DefaultChrominanceQuantTable, quality)

	enc.dcCodes[0] = codeLookup(common.BuildStandardHuffmanTable(
		common.StandardDCLuminanceBits, common.StandardDCLuminanceValues))
	enc.acCodes[0] = codeLookup(common.BuildStandardHuffmanTable(
		common.StandardACLuminanceBits, common.StandardACLuminanceValues))
	enc.dcCodes[1] = codeLookup(common.BuildStandardHuffmanTable(
		common.StandardDCChrominanceBits, common.StandardDCChrominanceValues))
	enc.acCodes[1] = codeLookup(common.BuildStandardHuffmanTable(
		common.StandardACChrominanceBits, common.StandardACChrominanceValues))

	var buf bytes.Buffer
	writeMarker(&buf, common.MarkerSOI)
	writeSegment(&buf, common.MarkerAPP0, jfifAPP0())

	// DQT
	ntables := 1
	if comps == 3 {
		ntables = 2
	}
	for i := 0; i < ntables; i++ {
		p := make([]byte, 65)
		p[0] = byte(i)
		for j := 0; j < 64; j++ {
			p[1+j] = byte(enc.qt[i][common.ZigZag[j]])
		}
		writeSegment(&buf, common.MarkerDQT, p)
	}

	// SOF0, all components 1x1
	sof := []byte{8, byte(height >> 8), byte(height), byte(width >> 8), byte(width), byte(comps)}
	for i := 0; i < comps; i++ {
		tq := byte(0)
		if i > 0 {
			tq = 1
		}
		sof = append(sof, byte(i+1), 0x11, tq)
	}
	writeSegment(&buf, common.MarkerSOF0, sof)

	// DHT
	writeSegment(&buf, common.MarkerDHT, dhtPayload(0, 0,
		common.StandardDCLuminanceBits, common.StandardDCLuminanceValues))
	writeSegment(&buf, common.MarkerDHT, dhtPayload(1, 0,
		common.StandardACLuminanceBits, common.StandardACLuminanceValues))
	if comps == 3 {
		writeSegment(&buf, common.MarkerDHT, dhtPayload(0, 1,
			common.StandardDCChrominanceBits, common.StandardDCChrominanceValues))
		writeSegment(&buf, common.MarkerDHT, dhtPayload(1, 1,
			common.StandardACChrominanceBits, common.StandardACChrominanceValues))
	}

	// SOS
	sos := []byte{byte(comps)}
	for i := 0; i < comps; i++ {
		sel := byte(0x00)
		if i > 0 {
			sel = 0x11
		}
		sos = append(sos, byte(i+1), sel)
	}
	sos = append(sos, 0, 63, 0)
	writeSegment(&buf, common.MarkerSOS, sos)

	// Entropy-coded data, non-interleaved block order matching the decoder
	planes := enc.toPlanes(pixels)
	bw := &bitWriter{buf: &buf}
	blocksWide := common.DivCeil(width, 8)
	blocksHigh := common.DivCeil(height, 8)
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			for c := 0; c < comps; c++ {
				enc.encodeBlock(bw, planes[c], c, bx, by)
			}
		}
	}
	bw.flush()

	writeMarker(&buf, common.MarkerEOI)
	return buf.Bytes()
}

// toPlanes splits the input into full-resolution component planes
func (enc *testEncoder) toPlanes(pixels []byte) [][]byte {
	n := enc.width * enc.height
	if enc.comps == 1 {
		return [][]byte{pixels}
	}

	y := make([]byte, n)
	cb := make([]byte, n)
	cr := make([]byte, n)
	for i := 0; i < n; i++ {
		r := int(pixels[i*3+0])
		g := int(pixels[i*3+1])
		b := int(pixels[i*3+2])

		yy := (19595*r + 38470*g + 7471*b + 32768) >> 16
		cbVal := (-11056*r - 21712*g + 32768*b + 8421376) >> 16
		crVal := (32768*r - 27440*g - 5328*b + 8421376) >> 16

		y[i] = byte(common.Clamp(yy, 0, 255))
		cb[i] = byte(common.Clamp(cbVal, 0, 255))
		cr[i] = byte(common.Clamp(crVal, 0, 255))
	}
	return [][]byte{y, cb, cr}
}

func (enc *testEncoder) encodeBlock(bw *bitWriter, plane []byte, comp, bx, by int) {
	tsel := 0
	if comp > 0 {
		tsel = 1
	}

	// Gather samples, replicating edges, and level shift
	var samples, coef [64]float64
	for y := 0; y < 8; y++ {
		sy := common.Clamp(by*8+y, 0, enc.height-1)
		for x := 0; x < 8; x++ {
			sx := common.Clamp(bx*8+x, 0, enc.width-1)
			samples[y*8+x] = float64(plane[sy*enc.width+sx]) - 128
		}
	}
	fdctBlock(&samples, &coef)

	// Quantize
	var q [64]int32
	for i := 0; i < 64; i++ {
		q[i] = int32(math.Round(coef[i] / float64(enc.qt[tsel][i])))
	}

	// DC
	diff := q[0] - enc.dcPred[comp]
	enc.dcPred[comp] = q[0]
	cat, bits := encodeCategory(diff)
	code := enc.dcCodes[tsel][byte(cat)]
	bw.writeBits(uint32(code.Code), code.Len)
	if cat > 0 {
		bw.writeBits(bits, cat)
	}

	// AC
	run := 0
	for k := 1; k < 64; k++ {
		v := q[common.ZigZag[k]]
		if v == 0 {
			run++
			continue
		}
		for run >= 16 {
			zrl := enc.acCodes[tsel][0xF0]
			bw.writeBits(uint32(zrl.Code), zrl.Len)
			run -= 16
		}
		cat, bits := encodeCategory(v)
		code := enc.acCodes[tsel][byte(run<<4|cat)]
		bw.writeBits(uint32(code.Code), code.Len)
		bw.writeBits(bits, cat)
		run = 0
	}
	if run > 0 {
		eob := enc.acCodes[tsel][0x00]
		bw.writeBits(uint32(eob.Code), eob.Len)
	}
}
