package common

// Fixed-point constants, scaled by 2048
const (
	w1 = 2841 // 2048*sqrt(2)*cos(1*pi/16)
	w2 = 2676 // 2048*sqrt(2)*cos(2*pi/16)
	w3 = 2408 // 2048*sqrt(2)*cos(3*pi/16)
	w5 = 1609 // 2048*sqrt(2)*cos(5*pi/16)
	w6 = 1108 // 2048*sqrt(2)*cos(6*pi/16)
	w7 = 565  // 2048*sqrt(2)*cos(7*pi/16)

	r2 = 181 // 256/sqrt(2)
)

// idctButterfly runs the shared three-stage butterfly of the 1-D IDCT.
// Inputs are the pre-scaled coefficients in frequency order x0=u0, x1=u4,
// x2=u6, x3=u2, x4=u1, x5=u7, x6=u5, x7=u3; outputs are spatial samples
// 0..7 before the pass-specific downshift. The products of the odd part
// and of x2/x3 are rounded and shifted right by shift (0 for rows, 3 for
// columns) to match the scale of the prescaled x0/x1.
func idctButterfly(shift uint, x0, x1, x2, x3, x4, x5, x6, x7 int32) (int32, int32, int32, int32, int32, int32, int32, int32) {
	rnd := int32(1) << shift >> 1
	x8 := w7*(x4+x5) + rnd
	x4 = (x8 + (w1-w7)*x4) >> shift
	x5 = (x8 - (w1+w7)*x5) >> shift
	x8 = w3*(x6+x7) + rnd
	x6 = (x8 - (w3-w5)*x6) >> shift
	x7 = (x8 - (w3+w5)*x7) >> shift

	x8 = x0 + x1
	x0 -= x1
	x1 = w6*(x3+x2) + rnd
	x2 = (x1 - (w2+w6)*x2) >> shift
	x3 = (x1 + (w2-w6)*x3) >> shift
	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	x7 = x8 + x3
	x8 -= x3
	x3 = x0 + x2
	x0 -= x2
	x2 = int32((r2*int64(x4+x5) + 128) >> 8)
	x4 = int32((r2*int64(x4-x5) + 128) >> 8)

	return x7 + x1, x3 + x2, x0 + x4, x8 + x6, x8 - x6, x0 - x4, x3 - x2, x7 - x1
}

// IDCT computes the 2-D inverse DCT of one 8x8 block of dequantized
// coefficients in natural order, writing level-shifted samples clamped to
// 0..255 into out with the given row stride.
func IDCT(coef []int32, out []byte, stride int) {
	var tmp [64]int32

	// Rows
	for y := 0; y < 8; y++ {
		row := coef[y*8 : y*8+8 : y*8+8]

		if row[1]|row[2]|row[3]|row[4]|row[5]|row[6]|row[7] == 0 {
			dc := row[0] << 3
			for x := 0; x < 8; x++ {
				tmp[y*8+x] = dc
			}
			continue
		}

		o0, o1, o2, o3, o4, o5, o6, o7 := idctButterfly(0,
			(row[0]<<11)+128, row[4]<<11, row[6], row[2],
			row[1], row[7], row[5], row[3],
		)
		tmp[y*8+0] = o0 >> 8
		tmp[y*8+1] = o1 >> 8
		tmp[y*8+2] = o2 >> 8
		tmp[y*8+3] = o3 >> 8
		tmp[y*8+4] = o4 >> 8
		tmp[y*8+5] = o5 >> 8
		tmp[y*8+6] = o6 >> 8
		tmp[y*8+7] = o7 >> 8
	}

	// Columns, with final descale, level shift and range limit
	for x := 0; x < 8; x++ {
		if tmp[8+x]|tmp[16+x]|tmp[24+x]|tmp[32+x]|tmp[40+x]|tmp[48+x]|tmp[56+x] == 0 {
			dc := byte(Clamp(int(((tmp[x]+32)>>6)+128), 0, 255))
			for y := 0; y < 8; y++ {
				out[y*stride+x] = dc
			}
			continue
		}

		o0, o1, o2, o3, o4, o5, o6, o7 := idctButterfly(3,
			(tmp[x]<<8)+8192, tmp[32+x]<<8, tmp[48+x], tmp[16+x],
			tmp[8+x], tmp[56+x], tmp[40+x], tmp[24+x],
		)
		out[0*stride+x] = byte(Clamp(int((o0>>14)+128), 0, 255))
		out[1*stride+x] = byte(Clamp(int((o1>>14)+128), 0, 255))
		out[2*stride+x] = byte(Clamp(int((o2>>14)+128), 0, 255))
		out[3*stride+x] = byte(Clamp(int((o3>>14)+128), 0, 255))
		out[4*stride+x] = byte(Clamp(int((o4>>14)+128), 0, 255))
		out[5*stride+x] = byte(Clamp(int((o5>>14)+128), 0, 255))
		out[6*stride+x] = byte(Clamp(int((o6>>14)+128), 0, 255))
		out[7*stride+x] = byte(Clamp(int((o7>>14)+128), 0, 255))
	}
}
