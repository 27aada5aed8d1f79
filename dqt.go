package sea

import "math"

// idealPowFactor maps residual_bits-1 to the exponent numerator used
// to spread the scale factor rows across the 16-bit dynamic range.
var idealPowFactor = [8]float32{12.0, 11.65, 11.20, 10.58, 9.64, 8.75, 7.66, 6.63}

// A table is a dequantization table: one row per scale factor, with
// columns holding (+v, -v) pairs so that the residual code's least
// significant bit selects the sign and its upper bits the magnitude.
// The table depends only on (scale_factor_bits, residual_bits) and is
// read-only once built, so consecutive chunks sharing those parameters
// reuse it.
type table struct {
	sfb, rb uint8
	// cols is the row stride: 2^residual_bits entries.
	cols int
	vals []int32
}

// at returns the dequantized value for scale factor row sf and
// residual code q. Both are bounded by construction: the unpacker
// masks sf to scale_factor_bits and q to residual_bits.
func (t *table) at(sf, q uint8) int32 {
	return t.vals[int(sf)*t.cols+int(q)]
}

// newTable derives the dequantization table for the given bit widths.
//
// Table construction (pseudo code):
//
//	scale_items   = 2^scale_factor_bits
//	dqt_len       = 2^(residual_bits-1)
//	power_factor  = IDEAL_POW_FACTOR[residual_bits-1] / scale_factor_bits
//	scale[i]      = trunc(powf(i+1, power_factor))     i in [0, scale_items)
//	shape         = per-width quantizer bin centers, see below
//	DQT[s][2k]    = roundf(scale[s] * shape[k])
//	DQT[s][2k+1]  = -DQT[s][2k]
//
// All intermediate arithmetic is IEEE-754 binary32; computing any of
// these steps in binary64 perturbs table entries and diverges the
// decoded PCM from the reference bitstreams.
func newTable(sfb, rb uint8) *table {
	scaleItems := 1 << sfb
	dqtLen := 1 << (rb - 1)

	powerFactor := idealPowFactor[rb-1] / float32(sfb)
	scaleFactors := make([]int32, scaleItems)
	for i := range scaleFactors {
		scaleFactors[i] = int32(powf(float32(i+1), powerFactor))
	}

	shape := make([]float32, dqtLen)
	switch rb {
	case 1:
		shape[0] = 2.0
	case 2:
		shape[0], shape[1] = 1.115, 4.0
	default:
		start := float32(0.75)
		end := float32(int32(1)<<rb - 1)
		step := floorf((end - start) / float32(dqtLen-1))
		shape[0] = start
		for i := 1; i < dqtLen-1; i++ {
			shape[i] = 0.5 + float32(i)*step
		}
		shape[dqtLen-1] = end
	}

	t := &table{sfb: sfb, rb: rb, cols: dqtLen * 2}
	t.vals = make([]int32, scaleItems*t.cols)
	i := 0
	for _, sf := range scaleFactors {
		for _, sh := range shape {
			v := roundi32(float32(sf) * sh)
			t.vals[i] = v
			t.vals[i+1] = -v
			i += 2
		}
	}
	return t
}

// powf is single-precision x**y. The float64 round trip is exact for
// binary32 inputs, and the result rounds to the same binary32 value as
// the C library powf for every (x, y) the table builder produces.
func powf(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

// floorf is single-precision floor.
func floorf(x float32) float32 {
	return float32(math.Floor(float64(x)))
}

// roundi32 rounds half away from zero, like roundf, and converts to a
// signed 32-bit integer.
func roundi32(x float32) int32 {
	return int32(math.Round(float64(x)))
}
