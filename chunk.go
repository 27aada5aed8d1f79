package sea

import (
	"math"

	"github.com/pkg/errors"

	"github.com/chanderlud/sea/internal/bits"
)

// Chunk subheader constants.
const (
	// chunkTypeCBR is the only chunk type defined by version 1
	// streams: constant bit rate.
	chunkTypeCBR = 0x01
	// chunkReserved is the mandatory value of the reserved subheader
	// byte.
	chunkReserved = 0x5A
)

// lmsOrder is the order of the per-channel adaptive predictor.
const lmsOrder = 4

// An lms holds the per-channel least mean squares predictor state. The
// filter is re-seeded from the chunk subheader at the start of every
// chunk; state never crosses chunk boundaries.
type lms struct {
	history [lmsOrder]int32
	weights [lmsOrder]int32
}

// predict returns the next sample estimate from the current filter
// state. The accumulation wraps in 32 bits like the reference decoder
// and the right shift is sign-propagating.
func (l *lms) predict() int32 {
	var p int32
	for i := range l.weights {
		p += l.weights[i] * l.history[i]
	}
	return p >> 13
}

// update adjusts the filter after a sample has been emitted. Sign-sign
// LMS: each weight moves by delta toward the sign of its history
// entry, then the history shifts left with the reconstructed sample
// entering at the end.
func (l *lms) update(sample int16, residual int32) {
	delta := residual >> 4
	for i := range l.weights {
		if l.history[i] < 0 {
			l.weights[i] -= delta
		} else {
			l.weights[i] += delta
		}
	}
	copy(l.history[:lmsOrder-1], l.history[1:])
	l.history[lmsOrder-1] = int32(sample)
}

// clamp saturates v to the signed 16-bit sample range.
func clamp(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// decodeChunk decodes a single chunk into dst, which holds exactly
// framesInChunk*channels samples.
//
// Chunk format (pseudo code):
//
//	type CHUNK struct {
//	   type                uint8 // 0x01: constant bit rate.
//	   packed              uint8 // scale_factor_bits<<4 | residual_bits.
//	   scale_factor_frames uint8 // frames sharing one scale factor.
//	   reserved            uint8 // 0x5A.
//	   lms                 [channels]struct {
//	      history [4]int16 // little endian.
//	      weights [4]int16 // little endian.
//	   }
//	   scale_factors [P]byte // ceil(groups*channels*scale_factor_bits/8)
//	   residuals     [Q]byte // ceil(frames*channels*residual_bits/8)
//	}
//
// where groups = ceil(framesInChunk/scale_factor_frames). Scale
// factors are ordered group-major with channels in order; residuals
// are ordered frame-major with channels in order.
func (d *decoder) decodeChunk(hdr *Header, framesInChunk int, dst []int16) error {
	off := d.cur.off
	typ, err := d.cur.u8()
	if err != nil {
		return err
	}
	if typ != chunkTypeCBR {
		return errors.Wrapf(ErrUnsupportedChunkType, "sea: chunk at offset %d has type 0x%02X, want 0x%02X", off, typ, chunkTypeCBR)
	}
	packed, err := d.cur.u8()
	if err != nil {
		return err
	}
	sfb := packed >> 4
	rb := packed & 0x0F
	sfFrames, err := d.cur.u8()
	if err != nil {
		return err
	}
	reserved, err := d.cur.u8()
	if err != nil {
		return err
	}
	if reserved != chunkReserved {
		return errors.Wrapf(ErrBadReservedByte, "sea: chunk at offset %d has reserved byte 0x%02X, want 0x%02X", off, reserved, chunkReserved)
	}
	if sfb < 1 || sfb > 8 || rb < 1 || rb > 8 {
		return errors.Wrapf(ErrInvalidParameters, "sea: chunk at offset %d has scale factor bits %d, residual bits %d; both must be in [1, 8]", off, sfb, rb)
	}
	if sfFrames < 1 {
		return errors.Wrapf(ErrInvalidParameters, "sea: chunk at offset %d has zero scale factor frames", off)
	}

	// Seed the per-channel predictors: 4 history then 4 weight values
	// per channel, in channel order.
	channels := int(hdr.Channels)
	state := make([]lms, channels)
	for ch := range state {
		for i := range state[ch].history {
			v, err := d.cur.i16()
			if err != nil {
				return err
			}
			state[ch].history[i] = int32(v)
		}
		for i := range state[ch].weights {
			v, err := d.cur.i16()
			if err != nil {
				return err
			}
			state[ch].weights[i] = int32(v)
		}
	}

	dqt := d.ensureTable(sfb, rb)

	groups := ceilDiv(framesInChunk, int(sfFrames))
	sfRegion, err := d.cur.bytes(ceilDiv(groups*channels*int(sfb), 8))
	if err != nil {
		return err
	}
	scaleFactors := bits.Unpack(sfb, sfRegion)

	resRegion, err := d.cur.bytes(ceilDiv(framesInChunk*channels*int(rb), 8))
	if err != nil {
		return err
	}
	residuals := bits.Unpack(rb, resRegion)

	n := 0
	for g := 0; g < groups; g++ {
		for f := 0; f < int(sfFrames); f++ {
			frame := g*int(sfFrames) + f
			if frame >= framesInChunk {
				break
			}
			for ch := 0; ch < channels; ch++ {
				sf := scaleFactors[g*channels+ch]
				q := residuals[frame*channels+ch]
				predicted := state[ch].predict()
				dequantized := dqt.at(sf, q)
				reconstructed := clamp(predicted + dequantized)
				dst[n] = reconstructed
				n++
				state[ch].update(reconstructed, dequantized)
			}
		}
	}
	return nil
}

// ceilDiv returns ceil(a/b) for positive operands.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
