// Package bits provides bit-level plumbing for the packed regions of
// SEA chunks.
package bits

import (
	"bytes"

	"github.com/icza/bitio"
)

// Unpack decodes src as a stream of bitSize-wide unsigned integers,
// MSB first within each byte. It consumes every byte of src and emits
// floor(len(src)*8/bitSize) values; trailing bits narrower than
// bitSize are padding and produce no output.
//
// Examples of 3-bit unpacking on the left and decoded values on the
// right:
//
//	00100100 10010010  => 1, 1, 1, 1, 1
//	11110000           => 7, 4
//
// bitSize must be in [1, 8]; a width of 0 is not representable in the
// chunk subheader and is rejected by the chunk decoder.
func Unpack(bitSize uint8, src []byte) []uint8 {
	out := make([]uint8, len(src)*8/int(bitSize))
	r := bitio.NewReader(bytes.NewReader(src))
	for i := range out {
		v, err := r.ReadBits(bitSize)
		if err != nil {
			// Unreachable: src holds at least len(out)*bitSize bits.
			panic(err)
		}
		out[i] = uint8(v)
	}
	return out
}
