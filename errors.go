package sea

import "github.com/pkg/errors"

// Error kinds reported by the decoder. Every failure returned by
// Probe, Decode and DecodeInto wraps one of these sentinels, and can be
// matched with errors.Is. Parse failures carry the byte offset and the
// expected/actual values; ErrBufferSize carries the expected and actual
// sample counts. All parse failures are fatal; the decoder never attempts
// to resync on a later chunk.
var (
	// ErrBadMagic is returned when the stream does not start with the
	// "seac" signature.
	ErrBadMagic = errors.New("invalid magic")

	// ErrUnsupportedVersion is returned for any container version
	// other than 1.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrTruncated is returned when the input ends before a required
	// header field, seed block or bit-packed region.
	ErrTruncated = errors.New("truncated input")

	// ErrUnsupportedChunkType is returned for any chunk type other
	// than 0x01 (constant bit rate).
	ErrUnsupportedChunkType = errors.New("unsupported chunk type")

	// ErrBadReservedByte is returned when a chunk subheader's reserved
	// byte differs from 0x5A.
	ErrBadReservedByte = errors.New("invalid reserved byte")

	// ErrInvalidParameters is returned for out-of-range header or
	// subheader parameters, e.g. zero channels or bit widths outside
	// [1, 8].
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrBufferSize is returned by DecodeInto when the output buffer
	// does not hold exactly TotalFrames*Channels samples.
	ErrBufferSize = errors.New("mismatched output buffer size")
)
