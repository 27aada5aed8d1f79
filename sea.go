/*
Links:
	https://github.com/chanderlud/sea-codec
	https://qoaformat.org/
*/

// Package sea implements a decoder for SEA (Simple Embedded Audio)
// streams, a lossy 16-bit PCM codec in the lineage of QOA. A stream is
// a fixed-size file header, an opaque metadata blob and a sequence of
// chunks; each chunk carries freshly seeded per-channel LMS predictor
// state, bit-packed scale factors and bit-packed residuals.
package sea

import (
	"os"

	"github.com/pkg/errors"
)

// MagicSeac is present at the beginning of each SEA file: the ASCII
// letters 's', 'e', 'a', 'c'.
const MagicSeac = "seac"

// seaVersion is the only container version understood by the decoder.
const seaVersion = 1

// A Header holds the file header fields of a SEA stream.
//
// File header format (pseudo code):
//
//	type HEADER struct {
//	   magic            uint32 // "seac", little endian.
//	   version          uint8  // must be 1.
//	   channels         uint8  // at least 1.
//	   chunk_size       uint16 // advisory.
//	   frames_per_chunk uint16 // greater than 0.
//	   sample_rate      uint32
//	   total_frames     uint32
//	   metadata_len     uint32
//	}
//
// All multi-byte fields are little endian. A metadata blob of
// metadata_len bytes follows the header and is skipped by the decoder.
type Header struct {
	// Number of interleaved channels.
	Channels uint8
	// Encoded chunk size in bytes. Advisory only; the decoder derives
	// chunk extents from the bit-packed region sizes.
	ChunkSize uint16
	// Number of frames carried by each chunk except possibly the last.
	FramesPerChunk uint16
	// Sample rate in Hz.
	SampleRate uint32
	// Total number of frames in the stream.
	TotalFrames uint32
	// Length in bytes of the metadata blob following the header.
	MetadataLen uint32
}

// A Stream is a fully decoded SEA stream.
type Stream struct {
	// Stream header.
	Header *Header
	// Interleaved signed 16-bit PCM samples, channels in order within
	// each frame; exactly TotalFrames*Channels samples.
	Samples []int16
}

// A decoder holds the read cursor and the cached dequantization table
// of a single decode pass. The table is the only state shared across
// chunks; it is rebuilt whenever a chunk changes the
// (scale_factor_bits, residual_bits) pair.
type decoder struct {
	cur cursor
	dqt *table
}

// ensureTable returns the dequantization table for the given bit
// widths, reusing the cached table when the parameters match.
func (d *decoder) ensureTable(sfb, rb uint8) *table {
	if d.dqt == nil || d.dqt.sfb != sfb || d.dqt.rb != rb {
		d.dqt = newTable(sfb, rb)
	}
	return d.dqt
}

// parseHeader parses and validates the 22-byte file header.
func parseHeader(c *cursor) (hdr *Header, err error) {
	magic, err := c.bytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != MagicSeac {
		return nil, errors.Wrapf(ErrBadMagic, "sea: expected magic %q at offset 0, got %q", MagicSeac, magic)
	}
	version, err := c.u8()
	if err != nil {
		return nil, err
	}
	if version != seaVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "sea: expected version %d at offset 4, got %d", seaVersion, version)
	}

	hdr = new(Header)
	if hdr.Channels, err = c.u8(); err != nil {
		return nil, err
	}
	if hdr.Channels < 1 {
		return nil, errors.Wrapf(ErrInvalidParameters, "sea: channel count at offset 5 must be at least 1, got %d", hdr.Channels)
	}
	if hdr.ChunkSize, err = c.u16(); err != nil {
		return nil, err
	}
	if hdr.FramesPerChunk, err = c.u16(); err != nil {
		return nil, err
	}
	if hdr.FramesPerChunk < 1 {
		return nil, errors.Wrapf(ErrInvalidParameters, "sea: frames per chunk at offset 8 must be at least 1, got %d", hdr.FramesPerChunk)
	}
	if hdr.SampleRate, err = c.u32(); err != nil {
		return nil, err
	}
	if hdr.TotalFrames, err = c.u32(); err != nil {
		return nil, err
	}
	if hdr.MetadataLen, err = c.u32(); err != nil {
		return nil, err
	}
	return hdr, nil
}

// Probe parses and validates the file header of the provided encoded
// stream without decoding any audio. Callers use the returned header
// to size the PCM buffer passed to DecodeInto: exactly
// TotalFrames*Channels samples.
func Probe(data []byte) (*Header, error) {
	c := cursor{data: data}
	return parseHeader(&c)
}

// Decode decodes the provided encoded stream and returns the parsed
// header together with the interleaved PCM samples. Decode is a pure
// function of its input; independent calls share no state.
func Decode(data []byte) (*Stream, error) {
	hdr, err := Probe(data)
	if err != nil {
		return nil, err
	}
	pcm := make([]int16, int(hdr.TotalFrames)*int(hdr.Channels))
	if _, err := DecodeInto(data, pcm); err != nil {
		return nil, err
	}
	return &Stream{Header: hdr, Samples: pcm}, nil
}

// DecodeInto decodes the provided encoded stream into pcm, which must
// hold exactly TotalFrames*Channels samples, and returns the parsed
// header. On failure the contents of pcm are unspecified.
func DecodeInto(data []byte, pcm []int16) (*Header, error) {
	d := decoder{cur: cursor{data: data}}
	hdr, err := parseHeader(&d.cur)
	if err != nil {
		return nil, err
	}
	channels := int(hdr.Channels)
	totalFrames := int(hdr.TotalFrames)
	if len(pcm) != totalFrames*channels {
		return nil, errors.Wrapf(ErrBufferSize, "sea: output buffer holds %d samples, want %d", len(pcm), totalFrames*channels)
	}

	// Skip the metadata blob.
	if err := d.cur.skip(int(hdr.MetadataLen)); err != nil {
		return nil, err
	}

	// Decode chunks in file order; the last chunk may carry fewer than
	// FramesPerChunk frames.
	for readFrames := 0; readFrames < totalFrames; {
		framesInChunk := min(int(hdr.FramesPerChunk), totalFrames-readFrames)
		n := framesInChunk * channels
		if err := d.decodeChunk(hdr, framesInChunk, pcm[:n]); err != nil {
			return nil, err
		}
		pcm = pcm[n:]
		readFrames += framesInChunk
	}
	return hdr, nil
}

// Open reads and decodes the named SEA file.
func Open(path string) (*Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return Decode(data)
}
