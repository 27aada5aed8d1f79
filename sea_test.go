package sea_test

import (
	"encoding/hex"
	"errors"
	"reflect"
	"testing"

	"github.com/chanderlud/sea"
)

// Golden decode vectors generated from the reference implementation.
var golden = []struct {
	name       string
	in         string // hex-encoded stream
	sampleRate uint32
	channels   uint8
	want       []int16
}{
	{
		// Zero seeds, zero scale factors, zero residuals: every frame
		// emits DQT[0][0] and the weights never move.
		name:       "silence",
		in:         "7365616301010000100044ac000010000000000000000143105a0000000000000000000000000000000000000000000000",
		sampleRate: 44100,
		channels:   1,
		want:       []int16{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	},
	{
		// Residual code 1 selects the negated column; the prediction
		// drifts once the accumulated history feeds back.
		name:       "dc step",
		in:         "7365616301010000100044ac000010000000000000000143105a0000000000000000000000000000000000249249249249",
		sampleRate: 44100,
		channels:   1,
		want:       []int16{-1, -1, -1, -1, -1, -1, -2, -2, -2, -2, -2, -2, -2, -2, -2, -2},
	},
	{
		// Prediction of 32767 plus a large positive dequantized value
		// saturates at the signed 16-bit maximum.
		name:       "clamp",
		in:         "73656163010100000400401f000004000000000000000143045a000000000000ff7f0000000000000020f0db60",
		sampleRate: 8000,
		channels:   1,
		want:       []int16{32767, 32767, 32767, 32767},
	},
	{
		// Two channels with distinct seeds and residuals; output is
		// interleaved frame-major, channels in order.
		name:       "stereo interleave",
		in:         "736561630102000002002256000002000000000000000143025a0000000000000000000000000000000000000000000064000000000000000020355070",
		sampleRate: 22050,
		channels:   2,
		want:       []int16{120, 775, 36, -271},
	},
	{
		// total_frames=3 with frames_per_chunk=2: two chunks, each
		// re-seeding its own LMS state.
		name:       "chunk boundary",
		in:         "73656163010100000200401f000003000000000000000143025a0a0014001e0028006400c8002c01900140740143025afbfffafff9fff8ff32003c00460050002020",
		sampleRate: 8000,
		channels:   1,
		want:       []int16{-222, -414, -17},
	},
	{
		// Stereo, two chunks, a metadata blob, sfb=3/rb=5.
		name:       "general",
		in:         "7365616301020000040080bb00000700000003000000eeeeee0135025a7800acfe3002f4fc2c0138ff64003200e80318fcf4010cfed4fec8009cffceff39802fa224ec1f0135025a01000200030004000900080007000600fffffefffdfffcfff7fff8fff9fffafffd50aa873f1c",
		sampleRate: 48000,
		channels:   2,
		want:       []int16{-27, 16024, -185, -957, -693, 1780, 28, -1789, -16339, 8369, 32, -15285, 3323, 1053},
	},
}

func TestDecodeGolden(t *testing.T) {
	for _, g := range golden {
		t.Run(g.name, func(t *testing.T) {
			data, err := hex.DecodeString(g.in)
			if err != nil {
				t.Fatal(err)
			}
			stream, err := sea.Decode(data)
			if err != nil {
				t.Fatalf("unable to decode stream; %v", err)
			}
			if stream.Header.SampleRate != g.sampleRate {
				t.Errorf("sample rate mismatch; expected %d, got %d", g.sampleRate, stream.Header.SampleRate)
			}
			if stream.Header.Channels != g.channels {
				t.Errorf("channel count mismatch; expected %d, got %d", g.channels, stream.Header.Channels)
			}
			if !reflect.DeepEqual(stream.Samples, g.want) {
				t.Errorf("sample mismatch; expected %v, got %v", g.want, stream.Samples)
			}
		})
	}
}

func TestDecodeInto(t *testing.T) {
	data, err := hex.DecodeString(golden[0].in)
	if err != nil {
		t.Fatal(err)
	}
	pcm := make([]int16, len(golden[0].want))
	hdr, err := sea.DecodeInto(data, pcm)
	if err != nil {
		t.Fatalf("unable to decode stream; %v", err)
	}
	if hdr.TotalFrames != uint32(len(golden[0].want)) {
		t.Errorf("total frames mismatch; expected %d, got %d", len(golden[0].want), hdr.TotalFrames)
	}
	if !reflect.DeepEqual(pcm, golden[0].want) {
		t.Errorf("sample mismatch; expected %v, got %v", golden[0].want, pcm)
	}

	// A mis-sized output buffer must be rejected up front.
	if _, err := sea.DecodeInto(data, make([]int16, 3)); !errors.Is(err, sea.ErrBufferSize) {
		t.Errorf("expected ErrBufferSize, got %v", err)
	}
}

// Decoding is a pure function of the input bytes.
func TestDecodeIdempotent(t *testing.T) {
	data, err := hex.DecodeString(golden[5].in)
	if err != nil {
		t.Fatal(err)
	}
	a, err := sea.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sea.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Samples, b.Samples) {
		t.Error("independent decodes of the same stream differ")
	}
}

// header returns an encoded 22-byte file header with no chunks.
func header(channels uint8, framesPerChunk uint16, sampleRate, totalFrames, metadataLen uint32) []byte {
	b := []byte{'s', 'e', 'a', 'c', 1, channels}
	b = append(b, 0, 0) // chunk_size, advisory
	b = append(b, byte(framesPerChunk), byte(framesPerChunk>>8))
	b = append(b, byte(sampleRate), byte(sampleRate>>8), byte(sampleRate>>16), byte(sampleRate>>24))
	b = append(b, byte(totalFrames), byte(totalFrames>>8), byte(totalFrames>>16), byte(totalFrames>>24))
	b = append(b, byte(metadataLen), byte(metadataLen>>8), byte(metadataLen>>16), byte(metadataLen>>24))
	return b
}

func TestProbe(t *testing.T) {
	data := header(2, 1024, 44100, 8820, 0)
	hdr, err := sea.Probe(data)
	if err != nil {
		t.Fatalf("unable to probe stream; %v", err)
	}
	if hdr.SampleRate != 44100 || hdr.Channels != 2 || hdr.TotalFrames != 8820 {
		t.Errorf("header mismatch; expected (44100, 2, 8820), got (%d, %d, %d)", hdr.SampleRate, hdr.Channels, hdr.TotalFrames)
	}

	// The same input has no chunks, so a full decode must report
	// truncation.
	if _, err := sea.DecodeInto(data, make([]int16, 17640)); !errors.Is(err, sea.ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

// mutate returns the decoded golden stream with the byte at off
// replaced by v.
func mutate(t *testing.T, in string, off int, v byte) []byte {
	t.Helper()
	data, err := hex.DecodeString(in)
	if err != nil {
		t.Fatal(err)
	}
	data[off] = v
	return data
}

func TestDecodeErrors(t *testing.T) {
	// Offsets into the "silence" golden vector: the chunk subheader
	// starts at offset 22 (no metadata).
	golden := []struct {
		name string
		off  int
		v    byte
		want error
	}{
		{name: "bad magic", off: 0, v: 'x', want: sea.ErrBadMagic},
		{name: "bad version", off: 4, v: 2, want: sea.ErrUnsupportedVersion},
		{name: "zero channels", off: 5, v: 0, want: sea.ErrInvalidParameters},
		{name: "zero frames per chunk", off: 8, v: 0, want: sea.ErrInvalidParameters},
		{name: "bad chunk type", off: 22, v: 0x02, want: sea.ErrUnsupportedChunkType},
		{name: "zero residual bits", off: 23, v: 0x40, want: sea.ErrInvalidParameters},
		{name: "zero scale factor bits", off: 23, v: 0x03, want: sea.ErrInvalidParameters},
		{name: "oversized residual bits", off: 23, v: 0x4F, want: sea.ErrInvalidParameters},
		{name: "zero scale factor frames", off: 24, v: 0x00, want: sea.ErrInvalidParameters},
		{name: "bad reserved byte", off: 25, v: 0x00, want: sea.ErrBadReservedByte},
	}
	silence := "7365616301010000100044ac000010000000000000000143105a0000000000000000000000000000000000000000000000"
	for _, g := range golden {
		t.Run(g.name, func(t *testing.T) {
			data := mutate(t, silence, g.off, g.v)
			if _, err := sea.Decode(data); !errors.Is(err, g.want) {
				t.Errorf("expected %v, got %v", g.want, err)
			}
		})
	}
}

// Every proper prefix of a valid stream must fail with ErrTruncated;
// no prefix may decode successfully or panic.
func TestDecodeTruncated(t *testing.T) {
	data, err := hex.DecodeString(golden[5].in)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(data); i++ {
		if _, err := sea.Decode(data[:i]); !errors.Is(err, sea.ErrTruncated) {
			t.Fatalf("prefix of %d bytes: expected ErrTruncated, got %v", i, err)
		}
	}
}

// The decoded sample count always equals TotalFrames*Channels.
func TestDecodeSampleCount(t *testing.T) {
	for _, g := range golden {
		data, err := hex.DecodeString(g.in)
		if err != nil {
			t.Fatal(err)
		}
		stream, err := sea.Decode(data)
		if err != nil {
			t.Fatal(err)
		}
		want := int(stream.Header.TotalFrames) * int(stream.Header.Channels)
		if len(stream.Samples) != want {
			t.Errorf("%s: emitted %d samples, want %d", g.name, len(stream.Samples), want)
		}
	}
}
