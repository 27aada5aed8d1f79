// sea2wav is a tool which converts SEA files to WAV files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"

	"github.com/chanderlud/sea"
)

// flagForce specifies if file overwriting should be forced, when a WAV
// file of the same name already exists.
var flagForce bool

func init() {
	flag.BoolVar(&flagForce, "f", false, "force overwrite")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: sea2wav [OPTION]... INPUT.sea [OUTPUT.wav]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(1)
	}
	seaPath := flag.Arg(0)
	wavPath := pathutil.TrimExt(seaPath) + ".wav"
	if flag.NArg() == 2 {
		wavPath = flag.Arg(1)
	}
	if err := sea2wav(seaPath, wavPath, flagForce); err != nil {
		log.Fatalf("%+v", err)
	}
}

// sea2wav converts the provided SEA file to a WAV file.
func sea2wav(seaPath, wavPath string, force bool) error {
	// Decode SEA file.
	stream, err := sea.Open(seaPath)
	if err != nil {
		return err
	}

	// Create WAV file.
	if !force && osutil.Exists(wavPath) {
		return errors.Errorf("WAV file %q already present; use -f flag to force overwrite", wavPath)
	}
	w, err := os.Create(wavPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()

	// Encode WAV audio samples: PCM format 1, 16 bits per sample.
	hdr := stream.Header
	enc := wav.NewEncoder(w, int(hdr.SampleRate), 16, int(hdr.Channels), 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: int(hdr.Channels),
			SampleRate:  int(hdr.SampleRate),
		},
		Data:           make([]int, len(stream.Samples)),
		SourceBitDepth: 16,
	}
	for i, sample := range stream.Samples {
		buf.Data[i] = int(sample)
	}
	if err := enc.Write(buf); err != nil {
		return errors.WithStack(err)
	}
	if err := enc.Close(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
