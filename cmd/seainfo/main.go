// seainfo lists stream information of SEA files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/chanderlud/sea"
)

func init() {
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: seainfo FILE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	for _, path := range flag.Args() {
		if err := seainfo(path); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

// seainfo lists the stream header of the provided SEA file.
func seainfo(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}
	hdr, err := sea.Probe(data)
	if err != nil {
		return err
	}
	fmt.Printf("%s:\n", path)
	fmt.Printf("  channels: %d\n", hdr.Channels)
	fmt.Printf("  sample rate: %d Hz\n", hdr.SampleRate)
	fmt.Printf("  frames per chunk: %d\n", hdr.FramesPerChunk)
	fmt.Printf("  total frames: %d\n", hdr.TotalFrames)
	fmt.Printf("  chunk size (advisory): %d bytes\n", hdr.ChunkSize)
	fmt.Printf("  metadata length: %d bytes\n", hdr.MetadataLen)
	if hdr.SampleRate > 0 {
		fmt.Printf("  duration: %.3f s\n", float64(hdr.TotalFrames)/float64(hdr.SampleRate))
	}
	return nil
}
