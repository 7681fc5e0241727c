// Command kmrdecode decodes a KMR container and writes a PNG rendering.
//
// Usage:
//
//	kmrdecode <in.kmr> [out.png]
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepteams/kmr"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kmrdecode: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("missing input file\nUsage: kmrdecode <in.kmr> [out.png]")
	}
	inputPath := args[0]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	res, err := kmr.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inputPath, err)
	}

	outputPath := ""
	if len(args) > 1 {
		outputPath = args[1]
	} else {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outputPath = base + ".png"
	}

	img := &image.RGBA{
		Pix:    res.RGBA,
		Stride: 4 * res.Width,
		Rect:   image.Rect(0, 0, res.Width, res.Height),
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("encoding PNG: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return err
	}

	fmt.Fprintf(os.Stderr, "Decoded %s → %s (%dx%d, blockSize=%d discardBits=%d smooth=%v)\n",
		inputPath, outputPath, res.Width, res.Height, res.BlockSize, res.DiscardBits, res.Smooth)
	return nil
}
