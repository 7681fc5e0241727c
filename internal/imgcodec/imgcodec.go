//go:build imgcodec

// Package imgcodec is an optional comparison harness that PNG-encodes a
// decoded KMR buffer via the standard library, mirroring the teacher's
// benchmark package's pattern of invoking a sibling codec over the same
// raster and comparing output sizes. It exists so the encode/decode
// boundary named in the purpose statement's "cross-format benchmark"
// external collaborator has a minimal in-tree consumer, without pulling in
// any cgo-backed platform codec.
//
// Build with -tags imgcodec; it is not part of the default build.
package imgcodec

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// ToImage wraps a row-major RGBA pixel buffer as a standard library
// image.Image, without copying.
func ToImage(pix []byte, w, h int) (*image.RGBA, error) {
	if len(pix) != 4*w*h {
		return nil, fmt.Errorf("imgcodec: buffer length %d, want %d", len(pix), 4*w*h)
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}

// EncodePNG renders a decoded RGBA buffer as a PNG, for size comparison
// against the equivalent KMR container.
func EncodePNG(pix []byte, w, h int) ([]byte, error) {
	img, err := ToImage(pix, w, h)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imgcodec: png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// CompareSizes reports the ratio of a KMR container's size to the size of
// the equivalent PNG rendering of the same decoded pixels.
func CompareSizes(kmrLen int, pix []byte, w, h int) (ratio float64, err error) {
	png, err := EncodePNG(pix, w, h)
	if err != nil {
		return 0, err
	}
	if len(png) == 0 {
		return 0, fmt.Errorf("imgcodec: empty PNG encoding")
	}
	return float64(kmrLen) / float64(len(png)), nil
}
