package kmr

import (
	"errors"
	"fmt"

	"github.com/deepteams/kmr/internal/container"
	"github.com/deepteams/kmr/internal/huffman"
	"github.com/deepteams/kmr/internal/nodal"
	"github.com/deepteams/kmr/internal/paeth"
	"github.com/deepteams/kmr/internal/pool"
	"github.com/deepteams/kmr/internal/qoi"
)

// Errors returned at the Encode/Decode boundary, grouped into a format
// class and a dimension class. Internal package errors (container, qoi,
// huffman) are wrapped with %w so errors.Is against either the specific
// internal sentinel or these re-exported umbrella sentinels both succeed.
var (
	// ErrFormat wraps any structural decode failure: bad magic, unsupported
	// version, truncated or inconsistent section lengths, bad QOI magic or
	// channel count, or an unreachable Huffman code.
	ErrFormat = errors.New("kmr: invalid container format")

	// ErrDimension is returned when an input buffer's length does not match
	// its declared width and height, or when a decoded QOI section's
	// dimensions disagree with the container header's.
	ErrDimension = errors.New("kmr: dimension mismatch")
)

// EncodeParameters controls nodal block extraction and preview
// reconstruction. Out-of-range fields are clamped, not rejected.
type EncodeParameters struct {
	BlockSize   int  // clamped to [2, 255]
	DiscardBits int  // clamped to [0, 6]
	Smooth      bool // bilinear vs. flat preview reconstruction
}

// DecodeResult is the full return value of Decode: the reconstructed RGBA
// buffer plus every piece of metadata a host might want without
// re-parsing the container itself.
type DecodeResult struct {
	RGBA        []byte
	Width       int
	Height      int
	BlockSize   int
	DiscardBits int
	Smooth      bool
	QOILen      int
	NodalLen    int // combined length of the three Huffman sections
	TotalLen    int
}

// Encode runs the full encode pipeline: extract the nodal
// grid and reconstruct a preview, Paeth-residual the preview, entropy-code
// the residual with QOI and the three nodal channels with the Huffman
// codec, and pack everything into a container.
//
// rgba must have length 4*w*h; w and h must be strictly positive.
func Encode(rgba []byte, w, h int, params EncodeParameters) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: width=%d height=%d must be positive", ErrDimension, w, h)
	}
	if len(rgba) != 4*w*h {
		return nil, fmt.Errorf("%w: rgba length %d, want %d", ErrDimension, len(rgba), 4*w*h)
	}

	blockSize := nodal.EffectiveBlockSize(params.BlockSize)
	discardBits := nodal.EffectiveDiscardBits(params.DiscardBits)

	grid := nodal.Extract(rgba, w, h, blockSize, discardBits)

	var preview []byte
	if discardBits == 0 {
		// A zero-discard grid still carries only one averaged sample per
		// tile; recovering pixel-exact detail requires the original image.
		preview = rgba
	} else {
		// The preview is pure scratch: the Paeth predictor consumes it
		// immediately below and it is never part of the returned bytes, so
		// it is sourced from the pool rather than a fresh allocation.
		preview = pool.Get(4 * w * h)
		defer pool.Put(preview)
		nodal.ReconstructInto(preview, grid, w, h, blockSize, params.Smooth)
	}

	residual := paeth.Residual(preview, w, h)
	qoiBytes := qoi.Encode(residual, w, h)

	huffY, huffCb, huffCr := encodeNodalStreams(grid)

	hdr := container.Header{
		BlockSize:   blockSize,
		DiscardBits: discardBits,
		Smooth:      params.Smooth,
		Width:       w,
		Height:      h,
	}
	return container.Pack(hdr, qoiBytes, huffY, huffCb, huffCr), nil
}

// encodeNodalStreams Huffman-encodes the three nodal channels. Each channel
// is independent, so the three encodes run concurrently; the result
// order is fixed regardless of goroutine completion order.
func encodeNodalStreams(grid *nodal.Grid) (huffY, huffCb, huffCr []byte) {
	type result struct {
		idx int
		out []byte
	}
	in := [3][]byte{grid.Y, grid.Cb, grid.Cr}
	out := make(chan result, 3)
	for i, seq := range in {
		go func(i int, seq []byte) {
			out <- result{i, huffman.Encode(seq)}
		}(i, seq)
	}
	var encoded [3][]byte
	for range in {
		r := <-out
		encoded[r.idx] = r.out
	}
	return encoded[0], encoded[1], encoded[2]
}

// Decode inverts Encode: parse the container, Huffman-decode the
// three nodal channels, QOI-decode the residual image, then invert the
// Paeth predictor to recover the pixel buffer. The nodal channels are
// decoded and validated but the output pixels are derived purely from the
// residual image.
func Decode(data []byte) (DecodeResult, error) {
	sections, err := container.Parse(data)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	w, h := sections.Width, sections.Height
	if w <= 0 || h <= 0 {
		return DecodeResult{}, fmt.Errorf("%w: header declares width=%d height=%d", ErrDimension, w, h)
	}
	// A malformed or adversarial header could declare a blockSize outside
	// [2,255] (a legitimate encoder never does, since Encode clamps before
	// writing); re-clamp here so grid-size arithmetic below can't divide by
	// zero.
	blockSize := nodal.EffectiveBlockSize(sections.BlockSize)
	gw, gh := nodal.GridDims(w, h, blockSize)
	expectedLen := gw * gh

	if _, err := huffman.Decode(sections.HuffY, expectedLen); err != nil {
		return DecodeResult{}, fmt.Errorf("%w: nodal Y: %w", ErrFormat, err)
	}
	if _, err := huffman.Decode(sections.HuffCb, expectedLen); err != nil {
		return DecodeResult{}, fmt.Errorf("%w: nodal Cb: %w", ErrFormat, err)
	}
	if _, err := huffman.Decode(sections.HuffCr, expectedLen); err != nil {
		return DecodeResult{}, fmt.Errorf("%w: nodal Cr: %w", ErrFormat, err)
	}

	// The residual buffer is scratch: paeth.Inverse below consumes it
	// in full and it is discarded immediately afterward, so it is sourced
	// from the pool rather than a fresh allocation.
	residual := pool.Get(4 * w * h)
	defer pool.Put(residual)
	if err := qoi.DecodeInto(residual, sections.QOI, w, h); err != nil {
		if errors.Is(err, qoi.ErrDimensionMismatch) {
			return DecodeResult{}, fmt.Errorf("%w: %w", ErrDimension, err)
		}
		return DecodeResult{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	rgba := paeth.Inverse(residual, w, h)

	return DecodeResult{
		RGBA:        rgba,
		Width:       w,
		Height:      h,
		BlockSize:   sections.BlockSize,
		DiscardBits: sections.DiscardBits,
		Smooth:      sections.Smooth,
		QOILen:      len(sections.QOI),
		NodalLen:    len(sections.HuffY) + len(sections.HuffCb) + len(sections.HuffCr),
		TotalLen:    len(data),
	}, nil
}
