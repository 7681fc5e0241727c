// Package nodal implements the RGB<->YCrCb color transform and the block
// averaging / reconstruction that produces KMR's coarse "nodal" skeleton.
//
// This is a pure Go port of the classic JFIF-style YCrCb matrix, adapted
// from the fixed-coefficient ConversionMatrix pattern used for RGB<->YUV
// conversion in color-space transform code, but kept in floating point per
// the rounding rules the container format depends on bit-for-bit.
package nodal

import "math"

// Grid holds one nodal skeleton: three equal-length byte sequences (Y, Cb,
// Cr), each Gw*Gh long, row-major with gx fastest.
type Grid struct {
	Gw, Gh int
	Y      []byte
	Cb     []byte
	Cr     []byte
}

// Params controls block extraction and preview reconstruction.
type Params struct {
	BlockSize   int // effective block size, clamp(raw, 2, 255)
	DiscardBits int // clamp(raw, 0, 6)
	Smooth      bool
}

// EffectiveBlockSize clamps a raw blockSize parameter into [2, 255].
func EffectiveBlockSize(raw int) int {
	if raw < 2 {
		return 2
	}
	if raw > 255 {
		return 255
	}
	return raw
}

// EffectiveDiscardBits clamps a raw discardBits parameter into [0, 6].
func EffectiveDiscardBits(raw int) int {
	if raw < 0 {
		return 0
	}
	if raw > 6 {
		return 6
	}
	return raw
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// GridDims returns the Gw, Gh dimensions for an image of size w×h under the
// given effective block size.
func GridDims(w, h, blockSize int) (gw, gh int) {
	return ceilDiv(w, blockSize), ceilDiv(h, blockSize)
}

// rgbToYCbCr converts one RGB triple to floating point Y, Cb, Cr using the
// standard JFIF coefficients.
func rgbToYCbCr(r, g, b float64) (y, cb, cr float64) {
	y = 0.299*r + 0.587*g + 0.114*b
	cb = -0.1687*r - 0.3313*g + 0.5*b + 128
	cr = 0.5*r - 0.4187*g - 0.0813*b + 128
	return
}

// yCbCrToRGB converts one Y, Cb, Cr triple back to RGB, unclamped.
func yCbCrToRGB(y, cb, cr float64) (r, g, b float64) {
	r = y + 1.402*(cr-128)
	g = y - 0.34414*(cb-128) - 0.71414*(cr-128)
	b = y + 1.772*(cb-128)
	return
}

func clampByte(v float64) byte {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return byte(r)
}

func quantize(v byte, discardBits int) byte {
	if discardBits == 0 {
		return v
	}
	return (v >> uint(discardBits)) << uint(discardBits)
}

// Extract partitions the RGBA image pix (w×h) into blockSize×blockSize
// tiles (edge tiles truncated to image bounds) and computes the mean
// YCbCr of each, quantized by discardBits.
func Extract(pix []byte, w, h, blockSize, discardBits int) *Grid {
	gw, gh := GridDims(w, h, blockSize)
	g := &Grid{
		Gw: gw,
		Gh: gh,
		Y:  make([]byte, gw*gh),
		Cb: make([]byte, gw*gh),
		Cr: make([]byte, gw*gh),
	}

	for gy := 0; gy < gh; gy++ {
		y0 := gy * blockSize
		y1 := y0 + blockSize
		if y1 > h {
			y1 = h
		}
		for gx := 0; gx < gw; gx++ {
			x0 := gx * blockSize
			x1 := x0 + blockSize
			if x1 > w {
				x1 = w
			}

			var sumY, sumCb, sumCr float64
			count := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					base := (y*w + x) * 4
					yy, cb, cr := rgbToYCbCr(float64(pix[base]), float64(pix[base+1]), float64(pix[base+2]))
					sumY += yy
					sumCb += cb
					sumCr += cr
					count++
				}
			}

			idx := gy*gw + gx
			if count == 0 {
				// Pathological: blockSize exceeds the image bounds for this
				// tile. Treat as a zero-valued node.
				g.Y[idx], g.Cb[idx], g.Cr[idx] = 0, 0, 0
				continue
			}
			meanY := clampByte(sumY / float64(count))
			meanCb := clampByte(sumCb / float64(count))
			meanCr := clampByte(sumCr / float64(count))
			g.Y[idx] = quantize(meanY, discardBits)
			g.Cb[idx] = quantize(meanCb, discardBits)
			g.Cr[idx] = quantize(meanCr, discardBits)
		}
	}
	return g
}

// Reconstruct rebuilds a full-resolution w×h RGBA preview from grid under
// params. Reconstruct only recovers the per-tile average, never the
// original per-pixel detail within a tile — callers must bypass
// Reconstruct entirely when discardBits is 0 and use the original pixels
// as the preview instead, since a zero-discard grid still only carries
// one averaged sample per tile.
func Reconstruct(grid *Grid, w, h, blockSize int, smooth bool) []byte {
	out := make([]byte, w*h*4)
	ReconstructInto(out, grid, w, h, blockSize, smooth)
	return out
}

// ReconstructInto is Reconstruct with a caller-supplied destination buffer
// (length must be w*h*4), letting callers that only need the preview as a
// scratch input to the Paeth predictor avoid an extra allocation by sourcing
// dst from a pool.
func ReconstructInto(dst []byte, grid *Grid, w, h, blockSize int, smooth bool) {
	if !smooth {
		reconstructFlat(grid, dst, w, h, blockSize)
	} else {
		reconstructBilinear(grid, dst, w, h, blockSize)
	}
}

func reconstructFlat(grid *Grid, out []byte, w, h, blockSize int) {
	for gy := 0; gy < grid.Gh; gy++ {
		y0 := gy * blockSize
		y1 := y0 + blockSize
		if y1 > h {
			y1 = h
		}
		for gx := 0; gx < grid.Gw; gx++ {
			x0 := gx * blockSize
			x1 := x0 + blockSize
			if x1 > w {
				x1 = w
			}
			idx := gy*grid.Gw + gx
			r, g, b := yCbCrToRGB(float64(grid.Y[idx]), float64(grid.Cb[idx]), float64(grid.Cr[idx]))
			rb, gb, bb := clampByte(r), clampByte(g), clampByte(b)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					base := (y*w + x) * 4
					out[base] = rb
					out[base+1] = gb
					out[base+2] = bb
					out[base+3] = 255
				}
			}
		}
	}
}

func reconstructBilinear(grid *Grid, out []byte, w, h, blockSize int) {
	gw, gh := grid.Gw, grid.Gh
	for y := 0; y < h; y++ {
		gy := y / blockSize
		gy1 := gy + 1
		if gy1 >= gh {
			gy1 = gh - 1
		}
		y0 := gy * blockSize
		y1 := (gy + 1) * blockSize
		if y1 > h-1 {
			y1 = h - 1
		}
		var ty float64
		if y1 != y0 {
			ty = float64(y-y0) / float64(y1-y0)
		}

		for x := 0; x < w; x++ {
			gx := x / blockSize
			gx1 := gx + 1
			if gx1 >= gw {
				gx1 = gw - 1
			}
			x0 := gx * blockSize
			x1 := (gx + 1) * blockSize
			if x1 > w-1 {
				x1 = w - 1
			}
			var tx float64
			if x1 != x0 {
				tx = float64(x-x0) / float64(x1-x0)
			}

			i00 := gy*gw + gx
			i10 := gy*gw + gx1
			i01 := gy1*gw + gx
			i11 := gy1*gw + gx1

			yy := bilerp(float64(grid.Y[i00]), float64(grid.Y[i10]), float64(grid.Y[i01]), float64(grid.Y[i11]), tx, ty)
			cb := bilerp(float64(grid.Cb[i00]), float64(grid.Cb[i10]), float64(grid.Cb[i01]), float64(grid.Cb[i11]), tx, ty)
			cr := bilerp(float64(grid.Cr[i00]), float64(grid.Cr[i10]), float64(grid.Cr[i01]), float64(grid.Cr[i11]), tx, ty)

			r, g, b := yCbCrToRGB(yy, cb, cr)
			base := (y*w + x) * 4
			out[base] = clampByte(r)
			out[base+1] = clampByte(g)
			out[base+2] = clampByte(b)
			out[base+3] = 255
		}
	}
}

// bilerp bilinearly interpolates the four corner values v00 (x0,y0), v10
// (x1,y0), v01 (x0,y1), v11 (x1,y1) at fractional offsets tx, ty.
func bilerp(v00, v10, v01, v11, tx, ty float64) float64 {
	top := v00 + (v10-v00)*tx
	bot := v01 + (v11-v01)*tx
	return top + (bot-top)*ty
}
