// Package paeth implements the Paeth predictor used to turn a reconstructed
// preview image into a per-pixel residual image, and its inverse.
package paeth

// predict returns the Paeth-predicted value for a pixel given its left (a),
// up (b), and up-left (c) neighbors. Ties are broken in the documented
// priority order: a, then b, then c.
func predict(a, b, c int) int {
	p := a + b - c
	pa := abs(p - a)
	pb := abs(p - b)
	pc := abs(p - c)
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// neighbor returns the value of channel ch (0=R, 1=G, 2=B) at (x, y) from a
// row-major RGBA buffer, or 0 if the pixel is outside the image bounds.
func neighbor(pix []byte, w, h, x, y, ch int) int {
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0
	}
	return int(pix[(y*w+x)*4+ch])
}

// Residual computes the per-channel residual image from src, a
// reconstructed-preview RGBA buffer of dimensions w×h. Alpha is passed
// through unchanged. The returned buffer is freshly allocated.
func Residual(src []byte, w, h int) []byte {
	out := make([]byte, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := (y*w + x) * 4
			for ch := 0; ch < 3; ch++ {
				a := neighbor(src, w, h, x-1, y, ch)
				b := neighbor(src, w, h, x, y-1, ch)
				c := neighbor(src, w, h, x-1, y-1, ch)
				pred := predict(a, b, c)
				out[base+ch] = byte(int(src[base+ch]) - pred)
			}
			out[base+3] = src[base+3]
		}
	}
	return out
}

// Inverse reconstructs the original pixels from a residual image produced by
// Residual. Decoding proceeds row-major (left-to-right, top-to-bottom) so
// that predict can reference already-decoded neighbors, matching the
// encoder's causal order exactly.
func Inverse(residual []byte, w, h int) []byte {
	out := make([]byte, len(residual))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := (y*w + x) * 4
			for ch := 0; ch < 3; ch++ {
				a := neighbor(out, w, h, x-1, y, ch)
				b := neighbor(out, w, h, x, y-1, ch)
				c := neighbor(out, w, h, x-1, y-1, ch)
				pred := predict(a, b, c)
				out[base+ch] = byte(pred + int(residual[base+ch]))
			}
			out[base+3] = residual[base+3]
		}
	}
	return out
}
