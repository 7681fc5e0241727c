package nodal

import "testing"

func TestGridDims(t *testing.T) {
	cases := []struct {
		w, h, b    int
		gw, gh int
	}{
		{4, 4, 2, 2, 2},
		{5, 4, 2, 3, 2},
		{2, 2, 2, 1, 1},
		{10, 7, 3, 4, 3},
	}
	for _, c := range cases {
		gw, gh := GridDims(c.w, c.h, c.b)
		if gw != c.gw || gh != c.gh {
			t.Errorf("GridDims(%d,%d,%d) = (%d,%d), want (%d,%d)", c.w, c.h, c.b, gw, gh, c.gw, c.gh)
		}
	}
}

func TestEffectiveClamp(t *testing.T) {
	if got := EffectiveBlockSize(1); got != 2 {
		t.Errorf("EffectiveBlockSize(1) = %d, want 2", got)
	}
	if got := EffectiveBlockSize(300); got != 255 {
		t.Errorf("EffectiveBlockSize(300) = %d, want 255", got)
	}
	if got := EffectiveDiscardBits(-1); got != 0 {
		t.Errorf("EffectiveDiscardBits(-1) = %d, want 0", got)
	}
	if got := EffectiveDiscardBits(10); got != 6 {
		t.Errorf("EffectiveDiscardBits(10) = %d, want 6", got)
	}
}

func checkerboard(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := (y*w + x) * 4
			var v byte
			if (x+y)%2 == 1 {
				v = 255
			}
			pix[base], pix[base+1], pix[base+2], pix[base+3] = v, v, v, 255
		}
	}
	return pix
}

func TestExtractS3Checkerboard(t *testing.T) {
	// S3: 4x4 checkerboard alternating black/white per pixel, b=2, so every
	// 2x2 tile holds two black and two white pixels and Y averages 127.5.
	pix := checkerboard(4, 4)
	g := Extract(pix, 4, 4, 2, 2)
	if g.Gw != 2 || g.Gh != 2 {
		t.Fatalf("grid dims = %d,%d want 2,2", g.Gw, g.Gh)
	}
	for i, y := range g.Y {
		if y != 128 {
			t.Errorf("Y[%d] = %d, want 128", i, y)
		}
	}
}

func TestReconstructFlatUniform(t *testing.T) {
	pix := checkerboard(4, 4)
	g := Extract(pix, 4, 4, 2, 2)
	preview := Reconstruct(g, 4, 4, 2, false)
	for i := 0; i < 16; i++ {
		base := i * 4
		if preview[base] != 128 || preview[base+1] != 128 || preview[base+2] != 128 {
			t.Fatalf("pixel %d = %v, want gray 128", i, preview[base:base+3])
		}
	}
}

func TestRGBYCbCrRoundTrip(t *testing.T) {
	// No quantization (discardBits=0): a single-tile grid covering the
	// whole image should reconstruct very close to the mean color.
	pix := []byte{10, 20, 30, 255, 10, 20, 30, 255, 10, 20, 30, 255, 10, 20, 30, 255}
	g := Extract(pix, 2, 2, 2, 0)
	if len(g.Y) != 1 {
		t.Fatalf("expected single node, got %d", len(g.Y))
	}
	preview := Reconstruct(g, 2, 2, 2, false)
	for i := 0; i < 4; i++ {
		base := i * 4
		if diff(preview[base], 10) > 1 || diff(preview[base+1], 20) > 1 || diff(preview[base+2], 30) > 1 {
			t.Fatalf("pixel %d = %v, want ~ (10,20,30)", i, preview[base:base+3])
		}
	}
}

func diff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
