package kmr

import (
	"bytes"
	"testing"
)

// FuzzDecode feeds arbitrary byte slices to Decode, which must never panic
// regardless of how malformed the input is.
func FuzzDecode(f *testing.F) {
	seed, err := Encode(solidImage(2, 2, 10, 20, 30, 255), 2, 2, EncodeParameters{BlockSize: 2, DiscardBits: 0, Smooth: true})
	if err == nil {
		f.Add(seed)
	}
	f.Add([]byte("KMR1"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = Decode(data)
	})
}

// FuzzEncodeDecode round-trips small synthesized images through Encode and
// Decode, checking the discardBits=0 exact round-trip invariant.
func FuzzEncodeDecode(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4}, 1, 1, uint8(2), false)
	f.Add([]byte{0, 0, 0, 255, 255, 255, 255, 255}, 2, 1, uint8(4), true)

	f.Fuzz(func(t *testing.T, pix []byte, w, h int, blockSize uint8, smooth bool) {
		if w <= 0 || h <= 0 || w > 64 || h > 64 {
			t.Skip()
		}
		if len(pix) != 4*w*h {
			t.Skip()
		}
		enc, err := Encode(pix, w, h, EncodeParameters{BlockSize: int(blockSize), DiscardBits: 0, Smooth: smooth})
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		res, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(res.RGBA, pix) {
			t.Fatalf("discardBits=0 round-trip mismatch")
		}
	})
}
