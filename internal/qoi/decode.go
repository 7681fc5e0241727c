package qoi

import "fmt"

// Decode decodes a QOI byte stream into an RGBA pixel buffer, along with
// the width and height declared in the stream header.
func Decode(data []byte) (pix []byte, w, h int, err error) {
	ww, hh, err := readHeader(data)
	if err != nil {
		return nil, 0, 0, err
	}
	w, h = int(ww), int(hh)
	pix = make([]byte, w*h*4)
	if err := DecodeInto(pix, data, w, h); err != nil {
		return nil, 0, 0, err
	}
	return pix, w, h, nil
}

// DecodeInto decodes a QOI byte stream into a caller-supplied destination
// buffer, which must have length exactly 4*wantW*wantH. This lets a caller
// that already knows the expected dimensions (e.g. from an outer container
// header) source the buffer from a pool instead of allocating fresh.
//
// It is an error for the stream's own header dimensions to disagree with
// wantW/wantH.
func DecodeInto(dst []byte, data []byte, wantW, wantH int) error {
	ww, hh, err := readHeader(data)
	if err != nil {
		return err
	}
	w, h := int(ww), int(hh)
	if w != wantW || h != wantH {
		return fmt.Errorf("%w: stream declares %dx%d, want %dx%d", ErrDimensionMismatch, w, h, wantW, wantH)
	}
	if len(dst) != w*h*4 {
		return fmt.Errorf("%w: destination length %d, want %d", ErrDimensionMismatch, len(dst), w*h*4)
	}
	pix := dst
	n := w * h

	var history [64]pixel
	prev := pixel{0, 0, 0, 255}
	pos := headerSize
	written := 0

	for written < n {
		if pos >= len(data) {
			return fmt.Errorf("%w: at pixel %d of %d", ErrPixelUnderflow, written, n)
		}
		tag := data[pos]
		switch {
		case tag == opRGB:
			if pos+4 > len(data) {
				return fmt.Errorf("%w: truncated QOI_OP_RGB", ErrTruncated)
			}
			cur := pixel{data[pos+1], data[pos+2], data[pos+3], prev.a}
			history[cur.hash()] = cur
			putPixel(pix, written, cur)
			prev = cur
			pos += 4
			written++

		case tag == opRGBA:
			if pos+5 > len(data) {
				return fmt.Errorf("%w: truncated QOI_OP_RGBA", ErrTruncated)
			}
			cur := pixel{data[pos+1], data[pos+2], data[pos+3], data[pos+4]}
			history[cur.hash()] = cur
			putPixel(pix, written, cur)
			prev = cur
			pos += 5
			written++

		case tag>>6 == 0:
			cur := history[tag&0x3F]
			putPixel(pix, written, cur)
			prev = cur
			pos++
			written++

		case tag>>6 == 1:
			vr := int((tag>>4)&0x03) - 2
			vg := int((tag>>2)&0x03) - 2
			vb := int(tag&0x03) - 2
			cur := pixel{
				r: prev.r + byte(vr),
				g: prev.g + byte(vg),
				b: prev.b + byte(vb),
				a: prev.a,
			}
			history[cur.hash()] = cur
			putPixel(pix, written, cur)
			prev = cur
			pos++
			written++

		case tag>>6 == 2:
			if pos+2 > len(data) {
				return fmt.Errorf("%w: truncated QOI_OP_LUMA", ErrTruncated)
			}
			vg := int(tag&0x3F) - 32
			rb := data[pos+1]
			drDg := int((rb>>4)&0x0F) - 8
			dbDg := int(rb&0x0F) - 8
			cur := pixel{
				r: prev.r + byte(vg+drDg),
				g: prev.g + byte(vg),
				b: prev.b + byte(vg+dbDg),
				a: prev.a,
			}
			history[cur.hash()] = cur
			putPixel(pix, written, cur)
			prev = cur
			pos += 2
			written++

		default: // tag>>6 == 3: QOI_OP_RUN
			run := int(tag&0x3F) + 1
			for i := 0; i < run && written < n; i++ {
				putPixel(pix, written, prev)
				written++
			}
			pos++
		}
	}

	return nil
}

func putPixel(pix []byte, i int, p pixel) {
	base := i * 4
	pix[base], pix[base+1], pix[base+2], pix[base+3] = p.r, p.g, p.b, p.a
}
