package qoi

// Encode encodes an RGBA image (w*h*4 bytes, row-major R,G,B,A) into a QOI
// byte stream.
func Encode(pix []byte, w, h int) []byte {
	out := make([]byte, 0, MaxEncodedSize(w, h))
	out = putHeader(out, uint32(w), uint32(h))

	var history [64]pixel
	prev := pixel{0, 0, 0, 255}
	run := 0
	n := w * h

	flushRun := func() {
		if run > 0 {
			out = append(out, byte(opRun|(run-1)))
			run = 0
		}
	}

	for i := 0; i < n; i++ {
		base := i * 4
		cur := pixel{pix[base], pix[base+1], pix[base+2], pix[base+3]}

		if cur == prev {
			run++
			if run == 62 {
				flushRun()
			}
			continue
		}
		flushRun()

		hidx := cur.hash()
		if history[hidx] == cur {
			out = append(out, byte(opIndex|hidx))
		} else {
			history[hidx] = cur
			if cur.a == prev.a {
				vr := int8(cur.r - prev.r)
				vg := int8(cur.g - prev.g)
				vb := int8(cur.b - prev.b)
				if vr >= -2 && vr <= 1 && vg >= -2 && vg <= 1 && vb >= -2 && vb <= 1 {
					out = append(out, byte(opDiff|uint8(vr+2)<<4|uint8(vg+2)<<2|uint8(vb+2)))
				} else {
					drDg := vr - vg
					dbDg := vb - vg
					if vg >= -32 && vg <= 31 && drDg >= -8 && drDg <= 7 && dbDg >= -8 && dbDg <= 7 {
						out = append(out, byte(opLuma|uint8(vg+32)))
						out = append(out, byte(uint8(drDg+8)<<4|uint8(dbDg+8)))
					} else {
						out = append(out, opRGB, cur.r, cur.g, cur.b)
					}
				}
			} else {
				out = append(out, opRGBA, cur.r, cur.g, cur.b, cur.a)
			}
		}
		prev = cur
	}
	flushRun()

	out = append(out, endMarker[:]...)
	return out
}
