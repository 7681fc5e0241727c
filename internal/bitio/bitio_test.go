package bitio

import "testing"

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(16)
	w.WriteBits(0b101, 3)
	w.WriteBits(0b11110000, 8)
	w.WriteBits(0b1, 1)
	w.WriteByte(0xAB)
	data := w.Finish()

	r := NewReader(data)
	if v, err := r.ReadBits(3); err != nil || v != 0b101 {
		t.Fatalf("ReadBits(3) = %v, %v; want 0b101, nil", v, err)
	}
	if v, err := r.ReadBits(8); err != nil || v != 0b11110000 {
		t.Fatalf("ReadBits(8) = %v, %v; want 0b11110000, nil", v, err)
	}
	if v, err := r.ReadBit(); err != nil || v != 1 {
		t.Fatalf("ReadBit() = %v, %v; want 1, nil", v, err)
	}
	if v, err := r.ReadByte(); err != nil || v != 0xAB {
		t.Fatalf("ReadByte() = %v, %v; want 0xAB, nil", v, err)
	}
}

func TestWriterZeroPadsFinalByte(t *testing.T) {
	w := NewWriter(8)
	w.WriteBits(0b101, 3)
	data := w.Finish()
	if len(data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(data))
	}
	if data[0] != 0b10100000 {
		t.Fatalf("data[0] = %08b, want 10100000", data[0])
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader(nil)
	if _, err := r.ReadBit(); err != ErrTruncated {
		t.Fatalf("ReadBit() err = %v, want ErrTruncated", err)
	}
}

func TestEmptyWriter(t *testing.T) {
	w := NewWriter(0)
	data := w.Finish()
	if len(data) != 0 {
		t.Fatalf("len(data) = %d, want 0", len(data))
	}
}
