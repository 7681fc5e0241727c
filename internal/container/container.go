// Package container implements KMR's fixed 32-byte binary container format:
// a small header of magic, version, and codec parameters, followed by the
// QOI residual section and three Huffman nodal sections in a fixed order.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic is the four ASCII bytes every KMR container begins with.
const Magic = "KMR1"

// Version is the only container version this package writes or accepts.
const Version = 1

// HeaderSize is the fixed size, in bytes, of the container header.
const HeaderSize = 32

// Common errors returned by Parse and ParseHeader.
var (
	ErrBadMagic           = errors.New("container: bad magic")
	ErrUnsupportedVersion = errors.New("container: unsupported version")
	ErrTruncated          = errors.New("container: buffer shorter than header")
	ErrLengthMismatch     = errors.New("container: section lengths do not sum to buffer length")
)

// Header holds the parsed fixed-size fields of a container, before any
// section payload.
type Header struct {
	Version     byte
	BlockSize   int
	DiscardBits int
	Smooth      bool
	Width       int
	Height      int
	QOILen      int
	HuffYLen    int
	HuffCbLen   int
	HuffCrLen   int
}

// Sections holds the four section byte slices of a parsed container. Each
// slice aliases the input buffer passed to Parse; callers that retain a
// Sections value beyond the lifetime of that buffer should copy.
type Sections struct {
	Header
	QOI    []byte
	HuffY  []byte
	HuffCb []byte
	HuffCr []byte
}

// Pack assembles a complete container from a header and the four section
// payloads, in the fixed QOI, Huffman(Y), Huffman(Cb), Huffman(Cr) order.
func Pack(h Header, qoi, huffY, huffCb, huffCr []byte) []byte {
	total := HeaderSize + len(qoi) + len(huffY) + len(huffCb) + len(huffCr)
	buf := make([]byte, 0, total)

	var tmp [4]byte
	buf = append(buf, Magic...)
	buf = append(buf, Version, byte(h.BlockSize), byte(h.DiscardBits), boolByte(h.Smooth))

	binary.BigEndian.PutUint32(tmp[:], uint32(h.Width))
	buf = append(buf, tmp[:]...)
	binary.BigEndian.PutUint32(tmp[:], uint32(h.Height))
	buf = append(buf, tmp[:]...)
	binary.BigEndian.PutUint32(tmp[:], uint32(len(qoi)))
	buf = append(buf, tmp[:]...)
	binary.BigEndian.PutUint32(tmp[:], uint32(len(huffY)))
	buf = append(buf, tmp[:]...)
	binary.BigEndian.PutUint32(tmp[:], uint32(len(huffCb)))
	buf = append(buf, tmp[:]...)
	binary.BigEndian.PutUint32(tmp[:], uint32(len(huffCr)))
	buf = append(buf, tmp[:]...)

	buf = append(buf, qoi...)
	buf = append(buf, huffY...)
	buf = append(buf, huffCb...)
	buf = append(buf, huffCr...)
	return buf
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// ParseHeader decodes only the fixed 32-byte header, without validating or
// slicing section payloads. This lets a caller cheaply inspect dimensions
// and parameters (e.g. to size a destination buffer) before committing to
// a full Parse.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, HeaderSize, len(data))
	}
	if string(data[0:4]) != Magic {
		return Header{}, fmt.Errorf("%w: got %q", ErrBadMagic, data[0:4])
	}
	version := data[4]
	if version != Version {
		return Header{}, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, version, Version)
	}

	h := Header{
		Version:     version,
		BlockSize:   int(data[5]),
		DiscardBits: int(data[6]),
		Smooth:      data[7] != 0,
		Width:       int(binary.BigEndian.Uint32(data[8:12])),
		Height:      int(binary.BigEndian.Uint32(data[12:16])),
		QOILen:      int(binary.BigEndian.Uint32(data[16:20])),
		HuffYLen:    int(binary.BigEndian.Uint32(data[20:24])),
		HuffCbLen:   int(binary.BigEndian.Uint32(data[24:28])),
		HuffCrLen:   int(binary.BigEndian.Uint32(data[28:32])),
	}
	return h, nil
}

// Parse decodes the header and slices out the four section payloads,
// verifying that the declared section lengths sum exactly to the buffer
// length.
func Parse(data []byte) (*Sections, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	want := HeaderSize + h.QOILen + h.HuffYLen + h.HuffCbLen + h.HuffCrLen
	if want != len(data) {
		return nil, fmt.Errorf("%w: header declares %d, buffer has %d", ErrLengthMismatch, want, len(data))
	}

	s := &Sections{Header: h}
	pos := HeaderSize
	s.QOI = data[pos : pos+h.QOILen]
	pos += h.QOILen
	s.HuffY = data[pos : pos+h.HuffYLen]
	pos += h.HuffYLen
	s.HuffCb = data[pos : pos+h.HuffCbLen]
	pos += h.HuffCbLen
	s.HuffCr = data[pos : pos+h.HuffCrLen]
	return s, nil
}
