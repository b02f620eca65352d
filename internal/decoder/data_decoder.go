// Package decoder decodes the index and record areas of a QQWry database.
package decoder

import (
	"bytes"
	"encoding/binary"

	"github.com/qqwry/qqwry-golang/cache"
	"github.com/qqwry/qqwry-golang/charset"
	"github.com/qqwry/qqwry-golang/internal/qqerrors"
)

// DataDecoder reads fixed-width little-endian integers and NUL-terminated
// strings at arbitrary offsets of the database buffer. Every access is
// bounds checked; out of range reads return an InvalidDatabaseError.
type DataDecoder struct {
	buffer  []byte
	charset charset.Decoder
}

// NewDataDecoder creates a [DataDecoder]. A nil charset defaults to GBK.
func NewDataDecoder(buffer []byte, cs charset.Decoder) DataDecoder {
	if cs == nil {
		cs = charset.GBK
	}
	return DataDecoder{buffer: buffer, charset: cs}
}

// Size returns the length of the underlying buffer.
func (d *DataDecoder) Size() uint {
	return uint(len(d.buffer))
}

// Charset returns the text decoder used for strings.
func (d *DataDecoder) Charset() charset.Decoder {
	return d.charset
}

// fits reports whether n bytes starting at pos lie inside the buffer. It is
// written to avoid overflowing pos+n.
func (d *DataDecoder) fits(pos, n uint) bool {
	size := uint(len(d.buffer))
	return pos <= size && size-pos >= n
}

// Byte returns the byte at pos.
func (d *DataDecoder) Byte(pos uint) (byte, error) {
	if !d.fits(pos, 1) {
		return 0, qqerrors.NewOffsetError()
	}
	return d.buffer[pos], nil
}

// Uint32 reads a little-endian 32-bit unsigned integer at pos.
func (d *DataDecoder) Uint32(pos uint) (uint32, error) {
	if !d.fits(pos, 4) {
		return 0, qqerrors.NewOffsetError()
	}
	return binary.LittleEndian.Uint32(d.buffer[pos : pos+4]), nil
}

// Uint24 reads a little-endian 24-bit unsigned integer at pos, zero
// extended to 32 bits. All offsets in the file are stored this way.
func (d *DataDecoder) Uint24(pos uint) (uint32, error) {
	if !d.fits(pos, 3) {
		return 0, qqerrors.NewOffsetError()
	}
	b := d.buffer[pos : pos+3]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}

// RawString returns the bytes from pos up to, but excluding, the next NUL
// and the offset just past the terminator.
func (d *DataDecoder) RawString(pos uint) ([]byte, uint, error) {
	if !d.fits(pos, 1) {
		return nil, 0, qqerrors.NewOffsetError()
	}
	n := bytes.IndexByte(d.buffer[pos:], 0)
	if n < 0 {
		return nil, 0, qqerrors.NewInvalidDatabaseError(
			"string at offset %d is not terminated before the end of the database", pos)
	}
	end := pos + uint(n)
	return d.buffer[pos:end], end + 1, nil
}

// CString decodes the NUL-terminated string at pos into UTF-8 and returns it
// with the offset just past the terminator. c may be nil.
func (d *DataDecoder) CString(pos uint, c cache.Cache) (string, uint, error) {
	raw, next, err := d.RawString(pos)
	if err != nil {
		return "", 0, err
	}
	var s string
	if c != nil {
		s, err = c.InternAt(pos, raw, d.charset)
	} else {
		s, err = d.charset.Decode(raw)
	}
	if err != nil {
		return "", 0, err
	}
	return s, next, nil
}
