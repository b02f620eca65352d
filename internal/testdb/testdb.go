// Package testdb assembles small QQWry databases for tests.
//
// It is not a general purpose writer: it appends raw structures in the
// order they are requested and lays the index table out at the end of the
// file, which is where published databases keep it too.
package testdb

import (
	"encoding/binary"
	"sort"

	"golang.org/x/text/encoding/simplifiedchinese"
)

const headerSize = 8

// Builder accumulates record bodies and index entries.
type Builder struct {
	buf     []byte
	entries []entry
	header  *[2]uint32
}

type entry struct {
	start  uint32
	offset uint32
}

// New returns a Builder with space reserved for the header.
func New() *Builder {
	return &Builder{buf: make([]byte, headerSize)}
}

// Offset returns the position the next write lands on.
func (b *Builder) Offset() uint32 {
	return uint32(len(b.buf))
}

// Byte appends raw bytes and returns their offset.
func (b *Builder) Byte(p ...byte) uint32 {
	off := b.Offset()
	b.buf = append(b.buf, p...)
	return off
}

// Uint32 appends a little-endian 32-bit value and returns its offset.
func (b *Builder) Uint32(v uint32) uint32 {
	off := b.Offset()
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
	return off
}

// Uint24 appends a little-endian 24-bit value and returns its offset.
func (b *Builder) Uint24(v uint32) uint32 {
	return b.Byte(byte(v), byte(v>>8), byte(v>>16))
}

// Pointer appends a flag byte followed by a 24-bit offset.
func (b *Builder) Pointer(flag byte, target uint32) uint32 {
	off := b.Byte(flag)
	b.Uint24(target)
	return off
}

// String appends s encoded as GBK with a NUL terminator.
func (b *Builder) String(s string) uint32 {
	raw, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	off := b.Byte(raw...)
	b.Byte(0)
	return off
}

// Area appends an area field holding s, or the empty flag when s is "".
func (b *Builder) Area(s string) uint32 {
	if s == "" {
		return b.Byte(0x00)
	}
	return b.String(s)
}

// InlineRecord appends a record whose country and area are stored in place.
func (b *Builder) InlineRecord(end uint32, location, info string) uint32 {
	off := b.Uint32(end)
	b.String(location)
	b.Area(info)
	return off
}

// Range adds an index entry starting at start and pointing at the record
// written at offset.
func (b *Builder) Range(start, offset uint32) *Builder {
	b.entries = append(b.entries, entry{start: start, offset: offset})
	return b
}

// InlineRange is a shortcut for an inline record plus its index entry.
func (b *Builder) InlineRange(start, end uint32, location, info string) *Builder {
	return b.Range(start, b.InlineRecord(end, location, info))
}

// SetHeader overrides the index bounds written by Bytes.
func (b *Builder) SetHeader(start, end uint32) *Builder {
	b.header = &[2]uint32{start, end}
	return b
}

// Bytes appends the sorted index table and returns the finished database.
// Without entries the header describes an empty table whose end precedes
// its start.
func (b *Builder) Bytes() []byte {
	entries := append([]entry(nil), b.entries...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].start < entries[j].start })

	out := append([]byte(nil), b.buf...)
	indexStart := uint32(len(out))
	for _, e := range entries {
		out = binary.LittleEndian.AppendUint32(out, e.start)
		out = append(out, byte(e.offset), byte(e.offset>>8), byte(e.offset>>16))
	}
	indexEnd := indexStart + uint32(len(entries)*7) - 7
	if len(entries) == 0 {
		indexEnd = indexStart - 1
	}
	if b.header != nil {
		indexStart, indexEnd = b.header[0], b.header[1]
	}
	binary.LittleEndian.PutUint32(out[0:4], indexStart)
	binary.LittleEndian.PutUint32(out[4:8], indexEnd)
	return out
}

// IPv4 packs four octets into the integer form used by the index.
func IPv4(a, b, c, d byte) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d)
}
