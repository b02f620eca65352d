package decoder

import "github.com/qqwry/qqwry-golang/internal/qqerrors"

// IndexRecordSize is the stride of the index table: a 4-byte start address
// followed by a 3-byte record offset.
const IndexRecordSize = 7

// IndexEntry is one decoded index record together with the end address
// stored at its record offset.
type IndexEntry struct {
	Start  uint32
	End    uint32
	Offset uint
}

// Index performs lookups over the fixed stride index table delimited by the
// two header offsets.
type Index struct {
	d     DataDecoder
	start uint
	count uint
}

// NewIndex creates an [Index] over the table spanning [start, end]. A table
// whose end precedes its start holds no records.
func NewIndex(d DataDecoder, start, end uint) Index {
	var count uint
	if end >= start {
		count = (end-start)/IndexRecordSize + 1
	}
	return Index{d: d, start: start, count: count}
}

// Len returns the number of records in the table.
func (ix Index) Len() uint {
	return ix.count
}

// Entry decodes record i of the table.
func (ix Index) Entry(i uint) (IndexEntry, error) {
	if i >= ix.count {
		return IndexEntry{}, qqerrors.NewInvalidDatabaseError("index record %d out of range", i)
	}
	pos := ix.start + i*IndexRecordSize
	start, err := ix.d.Uint32(pos)
	if err != nil {
		return IndexEntry{}, qqerrors.WrapWithContext(err, pos, "start_ip")
	}
	offset, err := ix.d.Uint24(pos + 4)
	if err != nil {
		return IndexEntry{}, qqerrors.WrapWithContext(err, pos+4, "record_offset")
	}
	// The first four bytes of every record hold the end of its range.
	end, err := ix.d.Uint32(uint(offset))
	if err != nil {
		return IndexEntry{}, qqerrors.WrapWithContext(err, uint(offset), "end_ip")
	}
	return IndexEntry{Start: start, End: end, Offset: uint(offset)}, nil
}

// Search returns the record offset of the range containing ip, or 0 if no
// range contains it. It is the offset-only form of Find for callers that
// do not need the range bounds; Reader uses Find to report them.
func (ix Index) Search(ip uint32) (uint, error) {
	entry, ok, err := ix.Find(ip)
	if err != nil || !ok {
		return 0, err
	}
	return entry.Offset, nil
}

// Find performs a binary search by start address, checking the candidate's
// end address to confirm containment.
func (ix Index) Find(ip uint32) (IndexEntry, bool, error) {
	if ix.count == 0 {
		return IndexEntry{}, false, nil
	}
	left, right := uint(0), ix.count-1
	for left <= right {
		mid := (left + right) / 2
		entry, err := ix.Entry(mid)
		if err != nil {
			return IndexEntry{}, false, err
		}
		switch {
		case ip < entry.Start:
			if mid == 0 {
				return IndexEntry{}, false, nil
			}
			right = mid - 1
		case ip > entry.End:
			left = mid + 1
		default:
			return entry, true, nil
		}
	}
	return IndexEntry{}, false, nil
}
