package qqwry

import (
	"github.com/qqwry/qqwry-golang/internal/decoder"
	"github.com/qqwry/qqwry-golang/internal/qqerrors"
)

type verifier struct {
	reader *Reader
}

// Verify checks that the database is valid. It validates the header and
// the index layout, checks that ranges are sorted and disjoint, and decodes
// every record. It returns nil if the database is valid and an
// InvalidDatabaseError otherwise.
func (r *Reader) Verify() error {
	v := verifier{r}
	if err := v.verifyHeader(); err != nil {
		return err
	}
	return v.verifyRanges()
}

func (v *verifier) verifyHeader() error {
	m := v.reader.Metadata

	if m.IndexEnd < m.IndexStart {
		return qqerrors.NewInvalidDatabaseError(
			"index end %d precedes index start %d", m.IndexEnd, m.IndexStart)
	}
	if m.IndexStart < headerSize {
		return qqerrors.NewInvalidDatabaseError(
			"index start %d overlaps the header", m.IndexStart)
	}
	if (m.IndexEnd-m.IndexStart)%decoder.IndexRecordSize != 0 {
		return qqerrors.NewInvalidDatabaseError(
			"index length %d is not a multiple of %d",
			m.IndexEnd-m.IndexStart, decoder.IndexRecordSize)
	}
	size := v.reader.decoder.Size()
	if m.IndexEnd > size || size-m.IndexEnd < decoder.IndexRecordSize {
		return qqerrors.NewInvalidDatabaseError(
			"index end %d is past the end of the database (%d bytes)", m.IndexEnd, size)
	}
	return nil
}

func (v *verifier) verifyRanges() error {
	r := v.reader
	var prevEnd uint32
	for i, n := uint(0), r.index.Len(); i < n; i++ {
		entry, err := r.index.Entry(i)
		if err != nil {
			return err
		}
		if entry.Offset < headerSize {
			return qqerrors.NewInvalidDatabaseError(
				"index record %d points into the header (offset %d)", i, entry.Offset)
		}
		if entry.Start > entry.End {
			return qqerrors.NewInvalidDatabaseError(
				"index record %d starts at %s after its end %s",
				i, uint32ToAddr(entry.Start), uint32ToAddr(entry.End))
		}
		if i > 0 && entry.Start <= prevEnd {
			return qqerrors.NewInvalidDatabaseError(
				"index record %d at %s overlaps or precedes the previous range ending at %s",
				i, uint32ToAddr(entry.Start), uint32ToAddr(prevEnd))
		}
		if _, err := r.decode(entry); err != nil {
			return err
		}
		prevEnd = entry.End
	}
	return nil
}
