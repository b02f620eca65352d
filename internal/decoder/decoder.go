package decoder

import (
	"github.com/qqwry/qqwry-golang/cache"
	"github.com/qqwry/qqwry-golang/internal/qqerrors"
)

// maxRedirectDepth is the deepest chain the format allows for the location
// string: a full redirect followed by a mixed redirect. The area field
// allows one.
const maxRedirectDepth = 2

// Decoder resolves the location and area strings of a single record.
type Decoder struct {
	d      DataDecoder
	cache  cache.Cache
	offset uint
}

// NewDecoder creates a [Decoder] for the record at offset. c may be nil.
func NewDecoder(d DataDecoder, c cache.Cache, offset uint) *Decoder {
	return &Decoder{d: d, cache: c, offset: offset}
}

// Decode returns the location and area strings of the record. The first
// four bytes at the record offset hold the range end address and are
// skipped.
func (d *Decoder) Decode() (location, area string, err error) {
	if !d.d.fits(d.offset, 4) {
		return "", "", d.wrapError(qqerrors.NewOffsetError(), "end_ip")
	}
	pos := d.offset + 4

	flag, err := d.d.Byte(pos)
	if err != nil {
		return "", "", d.wrapError(err, "flag")
	}

	var areaPos uint
	switch ModeOf(flag) {
	case ModeRedirect:
		countryOffset, err := d.pointer(pos)
		if err != nil {
			return "", "", d.wrapError(err, "location")
		}
		location, areaPos, err = d.redirectedCountry(countryOffset)
		if err != nil {
			return "", "", d.wrapError(err, "location")
		}
	case ModeMixed:
		countryOffset, err := d.pointer(pos)
		if err != nil {
			return "", "", d.wrapError(err, "location")
		}
		location, _, err = d.d.CString(countryOffset, d.cache)
		if err != nil {
			return "", "", d.wrapError(err, "location")
		}
		// The area field continues in place after the pointer, not after
		// the redirected country.
		areaPos = pos + 4
	default:
		location, areaPos, err = d.d.CString(pos, d.cache)
		if err != nil {
			return "", "", d.wrapError(err, "location")
		}
	}

	area, err = d.area(areaPos)
	if err != nil {
		return "", "", d.wrapError(err, "info")
	}
	return location, area, nil
}

// redirectedCountry decodes the body reached through a full redirect and
// returns the country together with the position of its area field.
func (d *Decoder) redirectedCountry(offset uint) (string, uint, error) {
	flag, err := d.d.Byte(offset)
	if err != nil {
		return "", 0, err
	}
	switch ModeOf(flag) {
	case ModeMixed:
		strOffset, err := d.pointer(offset)
		if err != nil {
			return "", 0, err
		}
		country, _, err := d.d.CString(strOffset, d.cache)
		if err != nil {
			return "", 0, err
		}
		return country, offset + 4, nil
	case ModeRedirect:
		return "", 0, qqerrors.NewInvalidDatabaseError(
			"redirect at offset %d exceeds the maximum depth of %d", offset, maxRedirectDepth)
	default:
		return d.d.CString(offset, d.cache)
	}
}

// area decodes the area field at pos. A redirect to offset 0 denotes an
// empty field; a redirect target is always read as plain text.
func (d *Decoder) area(pos uint) (string, error) {
	flag, err := d.d.Byte(pos)
	if err != nil {
		return "", err
	}
	switch areaModeOf(flag) {
	case areaEmpty:
		return "", nil
	case areaRedirect:
		target, err := d.pointer(pos)
		if err != nil {
			return "", err
		}
		if target == 0 {
			return "", nil
		}
		s, _, err := d.d.CString(target, d.cache)
		return s, err
	default:
		s, _, err := d.d.CString(pos, d.cache)
		return s, err
	}
}

// pointer reads the 3-byte offset following the flag byte at pos.
func (d *Decoder) pointer(pos uint) (uint, error) {
	v, err := d.d.Uint24(pos + 1)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
