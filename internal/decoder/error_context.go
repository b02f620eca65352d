package decoder

import "github.com/qqwry/qqwry-golang/internal/qqerrors"

// wrapError wraps an error with the offset of the record being decoded and
// the field that failed. A nil err is returned unchanged.
func (d *Decoder) wrapError(err error, field string) error {
	if err == nil {
		return nil
	}
	return qqerrors.WrapWithContext(err, d.offset, field)
}
