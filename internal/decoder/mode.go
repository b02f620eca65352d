package decoder

import "fmt"

// Flag bytes tagging a record body or an area field.
const (
	flagEmpty    = 0x00
	flagRedirect = 0x01
	flagMixed    = 0x02
)

// Mode is the variant of a record body, selected by its leading flag byte.
type Mode int

const (
	// ModeInline means the country string starts at the flag position and
	// the area field follows its terminator.
	ModeInline Mode = iota
	// ModeRedirect means the whole body, country and area, lives at the
	// 3-byte offset following the flag.
	ModeRedirect
	// ModeMixed means only the country is redirected; the area field
	// follows the 3-byte offset in place.
	ModeMixed
)

// ModeOf maps a record flag byte to its Mode. Any byte other than the two
// redirect flags starts an inline string.
func ModeOf(flag byte) Mode {
	switch flag {
	case flagRedirect:
		return ModeRedirect
	case flagMixed:
		return ModeMixed
	default:
		return ModeInline
	}
}

// String returns a human-readable name for the Mode.
func (m Mode) String() string {
	switch m {
	case ModeInline:
		return "Inline"
	case ModeRedirect:
		return "Redirect"
	case ModeMixed:
		return "Mixed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// areaMode is the variant of an area (info) field.
type areaMode int

const (
	areaInline areaMode = iota
	areaEmpty
	areaRedirect
)

// areaModeOf maps an area flag byte to its variant. Both redirect flags
// behave the same for the area field.
func areaModeOf(flag byte) areaMode {
	switch flag {
	case flagEmpty:
		return areaEmpty
	case flagRedirect, flagMixed:
		return areaRedirect
	default:
		return areaInline
	}
}
