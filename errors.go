package qqwry

import (
	"errors"

	"github.com/qqwry/qqwry-golang/internal/qqerrors"
)

var (
	// ErrInvalidAddress is returned when the text passed to Lookup is not a
	// dotted-decimal IPv4 address.
	ErrInvalidAddress = errors.New("qqwry: invalid IPv4 address")

	// ErrNotFound is returned when no range in the index contains the
	// address.
	ErrNotFound = errors.New("qqwry: address not found")
)

// InvalidDatabaseError is returned when the database contains invalid data
// and cannot be parsed.
type InvalidDatabaseError = qqerrors.InvalidDatabaseError

// ContextualError wraps an InvalidDatabaseError with the offset of the
// record and the field that could not be decoded.
type ContextualError = qqerrors.ContextualError
