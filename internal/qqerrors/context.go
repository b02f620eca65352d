package qqerrors

import "fmt"

// ContextualError provides detailed error context with offset and field
// information. It is only allocated when an error actually occurs.
type ContextualError struct {
	Err    error
	Field  string
	Offset uint
}

func (e ContextualError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("at offset %d, field %s: %v", e.Offset, e.Field, e.Err)
	}
	return fmt.Sprintf("at offset %d: %v", e.Offset, e.Err)
}

func (e ContextualError) Unwrap() error {
	return e.Err
}

// WrapWithContext wraps an error with offset and optional field context.
// A nil err is returned unchanged.
func WrapWithContext(err error, offset uint, field string) error {
	if err == nil {
		return nil
	}
	return ContextualError{
		Err:    err,
		Field:  field,
		Offset: offset,
	}
}
