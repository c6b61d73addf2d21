package classify

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every classification failure aborts the import and wraps
// exactly one of these.
var (
	ErrUnrecognizedAction = errors.New("unrecognized action")
	ErrMalformedNumeric   = errors.New("malformed numeric field")
	ErrMissingField       = errors.New("missing required field")
	ErrMalformedDate      = errors.New("malformed date")
)

// UnrecognizedActionError names a label that no classification table knows.
type UnrecognizedActionError struct {
	Label   string
	Context string // "action", "bank action" or "bank transaction type"
}

func (e *UnrecognizedActionError) Error() string {
	return fmt.Sprintf("unrecognized %s: %q", e.Context, e.Label)
}

func (e *UnrecognizedActionError) Unwrap() error { return ErrUnrecognizedAction }

// FieldError describes a field that is missing or cannot be parsed.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("missing required field %q", e.Field)
	}
	return fmt.Sprintf("field %q value %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func missing(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

func malformedNumeric(field, value string, err error) error {
	return &FieldError{Field: field, Value: value, Err: fmt.Errorf("%w: %w", ErrMalformedNumeric, err)}
}
