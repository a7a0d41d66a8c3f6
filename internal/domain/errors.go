package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument signals missing configuration or a bad call argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound signals a missing resource (e.g. an index directory).
	ErrNotFound = errors.New("not found")
	// ErrInvalidSchema signals a malformed field mapping definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrFormat signals a text-to-value conversion failure during decode.
	ErrFormat = errors.New("format error")
	// ErrSerialization signals a complex field could not be serialized.
	ErrSerialization = errors.New("serialization error")
	// ErrDeserialization signals a complex field could not be deserialized.
	ErrDeserialization = errors.New("deserialization error")
	// ErrIndexLocked signals the write lock is held by a live writer.
	ErrIndexLocked = errors.New("index locked")
	// ErrClosed signals use of a closed engine or store.
	ErrClosed = errors.New("closed")
)

// FieldError reports a codec failure on a single mapped field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("field %q: value %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewFieldError wraps cause with the field name and a taxonomy sentinel.
func NewFieldError(field, value string, kind, cause error) error {
	if cause == nil {
		return &FieldError{Field: field, Value: value, Err: kind}
	}
	return &FieldError{Field: field, Value: value, Err: fmt.Errorf("%w: %w", kind, cause)}
}
