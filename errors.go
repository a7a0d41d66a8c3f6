package textdex

import "github.com/kailas-cloud/textdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrNotFound        = domain.ErrNotFound
	ErrInvalidSchema   = domain.ErrInvalidSchema
	ErrFormat          = domain.ErrFormat
	ErrSerialization   = domain.ErrSerialization
	ErrDeserialization = domain.ErrDeserialization
	ErrIndexLocked     = domain.ErrIndexLocked
	ErrClosed          = domain.ErrClosed
)

// FieldError reports a codec failure on one mapped field. It unwraps to
// ErrFormat, ErrSerialization or ErrDeserialization.
type FieldError = domain.FieldError
