package db

import "errors"

// Sentinel errors for backend operations.
var (
	ErrIndexNotFound   = errors.New("db: index not found")
	ErrLockHeld        = errors.New("db: write lock held")
	ErrWriterClosed    = errors.New("db: writer closed")
	ErrUnknownAnalyzer = errors.New("db: unknown analyzer")
)

// Op constants name backend operations for error context.
const (
	OpOpen      = "OPEN"
	OpCreate    = "CREATE"
	OpLock      = "LOCK"
	OpUnlock    = "UNLOCK"
	OpAdd       = "ADD"
	OpDelete    = "DELETE"
	OpDeleteAll = "DELETE_ALL"
	OpFlush     = "FLUSH"
	OpSearch    = "SEARCH"
	OpDocCount  = "DOC_COUNT"
	OpAnalyze   = "ANALYZE"
	OpClose     = "CLOSE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
