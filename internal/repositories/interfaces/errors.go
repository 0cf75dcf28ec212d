package interfaces

import "errors"

// Store-level errors shared by every repository backend.
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrBalanceChanged is returned by a compare-and-set balance write when
	// the stored balance no longer matches the value the caller read.
	ErrBalanceChanged = errors.New("wallet balance changed concurrently")
	// ErrMissingIndex is returned when the backend refuses an ordered query
	// because the supporting index does not exist.
	ErrMissingIndex = errors.New("required index is missing")
)
