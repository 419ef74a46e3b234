package diagnostic

import "errors"

var (
	ErrNotFound = errors.New("diagnostic: record not found")
	// ErrInvalidDocument is returned when a record fails validation before it is written.
	ErrInvalidDocument = errors.New("diagnostic: invalid document")
)
