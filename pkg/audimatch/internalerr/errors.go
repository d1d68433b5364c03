package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicate        = errors.New("duplicate entry")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")

	// ErrSegmentNotFound is returned when an audience segment name is not in
	// the catalog. It matches ErrNotFound under errors.Is.
	ErrSegmentNotFound = fmt.Errorf("audience segment %w", ErrNotFound)
)
