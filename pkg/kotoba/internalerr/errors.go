package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicate        = errors.New("duplicate entry")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrNoDefinition     = errors.New("no dictionary definition")
	ErrAnki             = errors.New("anki request failed")
	ErrUnsafeSort       = errors.New("cards with review history cannot be re-sorted")
)
