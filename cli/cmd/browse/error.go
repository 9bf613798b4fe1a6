package browse

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrNoLoader    = errors.New("no script loader")
	ErrNoBinding   = errors.New("no such binding")
)
