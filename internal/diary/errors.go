package diary

import "errors"

var (
	// ErrAppend wraps failures opening or writing today's diary file.
	ErrAppend = errors.New("append to diary failed")
	// ErrUnknownAction is returned for letters other than b, s and m.
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidOffset is returned for negative day offsets.
	ErrInvalidOffset = errors.New("day offset must not be negative")
)
