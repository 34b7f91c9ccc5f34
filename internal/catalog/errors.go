package catalog

import "errors"

var (
	// ErrBadNote indicates a malformed note token or sequence.
	ErrBadNote = errors.New("invalid note token")
	// ErrSequenceNotFound indicates the sequence doesn't exist.
	ErrSequenceNotFound = errors.New("sequence not found")
)
