package task

import "errors"

var (
	// ErrNoSequences indicates the profile's level has no unplayed sequences.
	ErrNoSequences = errors.New("no sequences available at level")
	// ErrNoOpenTask indicates the profile has no puzzle in progress.
	ErrNoOpenTask = errors.New("no task in progress")
	// ErrInvalidInput indicates missing ids.
	ErrInvalidInput = errors.New("invalid task input")
)
