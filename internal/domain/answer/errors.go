package answer

import "errors"

var (
	// ErrSessionInactive indicates the submission's session is missing or
	// expired; the client must re-create its lease and retry.
	ErrSessionInactive = errors.New("session not active")
	// ErrTaskNotFound indicates no attempt exists for the sequence.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskCompleted indicates the task already reached a terminal
	// state; re-submitting never re-awards score.
	ErrTaskCompleted = errors.New("task already completed")
	// ErrInvalidAnswer indicates malformed answer tokens or a wrong
	// number of slots.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrInvalidInput indicates missing ids.
	ErrInvalidInput = errors.New("invalid submission input")
)
