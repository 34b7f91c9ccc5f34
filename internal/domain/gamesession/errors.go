package gamesession

import "errors"

var (
	// ErrSessionNotFound indicates the session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotOwner indicates the caller doesn't own the session.
	ErrNotOwner = errors.New("session owned by another profile")
	// ErrSessionExpired indicates the lease deadline has already passed.
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidInput indicates missing ids.
	ErrInvalidInput = errors.New("invalid session input")
)
