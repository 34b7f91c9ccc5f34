package gamesession

import (
	"context"
	"time"
)

// SessionRepository provides persistence for session leases.
type SessionRepository interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, sess *Session) error
	// CloseActive force-ends every session for the profile whose deadline
	// is after now, returning how many it closed.
	CloseActive(ctx context.Context, profileID string, now time.Time) (int64, error)
}
