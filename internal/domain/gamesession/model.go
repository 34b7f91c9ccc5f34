package gamesession

import "time"

const (
	// SessionDuration is the lease granted by Start.
	SessionDuration = 10 * time.Minute
	// RefreshExtension is added to the deadline on each Refresh.
	RefreshExtension = 2 * time.Minute
)

// Session is a time-bounded grant allowing a profile to play. A session
// is active while EndedAt is in the future; expiry is computed, never
// written.
type Session struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Active reports whether the session is still live at the given instant.
func (s *Session) Active(now time.Time) bool {
	return s.EndedAt.After(now)
}

// Lease is the client-visible slice of a session: the id plus the
// deadline the cookie mirror must expire at.
type Lease struct {
	SessionID string    `json:"session_id"`
	EndedAt   time.Time `json:"ended_at"`
}
