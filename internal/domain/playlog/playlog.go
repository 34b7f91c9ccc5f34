// Package playlog records play events for the dashboard service.
package playlog

import (
	"context"
	"time"
)

// EventType classifies a play-log entry.
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventSessionEnded   EventType = "session_ended"
	EventTaskServed     EventType = "task_served"
	EventSubmission     EventType = "submission"
	EventLevelUp        EventType = "level_up"
)

// Entry is one append-only play-log row.
type Entry struct {
	ID         int64     `json:"id"`
	ProfileID  string    `json:"profile_id"`
	SessionID  string    `json:"session_id,omitempty"`
	SequenceID string    `json:"sequence_id,omitempty"`
	EventType  EventType `json:"event_type"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Recorder appends play-log entries. Recording is best effort; callers
// must not fail the game flow on a log error.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
}
