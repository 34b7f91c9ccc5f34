// Package profile defines the contract to the profile service. Profile
// CRUD (names, birth dates, the profile cap) lives elsewhere; the game
// only reads progress and writes score, level and play-time updates.
package profile

import (
	"context"
	"errors"
	"time"
)

// ErrProfileNotFound indicates the profile doesn't exist.
var ErrProfileNotFound = errors.New("profile not found")

// Profile carries the progress fields owned by the profile service and
// mutated by the game.
type Profile struct {
	ID                    string     `json:"id"`
	CurrentLevel          int        `json:"current_level"`
	TotalScore            int        `json:"total_score"`
	CompletedTasksInLevel int        `json:"completed_tasks_in_level"`
	LastPlayedAt          *time.Time `json:"last_played_at,omitempty"`
}

// Store yields a profile's progress and accepts updates.
type Store interface {
	Get(ctx context.Context, id string) (*Profile, error)
	UpdateProgress(ctx context.Context, prof *Profile) error
}
