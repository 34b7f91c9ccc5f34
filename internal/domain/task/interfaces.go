package task

import (
	"context"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/profile"
)

// AttemptRepository provides attempt-state persistence.
type AttemptRepository interface {
	Create(ctx context.Context, att *Attempt) error
	Get(ctx context.Context, profileID, sequenceID string) (*Attempt, error)
	GetOpen(ctx context.Context, profileID string) (*Attempt, error)
	Update(ctx context.Context, att *Attempt) error
	CompletedSequenceIDs(ctx context.Context, profileID string, level int) ([]string, error)
}

// ProfileStore yields the profile's current level.
type ProfileStore interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
}

// Catalog yields candidate sequences per level.
type Catalog interface {
	Get(ctx context.Context, id string) (*catalog.Sequence, error)
	ListByLevel(ctx context.Context, level int) ([]catalog.Sequence, error)
}
