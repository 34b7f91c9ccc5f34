package answer

import (
	"context"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/profile"
	"github.com/melodiq/melodiq/internal/domain/task"
)

// SessionVerifier checks that a lease is still active.
type SessionVerifier interface {
	Verify(ctx context.Context, sessionID string) (bool, error)
}

// AttemptRepository provides attempt-state persistence.
type AttemptRepository interface {
	Get(ctx context.Context, profileID, sequenceID string) (*task.Attempt, error)
	Update(ctx context.Context, att *task.Attempt) error
}

// ProfileStore yields and mutates profile progress.
type ProfileStore interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
	UpdateProgress(ctx context.Context, prof *profile.Profile) error
}

// Catalog yields the sequence's hidden ending for grading.
type Catalog interface {
	Get(ctx context.Context, id string) (*catalog.Sequence, error)
}
