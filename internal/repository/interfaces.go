package repository

import (
	"context"
	"time"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/gamesession"
	"github.com/melodiq/melodiq/internal/domain/playlog"
	"github.com/melodiq/melodiq/internal/domain/profile"
	"github.com/melodiq/melodiq/internal/domain/task"
)

// SessionRepository manages session lease persistence
type SessionRepository interface {
	Create(ctx context.Context, sess *gamesession.Session) error
	Get(ctx context.Context, id string) (*gamesession.Session, error)
	Update(ctx context.Context, sess *gamesession.Session) error
	CloseActive(ctx context.Context, profileID string, now time.Time) (int64, error)
}

// ProfileRepository manages profile progress persistence
type ProfileRepository interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
	UpdateProgress(ctx context.Context, prof *profile.Profile) error
}

// SequenceRepository manages the sequence catalog
type SequenceRepository interface {
	Get(ctx context.Context, id string) (*catalog.Sequence, error)
	ListByLevel(ctx context.Context, level int) ([]catalog.Sequence, error)
	Insert(ctx context.Context, seq *catalog.Sequence) error
}

// AttemptRepository manages attempt state per profile and sequence
type AttemptRepository interface {
	Create(ctx context.Context, att *task.Attempt) error
	Get(ctx context.Context, profileID, sequenceID string) (*task.Attempt, error)
	// GetOpen returns the profile's attempt with no completion marker.
	GetOpen(ctx context.Context, profileID string) (*task.Attempt, error)
	Update(ctx context.Context, att *task.Attempt) error
	// CompletedSequenceIDs lists sequences the profile has already
	// finished, scored or exhausted.
	CompletedSequenceIDs(ctx context.Context, profileID string, level int) ([]string, error)
}

// PlayLogRepository manages play log persistence
type PlayLogRepository interface {
	Record(ctx context.Context, entry *playlog.Entry) error
	List(ctx context.Context, profileID string, limit int) ([]playlog.Entry, error)
}
