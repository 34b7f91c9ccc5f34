package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/profile"
	"github.com/melodiq/melodiq/internal/repository"
)

func TestProfileRepository_InsertGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewProfileRepository(db)
	require.NoError(t, repo.Insert(ctx, &profile.Profile{ID: "prof1", CurrentLevel: 1}))

	loaded, err := repo.Get(ctx, "prof1")
	require.NoError(t, err)
	require.Equal(t, 1, loaded.CurrentLevel)
	require.Equal(t, 0, loaded.TotalScore)
	require.Nil(t, loaded.LastPlayedAt)

	_, err = repo.Get(ctx, "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfileRepository_UpdateProgress(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewProfileRepository(db)
	require.NoError(t, repo.Insert(ctx, &profile.Profile{ID: "prof1", CurrentLevel: 1}))

	now := time.Now().Truncate(time.Second)
	prof := &profile.Profile{
		ID:                    "prof1",
		CurrentLevel:          2,
		TotalScore:            47,
		CompletedTasksInLevel: 3,
		LastPlayedAt:          &now,
	}
	require.NoError(t, repo.UpdateProgress(ctx, prof))

	loaded, err := repo.Get(ctx, "prof1")
	require.NoError(t, err)
	require.Equal(t, 2, loaded.CurrentLevel)
	require.Equal(t, 47, loaded.TotalScore)
	require.Equal(t, 3, loaded.CompletedTasksInLevel)
	require.NotNil(t, loaded.LastPlayedAt)

	require.ErrorIs(t, repo.UpdateProgress(ctx, &profile.Profile{ID: "ghost"}), repository.ErrNotFound)
}

func TestSequenceRepository_RoundTrip(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	insertSequence(t, db, "seq-1", 1, "C4-E4-G4", "C4-E4")
	insertSequence(t, db, "seq-2", 1, "D4-F#4", "A4")
	insertSequence(t, db, "seq-3", 2, "E4-G4-B4", "E4")

	repo := NewSequenceRepository(db)

	seq, err := repo.Get(ctx, "seq-1")
	require.NoError(t, err)
	require.Equal(t, 1, seq.Level)
	require.Equal(t, "C4-E4-G4", catalog.JoinNotes(seq.Beginning))
	require.Equal(t, 2, seq.ExpectedSlots())

	list, err := repo.ListByLevel(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = repo.Get(ctx, "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
