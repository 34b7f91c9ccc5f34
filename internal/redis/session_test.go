package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/melodiq/melodiq/internal/domain/gamesession"
	"github.com/melodiq/melodiq/internal/repository"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) *SessionRepository {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewSessionRepository(client)
}

func TestSessionRepository_CreateGet(t *testing.T) {
	repo := setupTestRedis(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	sess := &gamesession.Session{
		ID:        "s1",
		ProfileID: "prof1",
		StartedAt: now,
		EndedAt:   now.Add(gamesession.SessionDuration),
	}
	require.NoError(t, repo.Create(ctx, sess))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "prof1", loaded.ProfileID)
	require.True(t, loaded.EndedAt.Equal(sess.EndedAt))
	require.True(t, loaded.Active(now))

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_Update(t *testing.T) {
	repo := setupTestRedis(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	sess := &gamesession.Session{
		ID:        "s1",
		ProfileID: "prof1",
		StartedAt: now,
		EndedAt:   now.Add(gamesession.SessionDuration),
	}
	require.NoError(t, repo.Create(ctx, sess))

	sess.EndedAt = sess.EndedAt.Add(gamesession.RefreshExtension)
	require.NoError(t, repo.Update(ctx, sess))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, loaded.EndedAt.Equal(sess.EndedAt))

	require.ErrorIs(t, repo.Update(ctx, &gamesession.Session{ID: "ghost"}), repository.ErrNotFound)
}

func TestSessionRepository_CloseActive(t *testing.T) {
	repo := setupTestRedis(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	require.NoError(t, repo.Create(ctx, &gamesession.Session{
		ID:        "s1",
		ProfileID: "prof1",
		StartedAt: now,
		EndedAt:   now.Add(time.Minute),
	}))

	closed, err := repo.CloseActive(ctx, "prof1", now)
	require.NoError(t, err)
	require.Equal(t, int64(1), closed)

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.False(t, loaded.Active(now))

	// Second close is a no-op.
	closed, err = repo.CloseActive(ctx, "prof1", now)
	require.NoError(t, err)
	require.Equal(t, int64(0), closed)

	// Unknown profile is a no-op too.
	closed, err = repo.CloseActive(ctx, "prof2", now)
	require.NoError(t, err)
	require.Equal(t, int64(0), closed)
}

func TestSessionRepository_ExpiredStillReadable(t *testing.T) {
	repo := setupTestRedis(t)
	ctx := context.Background()

	// An ended session must stay readable so a refresh on it can fail
	// with the expired error rather than not-found.
	now := time.Now().Truncate(time.Second)
	require.NoError(t, repo.Create(ctx, &gamesession.Session{
		ID:        "s1",
		ProfileID: "prof1",
		StartedAt: now.Add(-time.Hour),
		EndedAt:   now.Add(-time.Minute),
	}))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.False(t, loaded.Active(now))
}
