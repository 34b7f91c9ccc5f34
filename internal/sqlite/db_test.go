package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/profile"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func insertProfile(t *testing.T, db *DB, id string, level int) {
	t.Helper()
	repo := NewProfileRepository(db)
	require.NoError(t, repo.Insert(context.Background(), &profile.Profile{
		ID:           id,
		CurrentLevel: level,
	}))
}

func insertSequence(t *testing.T, db *DB, id string, level int, beginning, ending string) {
	t.Helper()
	b, err := catalog.ParseSequence(beginning)
	require.NoError(t, err)
	e, err := catalog.ParseSequence(ending)
	require.NoError(t, err)
	repo := NewSequenceRepository(db)
	require.NoError(t, repo.Insert(context.Background(), &catalog.Sequence{
		ID:        id,
		Level:     level,
		Beginning: b,
		Ending:    e,
	}))
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"profiles",
		"sessions",
		"sequences",
		"attempts",
		"play_log",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec(
		`INSERT INTO sessions (id, profile_id, started_at, ended_at) VALUES (?, ?, ?, ?)`,
		"s1", "no-such-profile", time.Now(), time.Now().Add(time.Minute),
	)
	require.Error(t, err)
	require.True(t, isForeignKeyViolation(err))
}
