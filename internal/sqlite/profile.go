package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/melodiq/melodiq/internal/domain/profile"
	"github.com/melodiq/melodiq/internal/repository"
)

// ProfileRepository implements profile.Store for SQLite. Only the
// progress columns are touched here; profile CRUD belongs to the
// profile service.
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a profile's progress by ID
func (r *ProfileRepository) Get(ctx context.Context, id string) (*profile.Profile, error) {
	query := `
		SELECT id, current_level, total_score, completed_tasks_in_level, last_played_at
		FROM profiles
		WHERE id = ?
	`

	var prof profile.Profile
	var lastPlayedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&prof.ID,
		&prof.CurrentLevel,
		&prof.TotalScore,
		&prof.CompletedTasksInLevel,
		&lastPlayedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if lastPlayedAt.Valid {
		prof.LastPlayedAt = &lastPlayedAt.Time
	}

	return &prof, nil
}

// UpdateProgress persists the game-owned progress columns
func (r *ProfileRepository) UpdateProgress(ctx context.Context, prof *profile.Profile) error {
	query := `
		UPDATE profiles
		SET current_level = ?, total_score = ?, completed_tasks_in_level = ?, last_played_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		prof.CurrentLevel,
		prof.TotalScore,
		prof.CompletedTasksInLevel,
		prof.LastPlayedAt,
		prof.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Insert creates a profile row. Used by seeding and tests; the real
// profile service owns creation in production.
func (r *ProfileRepository) Insert(ctx context.Context, prof *profile.Profile) error {
	query := `
		INSERT INTO profiles (id, current_level, total_score, completed_tasks_in_level, last_played_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		prof.ID,
		prof.CurrentLevel,
		prof.TotalScore,
		prof.CompletedTasksInLevel,
		prof.LastPlayedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return nil
}
