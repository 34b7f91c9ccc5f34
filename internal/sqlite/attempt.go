package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/melodiq/melodiq/internal/domain/task"
	"github.com/melodiq/melodiq/internal/repository"
)

// AttemptRepository implements repository.AttemptRepository for SQLite
type AttemptRepository struct {
	db *DB
}

// NewAttemptRepository creates a new AttemptRepository
func NewAttemptRepository(db *DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create opens an attempt for a profile and sequence
func (r *AttemptRepository) Create(ctx context.Context, att *task.Attempt) error {
	query := `
		INSERT INTO attempts (profile_id, sequence_id, attempts_used, score, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		att.ProfileID,
		att.SequenceID,
		att.AttemptsUsed,
		att.Score,
		att.StartedAt,
		att.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create attempt: %w", err)
	}

	return nil
}

// Get retrieves the attempt for a profile and sequence
func (r *AttemptRepository) Get(ctx context.Context, profileID, sequenceID string) (*task.Attempt, error) {
	query := `
		SELECT profile_id, sequence_id, attempts_used, score, started_at, completed_at
		FROM attempts
		WHERE profile_id = ? AND sequence_id = ?
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, profileID, sequenceID))
}

// GetOpen retrieves the profile's attempt with no completion marker.
// At most one exists: a new puzzle is only generated once the prior one
// completed.
func (r *AttemptRepository) GetOpen(ctx context.Context, profileID string) (*task.Attempt, error) {
	query := `
		SELECT profile_id, sequence_id, attempts_used, score, started_at, completed_at
		FROM attempts
		WHERE profile_id = ? AND completed_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, profileID))
}

// Update persists attempt progress and the completion marker
func (r *AttemptRepository) Update(ctx context.Context, att *task.Attempt) error {
	query := `
		UPDATE attempts
		SET attempts_used = ?, score = ?, completed_at = ?
		WHERE profile_id = ? AND sequence_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		att.AttemptsUsed,
		att.Score,
		att.CompletedAt,
		att.ProfileID,
		att.SequenceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attempt: %w", err)
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

// CompletedSequenceIDs lists sequences the profile has finished at a level
func (r *AttemptRepository) CompletedSequenceIDs(ctx context.Context, profileID string, level int) ([]string, error) {
	query := `
		SELECT a.sequence_id
		FROM attempts a
		JOIN sequences s ON s.id = a.sequence_id
		WHERE a.profile_id = ? AND s.level = ? AND a.completed_at IS NOT NULL
	`

	rows, err := r.db.QueryContext(ctx, query, profileID, level)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed attempts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}

	return ids, nil
}

func (r *AttemptRepository) scanOne(row *sql.Row) (*task.Attempt, error) {
	var att task.Attempt
	var completedAt sql.NullTime
	err := row.Scan(
		&att.ProfileID,
		&att.SequenceID,
		&att.AttemptsUsed,
		&att.Score,
		&att.StartedAt,
		&completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if completedAt.Valid {
		att.CompletedAt = &completedAt.Time
	}

	return &att, nil
}
