package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/melodiq/melodiq/internal/domain/gamesession"
	"github.com/melodiq/melodiq/internal/repository"
)

// SessionRepository implements repository.SessionRepository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session lease
func (r *SessionRepository) Create(ctx context.Context, sess *gamesession.Session) error {
	query := `
		INSERT INTO sessions (id, profile_id, started_at, ended_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		sess.ID,
		sess.ProfileID,
		sess.StartedAt,
		sess.EndedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*gamesession.Session, error) {
	query := `
		SELECT id, profile_id, started_at, ended_at
		FROM sessions
		WHERE id = ?
	`

	var sess gamesession.Session
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID,
		&sess.ProfileID,
		&sess.StartedAt,
		&sess.EndedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &sess, nil
}

// Update persists a session's deadline
func (r *SessionRepository) Update(ctx context.Context, sess *gamesession.Session) error {
	query := `
		UPDATE sessions
		SET ended_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, sess.EndedAt, sess.ID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
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

// CloseActive force-ends every live session for the profile. Blind
// last-write-wins update, no conditional check.
func (r *SessionRepository) CloseActive(ctx context.Context, profileID string, now time.Time) (int64, error) {
	query := `
		UPDATE sessions
		SET ended_at = ?
		WHERE profile_id = ? AND ended_at > ?
	`

	result, err := r.db.ExecContext(ctx, query, now, profileID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to close sessions: %w", err)
	}

	closed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return closed, nil
}
