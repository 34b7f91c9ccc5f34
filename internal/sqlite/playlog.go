package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/melodiq/melodiq/internal/domain/playlog"
)

// PlayLogRepository implements repository.PlayLogRepository for SQLite
type PlayLogRepository struct {
	db *DB
}

// NewPlayLogRepository creates a new PlayLogRepository
func NewPlayLogRepository(db *DB) *PlayLogRepository {
	return &PlayLogRepository{db: db}
}

// Record inserts a new play-log entry
func (r *PlayLogRepository) Record(ctx context.Context, entry *playlog.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO play_log (profile_id, session_id, sequence_id, event_type, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.ProfileID,
		nullable(entry.SessionID),
		nullable(entry.SequenceID),
		entry.EventType,
		nullable(entry.Details),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record play log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// List returns the profile's most recent entries, newest first
func (r *PlayLogRepository) List(ctx context.Context, profileID string, limit int) ([]playlog.Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, profile_id, session_id, sequence_id, event_type, details, created_at
		FROM play_log
		WHERE profile_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list play log: %w", err)
	}
	defer rows.Close()

	var entries []playlog.Entry
	for rows.Next() {
		var entry playlog.Entry
		var sessionID, sequenceID, details sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.ProfileID,
			&sessionID,
			&sequenceID,
			&entry.EventType,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan play log entry: %w", err)
		}
		entry.SessionID = sessionID.String
		entry.SequenceID = sequenceID.String
		entry.Details = details.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating play log: %w", err)
	}

	return entries, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
