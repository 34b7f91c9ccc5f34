package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/repository"
)

// SequenceRepository implements catalog.Catalog for SQLite
type SequenceRepository struct {
	db *DB
}

// NewSequenceRepository creates a new SequenceRepository
func NewSequenceRepository(db *DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Get retrieves a sequence by ID, hidden ending included
func (r *SequenceRepository) Get(ctx context.Context, id string) (*catalog.Sequence, error) {
	query := `
		SELECT id, level, beginning, ending
		FROM sequences
		WHERE id = ?
	`

	var seq catalog.Sequence
	var beginning, ending string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&seq.ID, &seq.Level, &beginning, &ending)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sequence: %w", err)
	}

	if seq.Beginning, err = catalog.ParseSequence(beginning); err != nil {
		return nil, fmt.Errorf("corrupt beginning for sequence %s: %w", id, err)
	}
	if seq.Ending, err = catalog.ParseSequence(ending); err != nil {
		return nil, fmt.Errorf("corrupt ending for sequence %s: %w", id, err)
	}

	return &seq, nil
}

// ListByLevel returns all sequences at a level
func (r *SequenceRepository) ListByLevel(ctx context.Context, level int) ([]catalog.Sequence, error) {
	query := `
		SELECT id, level, beginning, ending
		FROM sequences
		WHERE level = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, level)
	if err != nil {
		return nil, fmt.Errorf("failed to list sequences: %w", err)
	}
	defer rows.Close()

	var sequences []catalog.Sequence
	for rows.Next() {
		var seq catalog.Sequence
		var beginning, ending string
		if err := rows.Scan(&seq.ID, &seq.Level, &beginning, &ending); err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		if seq.Beginning, err = catalog.ParseSequence(beginning); err != nil {
			return nil, fmt.Errorf("corrupt beginning for sequence %s: %w", seq.ID, err)
		}
		if seq.Ending, err = catalog.ParseSequence(ending); err != nil {
			return nil, fmt.Errorf("corrupt ending for sequence %s: %w", seq.ID, err)
		}
		sequences = append(sequences, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sequences: %w", err)
	}

	return sequences, nil
}

// Insert adds a sequence to the catalog; existing ids are updated in
// place so re-seeding is idempotent.
func (r *SequenceRepository) Insert(ctx context.Context, seq *catalog.Sequence) error {
	query := `
		INSERT INTO sequences (id, level, beginning, ending)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			level = excluded.level,
			beginning = excluded.beginning,
			ending = excluded.ending
	`

	_, err := r.db.ExecContext(ctx, query,
		seq.ID,
		seq.Level,
		catalog.JoinNotes(seq.Beginning),
		catalog.JoinNotes(seq.Ending),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sequence: %w", err)
	}

	return nil
}
