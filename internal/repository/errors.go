package repository

import "github.com/melodiq/melodiq/internal/repository/repoerr"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = repoerr.ErrNotFound

	// ErrDuplicate is returned when a unique constraint fails
	ErrDuplicate = repoerr.ErrDuplicate

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = repoerr.ErrForeignKeyViolation
)
