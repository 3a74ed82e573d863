package repository

import (
	"database/sql"
	"errors"

	"cultivation-service/internal/utils"

	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

const (
	pqUniqueViolation     pq.ErrorCode = "23505"
	pqForeignKeyViolation pq.ErrorCode = "23503"
)

// notFound folds the driver's "no rows" signals into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, utils.ErrNoRowsAffected) {
		return ErrNotFound
	}
	return err
}

// mapWriteError translates constraint violations into repository errors.
// A dangling foreign key means the parent row is gone.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrConflict
		case pqForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}
