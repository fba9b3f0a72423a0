package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsExclusionConflict reports whether err is a Postgres error raised by a
// concurrent write colliding with ours.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgUniqueViolation, pgExclusionViolation, pgSerializationFailure, pgDeadlockDetected:
		return true
	}
	return false
}
