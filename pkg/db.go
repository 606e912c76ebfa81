package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation           = "23505"
	pgCheckViolation            = "23514"
	pgInvalidTextRepresentation = "22P02"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolationError checks if the error is a unique violation error
func IsUniqueViolationError(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// IsCheckViolationError reports a violated CHECK constraint, e.g. a negative amount
func IsCheckViolationError(err error) bool {
	return pgErrorCode(err) == pgCheckViolation
}

// IsInvalidTextRepresentationError reports malformed input such as a bad uuid
func IsInvalidTextRepresentationError(err error) bool {
	return pgErrorCode(err) == pgInvalidTextRepresentation
}
