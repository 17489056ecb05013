package sqldb

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// pq 23505 = unique_violation
const pqUniqueViolation = "23505"

// isUniqueViolation maps driver-specific duplicate-key failures so callers
// see the same conflict regardless of backend.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// violatesColumn reports whether a unique violation hit the named column.
// Postgres names the constraint (users_email_key), sqlite names the column
// in the message (users.email); both carry the column name as a substring.
func violatesColumn(err error, column string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return strings.Contains(pqErr.Constraint, column) ||
			strings.Contains(pqErr.Detail, column)
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return strings.Contains(sqErr.Error(), column)
	}
	return false
}
