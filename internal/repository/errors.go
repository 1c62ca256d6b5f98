package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors shared by all repositories. Callers check them with
// errors.Is and decide whether absence is worth a fault.
var (
	// ErrNotFound is returned when no row matches the lookup (including
	// owner-scoped lookups where the row exists but belongs to someone else).
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert or update violates a unique
	// constraint (email, phone, tag name, quote text, ...).
	ErrDuplicate = errors.New("record already exists")
)

// uniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
