package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL (error code 23505)
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// MySQL (error code 1062)
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}

// IsExclusionErr reports whether err is a PostgreSQL exclusion constraint
// violation (error code 23P01). Range exclusion is the authoritative guard
// against concurrent overlapping slot inserts.
func IsExclusionErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "violates exclusion constraint")
}

// IsConflictErr reports whether err is any commit-time constraint collision
// that services should surface as a domain conflict.
func IsConflictErr(err error) bool {
	return IsDuplicateKeyErr(err) || IsExclusionErr(err)
}
