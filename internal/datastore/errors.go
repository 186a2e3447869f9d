package datastore

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY constraint
func IsUniqueViolation(err error) bool {
	return constraintFailed(err, "UNIQUE constraint failed",
		sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
}

// IsForeignKeyViolation reports whether err came from a FOREIGN KEY constraint
func IsForeignKeyViolation(err error) bool {
	return constraintFailed(err, "FOREIGN KEY constraint failed", sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY)
}

func constraintFailed(err error, message string, codes ...int) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	for _, code := range codes {
		if se.Code() == code {
			return true
		}
	}
	// Without extended result codes only the primary code is reported
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), message)
}
