package repository

import (
	"errors"
	"fmt"

	"github.com/jbweber/homelab/poke/internal/datastore"
)

// Common repository errors that can be checked with errors.Is()
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is matched by storage errors caused by a uniqueness constraint
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidReference is matched by storage errors caused by a foreign key constraint
	ErrInvalidReference = errors.New("invalid reference")
)

// NotFoundError reports an update against an identifier with no record
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d: %v", e.Entity, e.ID, ErrNotFound)
}

// Is makes errors.Is(err, ErrNotFound) hold
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps a failure reported by the database
type StorageError struct {
	Op     string // Repository operation, e.g. "create"
	Entity string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is classifies constraint failures so callers can match ErrDuplicate and
// ErrInvalidReference without knowing the driver's error type.
func (e *StorageError) Is(target error) bool {
	switch target {
	case ErrDuplicate:
		return datastore.IsUniqueViolation(e.Err)
	case ErrInvalidReference:
		return datastore.IsForeignKeyViolation(e.Err)
	}
	return false
}
