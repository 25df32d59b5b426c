package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup or delete matches no row.
var ErrNotFound = errors.New("record not found")

// PersistenceError wraps any storage failure: constraint violations,
// connection problems and driver errors alike.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// wrapError maps GORM errors onto ErrNotFound or *PersistenceError.
func wrapError(err error, operation, details string) error {
	if err == nil {
		return nil
	}

	op := operation
	if details != "" {
		op = fmt.Sprintf("%s (%s)", operation, details)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return &PersistenceError{Op: op, Err: err}
}
