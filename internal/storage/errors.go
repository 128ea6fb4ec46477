package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an update or delete targets a missing row.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownClient is returned when a history entry references a client
	// that does not exist.
	ErrUnknownClient = errors.New("client does not exist")
)

// StorageError is returned by every store operation that fails, whether the
// cause is a constraint violation or the storage engine itself.
type StorageError struct {
	// Op names the failed operation, e.g. "delete client".
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewError wraps err as a *StorageError for op. It returns nil if err is nil.
func NewError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
