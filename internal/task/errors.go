package task

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid task")
	ErrNotFound   = errors.New("task not found")
)

// LoadError reports persisted data that could not be decoded. The store
// falls back to an empty list when it is returned.
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Key, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PersistenceError reports a failed write. In-memory state is unaffected.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save %q: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err only signals that a change was not
// written; the operation itself succeeded.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
