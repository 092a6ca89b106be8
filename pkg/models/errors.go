package models

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to check them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidVerse = fmt.Errorf("%w: invalid verse reference", ErrValidation)
	ErrInvalidGrade = fmt.Errorf("%w: invalid grade", ErrValidation)
	ErrNotFound     = errors.New("item not found")
	ErrDuplicate    = errors.New("item already exists")
	ErrConflict     = errors.New("item was modified concurrently")
)

// StorageError reports a failure of the underlying record store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
