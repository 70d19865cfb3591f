// Package errors holds the sentinel errors and the store failure type shared by the catalog packages.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by a StoreError when a mutation targets an id that is not stored.
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicateID is wrapped by a StoreError when Create is given an id that is already taken.
	ErrDuplicateID = errors.New("entity id already exists")
)

// StoreError reports that a store could not complete an operation.
type StoreError struct {
	Op  string
	ID  int64
	Err error
}

// NewStoreError wraps err as a failure of op against id.
func NewStoreError(op string, id int64, err error) *StoreError {
	return &StoreError{Op: op, ID: id, Err: err}
}

func (e *StoreError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s of id %d failed: %v", e.Op, e.ID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a store failure caused by a missing id.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateID reports whether err is a store failure caused by an id that is already taken.
func IsDuplicateID(err error) bool {
	return errors.Is(err, ErrDuplicateID)
}
