// Package store holds the error vocabulary shared by every beneficiary store
// backend.
package store

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when an insert would duplicate an existing CNIC.
	ErrConflict = errors.New("cnic already exists")
	// ErrNotFound is returned when no record carries the requested id.
	ErrNotFound = errors.New("beneficiary not found")
)

// Error is a generic store failure: network, query or decoding trouble.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "store " + e.Op + " failed"
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns nil for a nil err and leaves ErrConflict and ErrNotFound
// recognisable through errors.Is.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return err
	}
	return &Error{Op: op, Err: err}
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
