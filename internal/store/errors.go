// Package store holds the candidate collection and persists it through a db.Backend.
package store

import (
	"errors"
	"fmt"

	"github.com/jonathan/candidate-tracker/internal/types"
)

// ErrNotFound is returned when no candidate has the requested id.
var ErrNotFound = errors.New("candidate not found")

// ErrEmailAlreadyExists is returned by Add when the email is already taken.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("a candidate with email %s already exists", e.Email)
}

func (e *ErrEmailAlreadyExists) Unwrap() error {
	return types.ErrDuplicateEmail
}

// PersistError represents a failure to load or flush the collection.
type PersistError struct {
	Message string
	Cause   error
}

func (e *PersistError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("persist error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("persist error: %s", e.Message)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}
