// Package ingestion turns CSV and JSON exports into candidate records.
package ingestion

import (
	"errors"
	"fmt"
)

// Row-level failures. A row failing with one of these is skipped; its siblings are not.
var (
	ErrMalformedRow         = errors.New("malformed row")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidEmail         = errors.New("invalid email")
)

// File-level failures. These abort the whole import.
var (
	ErrInvalidFormat     = errors.New("invalid import format")
	ErrEmptyOrHeaderOnly = errors.New("file has no data rows")
)

// RowError reports why a single record was rejected. CSV rows carry their
// source Line; JSON records carry their 1-based Record position instead.
type RowError struct {
	Line   int
	Record int
	Reason error
	Detail string
}

func (e *RowError) Error() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.Line == 0 && e.Record > 0 {
		where = fmt.Sprintf("record %d", e.Record)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", where, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s: %v", where, e.Reason)
}

func (e *RowError) Unwrap() error {
	return e.Reason
}

// ImportError represents a failure that aborts a whole import.
type ImportError struct {
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("import error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("import error: %s", e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}
