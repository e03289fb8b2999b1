package entity

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("record was modified by another request, refresh it and retry")
	ErrAlreadyDeleted = errors.New("client is already deleted")
	ErrNotDeleted     = errors.New("client is not deleted")
	ErrValidation     = errors.New("validation failed")
	ErrDatabase       = errors.New("database error")
)

const (
	ErrMsgRequired       = "is required"
	ErrMsgInvalidEmail   = "must be a valid email address"
	ErrMsgNotPositive    = "must be greater than 0"
	ErrMsgInvalidStatus  = "must be one of planning, active, on_hold, completed, cancelled"
	ErrMsgEndBeforeStart = "must not be before startDate"
	ErrMsgClientNotFound = "client does not exist"
	ErrMsgNoFields       = "no fields to update"
	ErrMsgInternal       = "an unexpected database error occurred"
)

// ValidationError carries a message per rejected input field (json field names).
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add keeps the first message reported for a field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}

	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// OrNil returns nil for an empty error so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}

	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))

	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, fmt.Sprintf("%s %s", field, e.Fields[field]))
	}

	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DatabaseError hides storage details from callers; the cause stays reachable through Unwrap for logs.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDatabase, e.Op)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func (e *DatabaseError) Is(target error) bool {
	return target == ErrDatabase
}

type ErrorKind string

const (
	KindValidation   ErrorKind = "ValidationError"
	KindNotFound     ErrorKind = "NotFoundError"
	KindConflict     ErrorKind = "ConflictError"
	KindInvalidState ErrorKind = "InvalidStateError"
	KindDatabase     ErrorKind = "DatabaseError"
)

// KindOf classifies err. Anything that is not a known business outcome is a database error.
func KindOf(err error) ErrorKind {
	var validationErr *ValidationError

	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrAlreadyDeleted), errors.Is(err, ErrNotDeleted):
		return KindInvalidState
	default:
		return KindDatabase
	}
}

// IsBusiness reports whether err is an expected outcome rather than an infrastructure failure.
func IsBusiness(err error) bool {
	return err != nil && KindOf(err) != KindDatabase
}
