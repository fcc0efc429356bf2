package storage

import (
	"errors"
	"strings"
)

// Lifecycle and lookup failures shared by every entity. Callers wrap them with
// context and match with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInactive           = errors.New("record is inactive")
	ErrAlreadyDeleted     = errors.New("already deleted")
	ErrAlreadyActive      = errors.New("already active")
	ErrDuplicate          = errors.New("already exists")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}
