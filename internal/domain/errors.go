package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrReferenceNotFound = errors.New("referenced entity not found")
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrAlreadyExists is a Conflict raised when a relation pair is already present.
	ErrAlreadyExists = fmt.Errorf("already exists: %w", ErrConflict)

	ErrLessonNotFound   = fmt.Errorf("lesson %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrTopicNotFound    = fmt.Errorf("topic %w", ErrNotFound)
	ErrReplyNotFound    = fmt.Errorf("reply %w", ErrNotFound)
	ErrFavoriteNotFound = fmt.Errorf("favorite %w", ErrNotFound)

	ErrTitleTaken        = fmt.Errorf("lesson title is already used: %w", ErrConflict)
	ErrEmailTaken        = fmt.Errorf("email is already used: %w", ErrConflict)
	ErrUsernameTaken     = fmt.Errorf("username is already used: %w", ErrConflict)
	ErrCategoryNameTaken = fmt.Errorf("category name is already used: %w", ErrConflict)

	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
)

// ValidationError carries field-level messages keyed by the JSON field path.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ReferenceError reports a foreign id in a payload that points at nothing.
type ReferenceError struct {
	Field string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrReferenceNotFound, e.Field)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrReferenceNotFound
}
