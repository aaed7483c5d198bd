package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Every error returned by a service either matches one of
// them under errors.Is or is an internal failure.
var (
	ErrValidation      = errors.New("validation failed")
	ErrAuthentication  = errors.New("invalid credentials")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("permission denied")
	ErrNotFound        = errors.New("not found")
	ErrInvalidToken    = errors.New("invalid token")
)

var (
	ErrUserNotFound         = fmt.Errorf("%w: user not found", ErrAuthentication)
	ErrUserPasswordMismatch = fmt.Errorf("%w: user password mismatch", ErrAuthentication)
	ErrUserInactive         = fmt.Errorf("%w: user is inactive", ErrAuthentication)

	ErrTokenMissing = fmt.Errorf("%w: token missing", ErrUnauthenticated)

	ErrTokenType    = fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	ErrTokenRevoked = fmt.Errorf("%w: token revoked", ErrInvalidToken)

	ErrTaskNotFound    = fmt.Errorf("task %w", ErrNotFound)
	ErrProfileNotFound = fmt.Errorf("profile %w", ErrNotFound)
)

// ValidationError maps request fields to the problems found in them.
type ValidationError struct {
	Fields map[string][]string
}

func newValidationError(field, message string) *ValidationError {
	e := &ValidationError{}
	e.Add(field, message)
	return e
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	for i, field := range fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields[field], " "))
	}
	return b.String()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
