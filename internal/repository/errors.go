// Package repository holds the errors shared by the storage backends.
package repository

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrEmailTaken     = errors.New("email already taken")
	ErrAlreadyRevoked = errors.New("token already revoked")
)
