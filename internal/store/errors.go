package store

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on a username collision.
	ErrConflict = errors.New("username already taken")
)
