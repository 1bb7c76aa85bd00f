package db

import "errors"

var (
	// ErrConstraintUnique is returned when an insert violates a unique
	// constraint (duplicate email, duplicate provider account link).
	ErrConstraintUnique = errors.New("unique constraint violation")
	// ErrNotFound is returned by updates targeting a record that does not
	// exist.
	ErrNotFound = errors.New("record not found")
)
