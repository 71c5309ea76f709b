package domain

import "errors"

// Error classes surfaced by the core. Callers wrap them with context and
// test with errors.Is.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")
	ErrConflict      = errors.New("conflict")
)
