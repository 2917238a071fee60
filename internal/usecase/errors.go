package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrConflict              = crerr.New("conflict")
	ErrMatchLocked           = crerr.New("match is locked")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)
