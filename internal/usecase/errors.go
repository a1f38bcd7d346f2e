package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidState          = errors.New("invalid state")
	ErrResultUnavailable     = errors.New("result unavailable")
	ErrLeagueLocked          = errors.New("league locked")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
