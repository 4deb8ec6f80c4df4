package errors

import "errors"

var (
	ErrNoActiveEvent       = errors.New("no active event")
	ErrEventNotFound       = errors.New("event not found")
	ErrArtistNotFound      = errors.New("artist not found")
	ErrPerformanceNotFound = errors.New("performance not found")
	ErrInvalidState        = errors.New("operation not allowed in current lifecycle state")
	ErrInvalidInput        = errors.New("invalid lifecycle input")
)
