package services

import "errors"

// Service-level errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("insufficient privileges")
	ErrInvalidState = errors.New("operation not allowed in current state")
)
