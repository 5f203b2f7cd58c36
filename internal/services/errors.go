// File: internal/services/errors.go
package services

import "errors"

// Service-level errors. Handlers map these onto HTTP statuses with
// errors.Is; anything else becomes a 500 with a generic message.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)
