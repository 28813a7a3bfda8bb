package domain

import "errors"

// Sentinel errors mapped to HTTP status codes at the handler boundary.
// Use with errors.Is().
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
