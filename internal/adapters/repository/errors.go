package repository

import "errors"

// Sentinel kinds for candidate-pool errors.
var (
	ErrNotFound        = errors.New("candidate not found")
	ErrDuplicateHandle = errors.New("handle already registered")
	ErrInvalidLimit    = errors.New("invalid top-n limit")
)
