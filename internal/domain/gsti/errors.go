package gsti

import "errors"

// Sentinel kinds for trust-index errors.
var (
	ErrInvalidInput = errors.New("invalid market input")
)
