package goodwill

import "errors"

// Sentinel kinds for goodwill errors.
var (
	ErrInvalidInput = errors.New("invalid goodwill input")
)
