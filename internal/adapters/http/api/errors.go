package api

import (
	"errors"
	"fmt"

	"github.com/meritworks/ampgsti/internal/adapters/repository"
	"github.com/meritworks/ampgsti/internal/domain/goodwill"
	"github.com/meritworks/ampgsti/internal/domain/gsti"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// Domain sentinels that map to a 400 response.
var invalidInputKinds = []error{
	goodwill.ErrInvalidInput,
	gsti.ErrInvalidInput,
	repository.ErrInvalidLimit,
	ErrBadRequest,
}

// NewKind tags a sentinel with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags a sentinel with the operation and the underlying cause.
func WrapKind(op string, kind error, err error) error {
	return fmt.Errorf("%s: %w: %v", op, kind, err)
}

// Wrap tags an error with the operation that raised it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
