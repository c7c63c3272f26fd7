// Package repository defines the candidate-pool store interface and errors.
package repository

import (
	"context"

	"github.com/meritworks/ampgsti/internal/domain/model"
)

// Entry represents one ranked candidate row.
type Entry struct {
	Rank        int
	Handle      string
	BaseScore   float64
	TenureYears int
	Credentials int
}

// Store provides read/write access to the anonymized candidate pool.
// Ordering everywhere is base score DESC with ties broken by handle ASC.
type Store interface {
	// Insert adds a new candidate profile.
	// Returns ErrDuplicateHandle when the handle is already registered.
	Insert(ctx context.Context, p model.Profile) error

	// Get returns the profile for a handle.
	// Returns ErrNotFound for unknown handles.
	Get(ctx context.Context, handle string) (model.Profile, error)

	// All returns a snapshot of every profile in rank order. The returned
	// slice is owned by the caller.
	All(ctx context.Context) []model.Profile

	// TopN returns the top-N entries ordered by base score desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Rank returns the current rank and score for a handle.
	// Returns ErrNotFound for unknown handles.
	Rank(ctx context.Context, handle string) (Entry, error)

	// Count returns the number of candidates in the pool.
	Count(ctx context.Context) int

	// CredentialStats aggregates anonymized statistics over the pool.
	CredentialStats(ctx context.Context) model.CredentialStats
}
