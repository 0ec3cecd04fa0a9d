// Package store persists analysis results. Two implementations exist: an
// in-memory store with TTL eviction for ephemeral CLI runs, and a SQLite
// store for the long-running server.
package store

import (
	"context"
	"errors"

	"github.com/pentrail/pentrail/internal/model"
)

// ErrNotFound is returned when no analysis exists for the given ID.
var ErrNotFound = errors.New("analysis not found")

// Store is the minimal cross-package contract for analysis persistence.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores an analysis keyed by its ID. Saving an existing ID
	// overwrites the previous record.
	Save(ctx context.Context, a *model.Analysis) error

	// Get returns the analysis with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Analysis, error)

	// List returns recent analyses newest-first, at most limit entries.
	// limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*model.Analysis, error)

	// Delete removes the analysis with the given ID, or ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases the store's resources.
	Close() error
}
