package store

import (
	"context"
	"database/sql"

	"github.com/lexday/lexday-api/internal/domain"
)

// CycleStateStore defines the interface for the cycle-state singleton.
// There is exactly one row; it is created lazily on first access and never
// deleted.
type CycleStateStore interface {
	// GetOrCreate returns the current cycle state, creating the initial
	// state (day 0, morning) if none exists yet.
	GetOrCreate(ctx context.Context) (*domain.CycleState, error)

	// Update replaces the stored cycle state.
	Update(ctx context.Context, state *domain.CycleState) error

	// WithTx returns a new CycleStateStore backed by the provided
	// transaction.
	WithTx(tx *sql.Tx) CycleStateStore
}
