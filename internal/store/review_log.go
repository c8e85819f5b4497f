package store

import (
	"context"
	"database/sql"

	"github.com/lexday/lexday-api/internal/domain"
)

// ReviewLogStore defines the interface for the append-only review audit
// log. Entries are immutable once appended; there is no update or delete.
type ReviewLogStore interface {
	// Append adds one audit entry. The append must never be skipped, even
	// when the review left the step unchanged.
	Append(ctx context.Context, entry *domain.ReviewLogEntry) error

	// List retrieves audit entries in append order. A non-nil day filters
	// to entries recorded on that study day.
	List(ctx context.Context, day *int) ([]domain.ReviewLogEntry, error)

	// WithTx returns a new ReviewLogStore backed by the provided
	// transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
