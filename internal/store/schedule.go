package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
)

// ScheduleStore defines the interface for schedule record persistence.
// Records are keyed by word ID; there is at most one record per word.
type ScheduleStore interface {
	// GetByWordID retrieves the schedule record for a word.
	// Returns ErrScheduleNotFound if no record exists.
	// This method provides no row locking; use GetByWordIDForUpdate inside
	// a transaction when the record is about to be replaced.
	GetByWordID(ctx context.Context, wordID uuid.UUID) (*domain.ScheduleRecord, error)

	// GetByWordIDForUpdate retrieves the schedule record with a row-level
	// lock (SELECT ... FOR UPDATE). Must be called within a transaction.
	// Returns ErrScheduleNotFound if no record exists.
	GetByWordIDForUpdate(ctx context.Context, wordID uuid.UUID) (*domain.ScheduleRecord, error)

	// ListActive retrieves the schedule records of all non-archived words.
	// This is the snapshot the queue builders rank.
	ListActive(ctx context.Context) ([]domain.ScheduleRecord, error)

	// ListAll retrieves every schedule record, archived words included.
	// This is the snapshot the sync resolver merges.
	ListAll(ctx context.Context) ([]domain.ScheduleRecord, error)

	// Upsert creates the record for a word or replaces an existing one.
	// Replacing the stored value is the only mutation path; records are
	// never edited in place.
	Upsert(ctx context.Context, record *domain.ScheduleRecord) error

	// Delete removes the record for a word. Deleting a missing record is
	// not an error; the persistent backend's ON DELETE CASCADE may have
	// removed it already.
	Delete(ctx context.Context, wordID uuid.UUID) error

	// WithTx returns a new ScheduleStore backed by the provided transaction.
	WithTx(tx *sql.Tx) ScheduleStore
}
