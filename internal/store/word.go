package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
)

// WordStore defines the interface for word persistence.
type WordStore interface {
	// Create saves a new word. Returns ErrWordExists if a word with the
	// same term already exists, or validation errors from the domain Word.
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// List retrieves all words. When includeArchived is false, archived
	// words are filtered out.
	List(ctx context.Context, includeArchived bool) ([]*domain.Word, error)

	// Update modifies an existing word.
	// Returns ErrWordNotFound if the word does not exist.
	Update(ctx context.Context, word *domain.Word) error

	// Upsert inserts the word or replaces an existing word with the same
	// ID. Used by the sync write-back, where merged words may or may not
	// exist locally yet. Returns ErrWordExists if a different word already
	// holds the same term.
	Upsert(ctx context.Context, word *domain.Word) error

	// Delete removes a word by its ID. The word's schedule record is
	// removed with it (ON DELETE CASCADE in the persistent implementation).
	// Returns ErrWordNotFound if the word does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new WordStore backed by the provided transaction.
	// The transaction is created and managed by the caller, typically via
	// RunInTransaction.
	WithTx(tx *sql.Tx) WordStore
}
