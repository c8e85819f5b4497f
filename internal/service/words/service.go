// Package words manages the vocabulary list: creation with schedule
// bootstrap, editing, archiving, and deletion.
package words

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
)

// CreateWordRequest carries the fields for a new vocabulary entry. When
// Enrich is set and a generator is configured, usage notes are fetched
// before the word is stored; enrichment failure never fails the creation.
type CreateWordRequest struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Notes       string `json:"notes"`
	Enrich      bool   `json:"enrich"`
}

// UpdateWordRequest carries edits for an existing entry. Scheduling state is
// not touchable through here.
type UpdateWordRequest struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Notes       string `json:"notes"`
	Archived    bool   `json:"archived"`
}

// WordWithSchedule pairs a word with its schedule record.
type WordWithSchedule struct {
	Word     *domain.Word           `json:"word"`
	Schedule *domain.ScheduleRecord `json:"schedule"`
}

// WordService manages vocabulary entries. Creating a word also creates its
// schedule record, in the same transaction, introduced on the current study
// day; deleting a word removes the record with it.
type WordService interface {
	// CreateWord stores a new word together with its initial schedule
	// record. Returns ErrDuplicateTerm when the term already exists.
	CreateWord(ctx context.Context, req CreateWordRequest) (*WordWithSchedule, error)

	// GetWord returns one word with its schedule record.
	// Returns ErrWordNotFound if the word does not exist.
	GetWord(ctx context.Context, id uuid.UUID) (*WordWithSchedule, error)

	// ListWords returns all words, optionally including archived ones.
	ListWords(ctx context.Context, includeArchived bool) ([]*domain.Word, error)

	// UpdateWord edits a word's content or archived flag. Archiving removes
	// the word from queue eligibility but its schedule record persists.
	// Returns ErrWordNotFound if the word does not exist.
	UpdateWord(ctx context.Context, id uuid.UUID, req UpdateWordRequest) (*domain.Word, error)

	// DeleteWord removes a word and its schedule record.
	// Returns ErrWordNotFound if the word does not exist.
	DeleteWord(ctx context.Context, id uuid.UUID) error
}

// Common error types for WordService.
var (
	// ErrWordNotFound indicates the word does not exist.
	ErrWordNotFound = errors.New("word not found")

	// ErrDuplicateTerm indicates another word already uses this term.
	ErrDuplicateTerm = errors.New("a word with this term already exists")
)

// ServiceError wraps errors from the word service with additional context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_word")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
