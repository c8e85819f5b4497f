package memstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/store"
)

// ReviewLogStore is an in-memory implementation of store.ReviewLogStore.
type ReviewLogStore struct {
	mu      sync.RWMutex
	entries []domain.ReviewLogEntry
}

// NewReviewLogStore creates an empty in-memory review log store.
func NewReviewLogStore() *ReviewLogStore {
	return &ReviewLogStore{}
}

// Ensure ReviewLogStore implements store.ReviewLogStore.
var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append.
func (s *ReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLogEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, *entry)
	return nil
}

// List implements store.ReviewLogStore.List.
func (s *ReviewLogStore) List(ctx context.Context, day *int) ([]domain.ReviewLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.ReviewLogEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if day != nil && entry.Day != *day {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// WithTx implements store.ReviewLogStore.WithTx. The in-memory store has no
// transaction support; the Transactor snapshots and restores its state
// around failures instead.
func (s *ReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return s
}

func (s *ReviewLogStore) snapshotState() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.ReviewLogEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

func (s *ReviewLogStore) restoreState(state any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = state.([]domain.ReviewLogEntry)
}
