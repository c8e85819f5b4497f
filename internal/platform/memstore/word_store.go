package memstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/store"
)

// WordStore is an in-memory implementation of store.WordStore.
type WordStore struct {
	mu    sync.RWMutex
	words map[uuid.UUID]*domain.Word
}

// NewWordStore creates an empty in-memory word store.
func NewWordStore() *WordStore {
	return &WordStore{
		words: make(map[uuid.UUID]*domain.Word),
	}
}

// Ensure WordStore implements store.WordStore.
var _ store.WordStore = (*WordStore)(nil)

// Create implements store.WordStore.Create.
func (s *WordStore) Create(ctx context.Context, word *domain.Word) error {
	if err := word.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.words[word.ID]; exists {
		return store.ErrWordExists
	}
	term := normalizeTerm(word.Term)
	for _, existing := range s.words {
		if normalizeTerm(existing.Term) == term {
			return store.ErrWordExists
		}
	}

	s.words[word.ID] = word.Clone()
	return nil
}

// GetByID implements store.WordStore.GetByID.
func (s *WordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	word, exists := s.words[id]
	if !exists {
		return nil, store.ErrWordNotFound
	}

	return word.Clone(), nil
}

// List implements store.WordStore.List. Words come back in creation order,
// matching the persistent implementation's ORDER BY created_at.
func (s *WordStore) List(ctx context.Context, includeArchived bool) ([]*domain.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := make([]*domain.Word, 0, len(s.words))
	for _, word := range s.words {
		if !includeArchived && word.Archived {
			continue
		}
		words = append(words, word.Clone())
	}

	sort.Slice(words, func(i, j int) bool {
		if !words[i].CreatedAt.Equal(words[j].CreatedAt) {
			return words[i].CreatedAt.Before(words[j].CreatedAt)
		}
		return words[i].ID.String() < words[j].ID.String()
	})

	return words, nil
}

// Update implements store.WordStore.Update.
func (s *WordStore) Update(ctx context.Context, word *domain.Word) error {
	if err := word.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.words[word.ID]; !exists {
		return store.ErrWordNotFound
	}

	term := normalizeTerm(word.Term)
	for id, existing := range s.words {
		if id != word.ID && normalizeTerm(existing.Term) == term {
			return store.ErrWordExists
		}
	}

	s.words[word.ID] = word.Clone()
	return nil
}

// Upsert implements store.WordStore.Upsert.
func (s *WordStore) Upsert(ctx context.Context, word *domain.Word) error {
	if err := word.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	term := normalizeTerm(word.Term)
	for id, existing := range s.words {
		if id != word.ID && normalizeTerm(existing.Term) == term {
			return store.ErrWordExists
		}
	}

	s.words[word.ID] = word.Clone()
	return nil
}

// Delete implements store.WordStore.Delete. Schedule cascade is handled by
// the service layer; the in-memory stores are independent maps.
func (s *WordStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.words[id]; !exists {
		return store.ErrWordNotFound
	}

	delete(s.words, id)
	return nil
}

// WithTx implements store.WordStore.WithTx. The in-memory store has no
// transaction support; the Transactor snapshots and restores its state
// around failures instead.
func (s *WordStore) WithTx(tx *sql.Tx) store.WordStore {
	return s
}

func (s *WordStore) snapshotState() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := make(map[uuid.UUID]*domain.Word, len(s.words))
	for id, word := range s.words {
		words[id] = word.Clone()
	}
	return words
}

func (s *WordStore) restoreState(state any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = state.(map[uuid.UUID]*domain.Word)
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
