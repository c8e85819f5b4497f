package memstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/store"
)

// ScheduleStore is an in-memory implementation of store.ScheduleStore.
// Archived-word filtering for ListActive requires the companion WordStore.
type ScheduleStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*domain.ScheduleRecord
	words   *WordStore
}

// NewScheduleStore creates an empty in-memory schedule store. The word store
// is consulted by ListActive to skip archived words; it may be nil, in which
// case ListActive behaves like ListAll.
func NewScheduleStore(words *WordStore) *ScheduleStore {
	return &ScheduleStore{
		records: make(map[uuid.UUID]*domain.ScheduleRecord),
		words:   words,
	}
}

// Ensure ScheduleStore implements store.ScheduleStore.
var _ store.ScheduleStore = (*ScheduleStore)(nil)

// GetByWordID implements store.ScheduleStore.GetByWordID.
func (s *ScheduleStore) GetByWordID(
	ctx context.Context,
	wordID uuid.UUID,
) (*domain.ScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[wordID]
	if !exists {
		return nil, store.ErrScheduleNotFound
	}

	return record.Clone(), nil
}

// GetByWordIDForUpdate implements store.ScheduleStore.GetByWordIDForUpdate.
// There is no row locking in memory; the method exists so services can use
// one code path for both backends.
func (s *ScheduleStore) GetByWordIDForUpdate(
	ctx context.Context,
	wordID uuid.UUID,
) (*domain.ScheduleRecord, error) {
	return s.GetByWordID(ctx, wordID)
}

// ListActive implements store.ScheduleStore.ListActive.
func (s *ScheduleStore) ListActive(ctx context.Context) ([]domain.ScheduleRecord, error) {
	return s.list(ctx, false)
}

// ListAll implements store.ScheduleStore.ListAll.
func (s *ScheduleStore) ListAll(ctx context.Context) ([]domain.ScheduleRecord, error) {
	return s.list(ctx, true)
}

func (s *ScheduleStore) list(ctx context.Context, includeArchived bool) ([]domain.ScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.ScheduleRecord, 0, len(s.records))
	for wordID, record := range s.records {
		if !includeArchived && s.isArchived(ctx, wordID) {
			continue
		}
		records = append(records, *record.Clone())
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].WordID.String() < records[j].WordID.String()
	})

	return records, nil
}

func (s *ScheduleStore) isArchived(ctx context.Context, wordID uuid.UUID) bool {
	if s.words == nil {
		return false
	}
	word, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return false
	}
	return word.Archived
}

// Upsert implements store.ScheduleStore.Upsert.
func (s *ScheduleStore) Upsert(ctx context.Context, record *domain.ScheduleRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.WordID] = record.Clone()
	return nil
}

// Delete removes the record for a word. The persistent backend relies on
// ON DELETE CASCADE for this; in memory the word service calls it directly.
func (s *ScheduleStore) Delete(ctx context.Context, wordID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, wordID)
	return nil
}

// WithTx implements store.ScheduleStore.WithTx. The in-memory store has no
// transaction support; the Transactor snapshots and restores its state
// around failures instead.
func (s *ScheduleStore) WithTx(tx *sql.Tx) store.ScheduleStore {
	return s
}

func (s *ScheduleStore) snapshotState() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make(map[uuid.UUID]*domain.ScheduleRecord, len(s.records))
	for id, record := range s.records {
		records[id] = record.Clone()
	}
	return records
}

func (s *ScheduleStore) restoreState(state any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = state.(map[uuid.UUID]*domain.ScheduleRecord)
}
