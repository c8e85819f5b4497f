package memstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/store"
)

// CycleStateStore is an in-memory implementation of store.CycleStateStore.
type CycleStateStore struct {
	mu    sync.Mutex
	state *domain.CycleState
}

// NewCycleStateStore creates an in-memory cycle state store with no state
// yet; the first GetOrCreate materializes day 0, morning.
func NewCycleStateStore() *CycleStateStore {
	return &CycleStateStore{}
}

// Ensure CycleStateStore implements store.CycleStateStore.
var _ store.CycleStateStore = (*CycleStateStore)(nil)

// GetOrCreate implements store.CycleStateStore.GetOrCreate.
func (s *CycleStateStore) GetOrCreate(ctx context.Context) (*domain.CycleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		s.state = domain.NewCycleState()
	}

	return s.state.Clone(), nil
}

// Update implements store.CycleStateStore.Update.
func (s *CycleStateStore) Update(ctx context.Context, state *domain.CycleState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return store.ErrNotFound
	}

	s.state = state.Clone()
	return nil
}

// WithTx implements store.CycleStateStore.WithTx. The in-memory store has no
// transaction support; the Transactor snapshots and restores its state
// around failures instead.
func (s *CycleStateStore) WithTx(tx *sql.Tx) store.CycleStateStore {
	return s
}

func (s *CycleStateStore) snapshotState() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return (*domain.CycleState)(nil)
	}
	return s.state.Clone()
}

func (s *CycleStateStore) restoreState(state any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.(*domain.CycleState)
}
