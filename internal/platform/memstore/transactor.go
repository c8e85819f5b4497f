package memstore

import (
	"context"
	"sync"

	"github.com/lexday/lexday-api/internal/store"
)

// rollbackable is implemented by the memstore stores so a failed transaction
// function can restore every store to its pre-transaction state.
type rollbackable interface {
	snapshotState() any
	restoreState(state any)
}

// Transactor is the in-memory stand-in for SQL transactions. It serializes
// callers behind a mutex and snapshots the registered stores before running
// the function, so a failure rolls all of them back and a multi-store write
// commits as one unit, matching the SQL backend.
type Transactor struct {
	mu     sync.Mutex
	stores []rollbackable
}

// NewTransactor creates an in-memory Transactor guarding the given stores.
// Stores left unregistered are not rolled back on failure.
func NewTransactor(stores ...rollbackable) *Transactor {
	return &Transactor{stores: stores}
}

// Ensure Transactor implements store.Transactor.
var _ store.Transactor = (*Transactor)(nil)

// InTransaction implements store.Transactor.InTransaction. The fn receives a
// nil *sql.Tx; in-memory stores return themselves from WithTx(nil).
func (t *Transactor) InTransaction(ctx context.Context, fn store.TxFn) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	states := make([]any, len(t.stores))
	for i, s := range t.stores {
		states[i] = s.snapshotState()
	}

	err := fn(ctx, nil)
	if err != nil {
		for i := len(t.stores) - 1; i >= 0; i-- {
			t.stores[i].restoreState(states[i])
		}
	}
	return err
}
