package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/platform/logger"
	"github.com/lexday/lexday-api/internal/store"
)

// cycleStateRowID pins the cycle state to a single row. The table carries a
// CHECK (id = 1) constraint so a second row can never appear.
const cycleStateRowID = 1

// PostgresCycleStateStore implements the store.CycleStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCycleStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCycleStateStore creates a new PostgreSQL implementation of the
// CycleStateStore interface. If logger is nil, a default logger is used.
func NewPostgresCycleStateStore(db store.DBTX, log *slog.Logger) *PostgresCycleStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresCycleStateStore{
		db:     db,
		logger: log.With(slog.String("component", "cycle_state_store")),
	}
}

// Ensure PostgresCycleStateStore implements store.CycleStateStore.
var _ store.CycleStateStore = (*PostgresCycleStateStore)(nil)

// GetOrCreate implements store.CycleStateStore.GetOrCreate. The initial row
// is inserted lazily; ON CONFLICT DO NOTHING keeps concurrent first calls
// safe.
func (s *PostgresCycleStateStore) GetOrCreate(ctx context.Context) (*domain.CycleState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := s.get(ctx)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to get cycle state", slog.String("error", err.Error()))
		return nil, err
	}

	initial := domain.NewCycleState()
	insert := `
		INSERT INTO cycle_state (id, day, phase, last_opened_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.db.ExecContext(
		ctx,
		insert,
		cycleStateRowID,
		initial.Day,
		string(initial.Phase),
		initial.LastOpenedAt,
		initial.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create initial cycle state", slog.String("error", err.Error()))
		return nil, err
	}

	// Re-read so a concurrent creator's row wins over our candidate.
	state, err = s.get(ctx)
	if err != nil {
		log.Error("failed to read cycle state after create", slog.String("error", err.Error()))
		return nil, err
	}

	return state, nil
}

// Update implements store.CycleStateStore.Update.
func (s *PostgresCycleStateStore) Update(ctx context.Context, state *domain.CycleState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("cycle state validation failed during update", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cycle_state
		SET day = $1, phase = $2, last_opened_at = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		state.Day,
		string(state.Phase),
		state.LastOpenedAt,
		state.UpdatedAt,
		cycleStateRowID,
	)
	if err != nil {
		log.Error("failed to update cycle state", slog.String("error", err.Error()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected after cycle state update",
			slog.String("error", err.Error()))
		return err
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}

	return nil
}

// WithTx implements store.CycleStateStore.WithTx.
func (s *PostgresCycleStateStore) WithTx(tx *sql.Tx) store.CycleStateStore {
	return &PostgresCycleStateStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresCycleStateStore) get(ctx context.Context) (*domain.CycleState, error) {
	query := `
		SELECT day, phase, last_opened_at, updated_at
		FROM cycle_state
		WHERE id = $1
	`

	var (
		state domain.CycleState
		phase string
	)
	err := s.db.QueryRowContext(ctx, query, cycleStateRowID).Scan(
		&state.Day,
		&phase,
		&state.LastOpenedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	state.Phase = domain.Phase(phase)
	return &state, nil
}
