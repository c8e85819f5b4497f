package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/platform/logger"
	"github.com/lexday/lexday-api/internal/store"
)

// PostgresReviewLogStore implements the store.ReviewLogStore interface using
// a PostgreSQL database as the storage backend.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the
// ReviewLogStore interface. If logger is nil, a default logger is used.
func NewPostgresReviewLogStore(db store.DBTX, log *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: log.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore.
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append.
func (s *PostgresReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLogEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("review log entry validation failed",
			slog.String("error", err.Error()),
			slog.String("word_id", entry.WordID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO review_log (id, word_id, day, phase, outcome, step_before, step_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.WordID,
		entry.Day,
		string(entry.Phase),
		string(entry.Outcome),
		entry.StepBefore,
		entry.StepAfter,
		entry.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("review log entry references a missing word",
				slog.String("word_id", entry.WordID.String()))
			return fmt.Errorf("%w: word %s not found", store.ErrInvalidEntity, entry.WordID)
		}

		log.Error("failed to append review log entry",
			slog.String("error", err.Error()),
			slog.String("word_id", entry.WordID.String()))
		return err
	}

	return nil
}

// List implements store.ReviewLogStore.List.
func (s *PostgresReviewLogStore) List(ctx context.Context, day *int) ([]domain.ReviewLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, word_id, day, phase, outcome, step_before, step_after, created_at
		FROM review_log
		WHERE $1::int IS NULL OR day = $1
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, nullableInt(day))
	if err != nil {
		log.Error("failed to list review log entries", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.ReviewLogEntry
	for rows.Next() {
		var (
			entry   domain.ReviewLogEntry
			phase   string
			outcome string
		)
		err := rows.Scan(
			&entry.ID,
			&entry.WordID,
			&entry.Day,
			&phase,
			&outcome,
			&entry.StepBefore,
			&entry.StepAfter,
			&entry.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan review log row", slog.String("error", err.Error()))
			return nil, err
		}
		entry.Phase = domain.Phase(phase)
		entry.Outcome = domain.ReviewOutcome(outcome)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// WithTx implements store.ReviewLogStore.WithTx.
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}
