package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/platform/logger"
	"github.com/lexday/lexday-api/internal/store"
)

// PostgresWordStore implements the store.WordStore interface using a
// PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the
// WordStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger is used.
func NewPostgresWordStore(db store.DBTX, log *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: log.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore.
var _ store.WordStore = (*PostgresWordStore)(nil)

// Create implements store.WordStore.Create.
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO words (id, term, translation, notes, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		word.ID,
		word.Term,
		word.Translation,
		word.Notes,
		word.Archived,
		word.CreatedAt,
		word.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate word term",
				slog.String("word_id", word.ID.String()),
				slog.String("term", word.Term))
			return store.ErrWordExists
		}

		log.Error("failed to create word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	log.Debug("word created",
		slog.String("word_id", word.ID.String()),
		slog.String("term", word.Term))
	return nil
}

// GetByID implements store.WordStore.GetByID.
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, term, translation, notes, archived, created_at, updated_at
		FROM words
		WHERE id = $1
	`

	var word domain.Word
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&word.ID,
		&word.Term,
		&word.Translation,
		&word.Notes,
		&word.Archived,
		&word.CreatedAt,
		&word.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by ID",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, err
	}

	return &word, nil
}

// List implements store.WordStore.List.
func (s *PostgresWordStore) List(ctx context.Context, includeArchived bool) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, term, translation, notes, archived, created_at, updated_at
		FROM words
		WHERE $1 OR NOT archived
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, includeArchived)
	if err != nil {
		log.Error("failed to list words", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var words []*domain.Word
	for rows.Next() {
		var word domain.Word
		if err := rows.Scan(
			&word.ID,
			&word.Term,
			&word.Translation,
			&word.Notes,
			&word.Archived,
			&word.CreatedAt,
			&word.UpdatedAt,
		); err != nil {
			log.Error("failed to scan word row", slog.String("error", err.Error()))
			return nil, err
		}
		words = append(words, &word)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return words, nil
}

// Update implements store.WordStore.Update.
func (s *PostgresWordStore) Update(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE words
		SET term = $2, translation = $3, notes = $4, archived = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		word.ID,
		word.Term,
		word.Translation,
		word.Notes,
		word.Archived,
		word.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrWordExists
		}
		log.Error("failed to update word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrWordNotFound
	}

	return nil
}

// Upsert implements store.WordStore.Upsert.
func (s *PostgresWordStore) Upsert(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO words (id, term, translation, notes, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			term = EXCLUDED.term,
			translation = EXCLUDED.translation,
			notes = EXCLUDED.notes,
			archived = EXCLUDED.archived,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		word.ID,
		word.Term,
		word.Translation,
		word.Notes,
		word.Archived,
		word.CreatedAt,
		word.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrWordExists
		}
		log.Error("failed to upsert word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	return nil
}

// Delete implements store.WordStore.Delete. The word's schedule record goes
// with it through the schema's ON DELETE CASCADE constraint.
func (s *PostgresWordStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete word",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrWordNotFound
	}

	log.Debug("word deleted", slog.String("word_id", id.String()))
	return nil
}

// WithTx implements store.WordStore.WithTx.
func (s *PostgresWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &PostgresWordStore{
		db:     tx,
		logger: s.logger,
	}
}
