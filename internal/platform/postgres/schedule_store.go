package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/platform/logger"
	"github.com/lexday/lexday-api/internal/store"
)

const scheduleColumns = `
	word_id, step, introduced_day, first_test_day, first_test_phase,
	next_review_day, last_reviewed_day, last_reviewed_phase, last_outcome,
	recovery_due_day, last_again_at, created_at, updated_at`

// PostgresScheduleStore implements the store.ScheduleStore interface using
// a PostgreSQL database as the storage backend.
type PostgresScheduleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScheduleStore creates a new PostgreSQL implementation of the
// ScheduleStore interface. If logger is nil, a default logger is used.
func NewPostgresScheduleStore(db store.DBTX, log *slog.Logger) *PostgresScheduleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresScheduleStore{
		db:     db,
		logger: log.With(slog.String("component", "schedule_store")),
	}
}

// Ensure PostgresScheduleStore implements store.ScheduleStore.
var _ store.ScheduleStore = (*PostgresScheduleStore)(nil)

// GetByWordID implements store.ScheduleStore.GetByWordID.
func (s *PostgresScheduleStore) GetByWordID(
	ctx context.Context,
	wordID uuid.UUID,
) (*domain.ScheduleRecord, error) {
	query := `SELECT` + scheduleColumns + `
		FROM schedule_records
		WHERE word_id = $1`
	return s.getOne(ctx, query, wordID)
}

// GetByWordIDForUpdate implements store.ScheduleStore.GetByWordIDForUpdate.
// It takes a row-level lock and therefore must run inside a transaction.
func (s *PostgresScheduleStore) GetByWordIDForUpdate(
	ctx context.Context,
	wordID uuid.UUID,
) (*domain.ScheduleRecord, error) {
	query := `SELECT` + scheduleColumns + `
		FROM schedule_records
		WHERE word_id = $1
		FOR UPDATE`
	return s.getOne(ctx, query, wordID)
}

func (s *PostgresScheduleStore) getOne(
	ctx context.Context,
	query string,
	wordID uuid.UUID,
) (*domain.ScheduleRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	record, err := scanScheduleRecord(s.db.QueryRowContext(ctx, query, wordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrScheduleNotFound
		}
		log.Error("failed to get schedule record",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return nil, err
	}

	return record, nil
}

// ListActive implements store.ScheduleStore.ListActive.
func (s *PostgresScheduleStore) ListActive(ctx context.Context) ([]domain.ScheduleRecord, error) {
	query := `SELECT` + qualifyScheduleColumns("r") + `
		FROM schedule_records r
		JOIN words w ON w.id = r.word_id
		WHERE NOT w.archived
		ORDER BY r.word_id`
	return s.list(ctx, query)
}

// ListAll implements store.ScheduleStore.ListAll.
func (s *PostgresScheduleStore) ListAll(ctx context.Context) ([]domain.ScheduleRecord, error) {
	query := `SELECT` + scheduleColumns + `
		FROM schedule_records
		ORDER BY word_id`
	return s.list(ctx, query)
}

func (s *PostgresScheduleStore) list(ctx context.Context, query string) ([]domain.ScheduleRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list schedule records", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []domain.ScheduleRecord
	for rows.Next() {
		record, err := scanScheduleRecord(rows)
		if err != nil {
			log.Error("failed to scan schedule record row", slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Upsert implements store.ScheduleStore.Upsert.
func (s *PostgresScheduleStore) Upsert(ctx context.Context, record *domain.ScheduleRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("schedule record validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("word_id", record.WordID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO schedule_records (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (word_id) DO UPDATE SET
			step = EXCLUDED.step,
			introduced_day = EXCLUDED.introduced_day,
			first_test_day = EXCLUDED.first_test_day,
			first_test_phase = EXCLUDED.first_test_phase,
			next_review_day = EXCLUDED.next_review_day,
			last_reviewed_day = EXCLUDED.last_reviewed_day,
			last_reviewed_phase = EXCLUDED.last_reviewed_phase,
			last_outcome = EXCLUDED.last_outcome,
			recovery_due_day = EXCLUDED.recovery_due_day,
			last_again_at = EXCLUDED.last_again_at,
			updated_at = EXCLUDED.updated_at
	`

	var lastPhase, lastOutcome sql.NullString
	if record.LastReviewedPhase != nil {
		lastPhase = sql.NullString{String: string(*record.LastReviewedPhase), Valid: true}
	}
	if record.LastOutcome != nil {
		lastOutcome = sql.NullString{String: string(*record.LastOutcome), Valid: true}
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		record.WordID,
		record.Step,
		record.IntroducedDay,
		record.FirstTestDay,
		string(record.FirstTestPhase),
		record.NextReviewDay,
		nullableInt(record.LastReviewedDay),
		lastPhase,
		lastOutcome,
		nullableInt(record.RecoveryDueDay),
		nullableTime(record.LastAgainAt),
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("schedule record references a missing word",
				slog.String("word_id", record.WordID.String()))
			return fmt.Errorf("%w: word %s not found", store.ErrInvalidEntity, record.WordID)
		}

		log.Error("failed to upsert schedule record",
			slog.String("error", err.Error()),
			slog.String("word_id", record.WordID.String()))
		return err
	}

	return nil
}

// Delete implements store.ScheduleStore.Delete. Zero rows affected is not an
// error; the word cascade may have removed the record already.
func (s *PostgresScheduleStore) Delete(ctx context.Context, wordID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM schedule_records WHERE word_id = $1`
	if _, err := s.db.ExecContext(ctx, query, wordID); err != nil {
		log.Error("failed to delete schedule record",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return err
	}

	return nil
}

// WithTx implements store.ScheduleStore.WithTx.
func (s *PostgresScheduleStore) WithTx(tx *sql.Tx) store.ScheduleStore {
	return &PostgresScheduleStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduleRecord(row rowScanner) (*domain.ScheduleRecord, error) {
	var (
		record      domain.ScheduleRecord
		firstPhase  string
		lastDay     sql.NullInt64
		lastPhase   sql.NullString
		lastOutcome sql.NullString
		recoveryDay sql.NullInt64
		lastAgainAt sql.NullTime
	)

	err := row.Scan(
		&record.WordID,
		&record.Step,
		&record.IntroducedDay,
		&record.FirstTestDay,
		&firstPhase,
		&record.NextReviewDay,
		&lastDay,
		&lastPhase,
		&lastOutcome,
		&recoveryDay,
		&lastAgainAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.FirstTestPhase = domain.Phase(firstPhase)
	if lastDay.Valid {
		v := int(lastDay.Int64)
		record.LastReviewedDay = &v
	}
	if lastPhase.Valid {
		v := domain.Phase(lastPhase.String)
		record.LastReviewedPhase = &v
	}
	if lastOutcome.Valid {
		v := domain.ReviewOutcome(lastOutcome.String)
		record.LastOutcome = &v
	}
	if recoveryDay.Valid {
		v := int(recoveryDay.Int64)
		record.RecoveryDueDay = &v
	}
	if lastAgainAt.Valid {
		v := lastAgainAt.Time.UTC()
		record.LastAgainAt = &v
	}

	return &record, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func qualifyScheduleColumns(alias string) string {
	return `
	` + alias + `.word_id, ` + alias + `.step, ` + alias + `.introduced_day, ` +
		alias + `.first_test_day, ` + alias + `.first_test_phase, ` +
		alias + `.next_review_day, ` + alias + `.last_reviewed_day, ` +
		alias + `.last_reviewed_phase, ` + alias + `.last_outcome, ` +
		alias + `.recovery_due_day, ` + alias + `.last_again_at, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}
