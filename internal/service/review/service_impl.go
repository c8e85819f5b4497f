package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/domain/srs"
	"github.com/lexday/lexday-api/internal/platform/logger"
	"github.com/lexday/lexday-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	transactor store.Transactor
	schedules  store.ScheduleStore
	cycles     store.CycleStateStore
	reviewLog  store.ReviewLogStore
	params     *srs.Params
	clock      func() time.Time
	logger     *slog.Logger
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(
	transactor store.Transactor,
	schedules store.ScheduleStore,
	cycles store.CycleStateStore,
	reviewLog store.ReviewLogStore,
	params *srs.Params,
	log *slog.Logger,
) ReviewService {
	if transactor == nil {
		panic("transactor cannot be nil")
	}
	if schedules == nil {
		panic("schedules cannot be nil")
	}
	if cycles == nil {
		panic("cycles cannot be nil")
	}
	if reviewLog == nil {
		panic("reviewLog cannot be nil")
	}
	if params == nil {
		params = srs.NewDefaultParams()
	}
	if log == nil {
		log = slog.Default()
	}

	return &reviewServiceImpl{
		transactor: transactor,
		schedules:  schedules,
		cycles:     cycles,
		reviewLog:  reviewLog,
		params:     params,
		clock:      func() time.Time { return time.Now().UTC() },
		logger:     log.With(slog.String("component", "review_service")),
	}
}

// SubmitReview implements ReviewService.SubmitReview.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	wordID uuid.UUID,
	answer ReviewAnswer,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review answer",
		slog.String("word_id", wordID.String()),
		slog.String("outcome", string(answer.Outcome)))

	if !answer.Outcome.IsValid() {
		log.Warn("invalid review outcome",
			slog.String("word_id", wordID.String()),
			slog.String("outcome", string(answer.Outcome)))
		return nil, ErrInvalidAnswer
	}

	var result *ReviewResult
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		schedules := s.schedules.WithTx(tx)
		cycles := s.cycles.WithTx(tx)
		reviewLog := s.reviewLog.WithTx(tx)

		state, err := cycles.GetOrCreate(ctx)
		if err != nil {
			return fmt.Errorf("failed to load cycle state: %w", err)
		}

		record, err := schedules.GetByWordIDForUpdate(ctx, wordID)
		if err != nil {
			if errors.Is(err, store.ErrScheduleNotFound) {
				log.Warn("no schedule record for reviewed word",
					slog.String("word_id", wordID.String()))
				return ErrMissingScheduleRecord
			}
			return fmt.Errorf("failed to get schedule record: %w", err)
		}

		now := s.clock()
		update := srs.Apply(record.Step, answer.Outcome, state.Day, state.Phase, now, s.params)
		next := update.ApplyTo(record, now)

		if err := schedules.Upsert(ctx, next); err != nil {
			return fmt.Errorf("failed to store schedule record: %w", err)
		}

		entry, err := domain.NewReviewLogEntry(
			wordID,
			state.Day,
			state.Phase,
			answer.Outcome,
			update.StepBefore,
			update.StepAfter,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to build review log entry: %w", err)
		}
		if err := reviewLog.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append review log entry: %w", err)
		}

		result = &ReviewResult{Record: next, LogEntry: entry}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrMissingScheduleRecord) {
			return nil, err
		}

		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("word_id", wordID.String()))
		return nil, NewSubmitReviewError("failed to submit review", err)
	}

	log.Debug("successfully processed review answer",
		slog.String("word_id", wordID.String()),
		slog.String("outcome", string(answer.Outcome)),
		slog.Int("step_before", result.LogEntry.StepBefore),
		slog.Int("step_after", result.LogEntry.StepAfter),
		slog.Int("next_review_day", result.Record.NextReviewDay))

	return result, nil
}
