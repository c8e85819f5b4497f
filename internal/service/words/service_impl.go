package words

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/domain/srs"
	"github.com/lexday/lexday-api/internal/generation"
	"github.com/lexday/lexday-api/internal/platform/logger"
	"github.com/lexday/lexday-api/internal/store"
)

// Verify interface compliance at compile time
var _ WordService = (*wordServiceImpl)(nil)

// wordServiceImpl implements the WordService interface.
type wordServiceImpl struct {
	transactor store.Transactor
	words      store.WordStore
	schedules  store.ScheduleStore
	cycles     store.CycleStateStore
	generator  generation.Generator
	params     *srs.Params
	clock      func() time.Time
	logger     *slog.Logger
}

// NewWordService creates a new WordService implementation. The generator is
// optional; a nil generator disables enrichment.
func NewWordService(
	transactor store.Transactor,
	words store.WordStore,
	schedules store.ScheduleStore,
	cycles store.CycleStateStore,
	generator generation.Generator,
	params *srs.Params,
	log *slog.Logger,
) WordService {
	if transactor == nil {
		panic("transactor cannot be nil")
	}
	if words == nil {
		panic("words cannot be nil")
	}
	if schedules == nil {
		panic("schedules cannot be nil")
	}
	if cycles == nil {
		panic("cycles cannot be nil")
	}
	if params == nil {
		params = srs.NewDefaultParams()
	}
	if log == nil {
		log = slog.Default()
	}

	return &wordServiceImpl{
		transactor: transactor,
		words:      words,
		schedules:  schedules,
		cycles:     cycles,
		generator:  generator,
		params:     params,
		clock:      func() time.Time { return time.Now().UTC() },
		logger:     log.With(slog.String("component", "word_service")),
	}
}

// CreateWord implements WordService.CreateWord.
func (s *wordServiceImpl) CreateWord(
	ctx context.Context,
	req CreateWordRequest,
) (*WordWithSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	word, err := domain.NewWord(req.Term, req.Translation)
	if err != nil {
		return nil, err
	}
	word.Notes = strings.TrimSpace(req.Notes)

	// Enrichment runs outside the transaction: a slow or failing LLM call
	// must not hold locks or fail the creation.
	if req.Enrich && s.generator != nil && word.Notes == "" {
		if notes := s.enrich(ctx, word.Term, word.Translation); notes != "" {
			word.Notes = notes
		}
	}

	var result *WordWithSchedule
	err = s.transactor.InTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		words := s.words.WithTx(tx)
		schedules := s.schedules.WithTx(tx)
		cycles := s.cycles.WithTx(tx)

		state, err := cycles.GetOrCreate(ctx)
		if err != nil {
			return fmt.Errorf("failed to load cycle state: %w", err)
		}

		if err := words.Create(ctx, word); err != nil {
			if errors.Is(err, store.ErrWordExists) {
				return ErrDuplicateTerm
			}
			return fmt.Errorf("failed to create word: %w", err)
		}

		firstDue := state.Day + s.params.Interval(domain.MinStep)
		record, err := domain.NewScheduleRecord(word.ID, state.Day, firstDue)
		if err != nil {
			return fmt.Errorf("failed to build schedule record: %w", err)
		}
		if err := schedules.Upsert(ctx, record); err != nil {
			return fmt.Errorf("failed to create schedule record: %w", err)
		}

		result = &WordWithSchedule{Word: word, Schedule: record}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateTerm) {
			return nil, err
		}
		log.Error("failed to create word",
			slog.String("error", err.Error()),
			slog.String("term", req.Term))
		return nil, &ServiceError{Operation: "create_word", Message: "failed to create word", Err: err}
	}

	log.Info("word created",
		slog.String("word_id", word.ID.String()),
		slog.Int("introduced_day", result.Schedule.IntroducedDay))

	return result, nil
}

// GetWord implements WordService.GetWord.
func (s *wordServiceImpl) GetWord(ctx context.Context, id uuid.UUID) (*WordWithSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	word, err := s.words.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			return nil, ErrWordNotFound
		}
		log.Error("failed to get word",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, &ServiceError{Operation: "get_word", Message: "failed to get word", Err: err}
	}

	record, err := s.schedules.GetByWordID(ctx, id)
	if err != nil && !errors.Is(err, store.ErrScheduleNotFound) {
		log.Error("failed to get schedule record",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, &ServiceError{Operation: "get_word", Message: "failed to get schedule record", Err: err}
	}

	return &WordWithSchedule{Word: word, Schedule: record}, nil
}

// ListWords implements WordService.ListWords.
func (s *wordServiceImpl) ListWords(
	ctx context.Context,
	includeArchived bool,
) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	words, err := s.words.List(ctx, includeArchived)
	if err != nil {
		log.Error("failed to list words", slog.String("error", err.Error()))
		return nil, &ServiceError{Operation: "list_words", Message: "failed to list words", Err: err}
	}

	return words, nil
}

// UpdateWord implements WordService.UpdateWord.
func (s *wordServiceImpl) UpdateWord(
	ctx context.Context,
	id uuid.UUID,
	req UpdateWordRequest,
) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Word
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		words := s.words.WithTx(tx)

		word, err := words.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrWordNotFound) {
				return ErrWordNotFound
			}
			return fmt.Errorf("failed to get word: %w", err)
		}

		word.Term = strings.TrimSpace(req.Term)
		word.Translation = strings.TrimSpace(req.Translation)
		word.Notes = strings.TrimSpace(req.Notes)
		word.Archived = req.Archived
		word.UpdatedAt = s.clock()

		if err := words.Update(ctx, word); err != nil {
			if errors.Is(err, store.ErrWordExists) {
				return ErrDuplicateTerm
			}
			return fmt.Errorf("failed to update word: %w", err)
		}

		updated = word
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWordNotFound) || errors.Is(err, ErrDuplicateTerm) {
			return nil, err
		}
		log.Error("failed to update word",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, &ServiceError{Operation: "update_word", Message: "failed to update word", Err: err}
	}

	return updated, nil
}

// DeleteWord implements WordService.DeleteWord.
func (s *wordServiceImpl) DeleteWord(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.transactor.InTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		words := s.words.WithTx(tx)
		schedules := s.schedules.WithTx(tx)

		if err := words.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrWordNotFound) {
				return ErrWordNotFound
			}
			return fmt.Errorf("failed to delete word: %w", err)
		}

		// The SQL backend cascades this; the in-memory one does not.
		if err := schedules.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete schedule record: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWordNotFound) {
			return err
		}
		log.Error("failed to delete word",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return &ServiceError{Operation: "delete_word", Message: "failed to delete word", Err: err}
	}

	log.Info("word deleted", slog.String("word_id", id.String()))
	return nil
}

// enrich asks the generator for notes. Failures are logged and swallowed.
func (s *wordServiceImpl) enrich(ctx context.Context, term, translation string) string {
	log := logger.FromContextOrDefault(ctx, s.logger)

	notes, err := s.generator.GenerateNotes(ctx, term, translation)
	if err != nil {
		log.Warn("word enrichment failed",
			slog.String("error", err.Error()),
			slog.String("term", term))
		return ""
	}

	text := notes.Explanation
	for _, example := range notes.Examples {
		text += "\n" + example
	}
	return strings.TrimSpace(text)
}
