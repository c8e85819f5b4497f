package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/domain/srs"
	"github.com/lexday/lexday-api/internal/platform/logger"
	"github.com/lexday/lexday-api/internal/store"
)

// Verify interface compliance at compile time
var _ SessionService = (*sessionServiceImpl)(nil)

// sessionServiceImpl implements the SessionService interface.
type sessionServiceImpl struct {
	transactor store.Transactor
	schedules  store.ScheduleStore
	cycles     store.CycleStateStore
	params     *srs.Params
	clock      func() time.Time
	logger     *slog.Logger
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(
	transactor store.Transactor,
	schedules store.ScheduleStore,
	cycles store.CycleStateStore,
	params *srs.Params,
	log *slog.Logger,
) SessionService {
	if transactor == nil {
		panic("transactor cannot be nil")
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

	return &sessionServiceImpl{
		transactor: transactor,
		schedules:  schedules,
		cycles:     cycles,
		params:     params,
		clock:      func() time.Time { return time.Now().UTC() },
		logger:     log.With(slog.String("component", "session_service")),
	}
}

// CurrentState implements SessionService.CurrentState.
func (s *sessionServiceImpl) CurrentState(ctx context.Context) (*domain.CycleState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var state *domain.CycleState
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cycles := s.cycles.WithTx(tx)

		current, err := cycles.GetOrCreate(ctx)
		if err != nil {
			return fmt.Errorf("failed to load cycle state: %w", err)
		}

		current.LastOpenedAt = s.clock()
		current.UpdatedAt = current.LastOpenedAt
		if err := cycles.Update(ctx, current); err != nil {
			return fmt.Errorf("failed to stamp cycle state: %w", err)
		}

		state = current
		return nil
	})
	if err != nil {
		log.Error("failed to get current cycle state", slog.String("error", err.Error()))
		return nil, &ServiceError{Operation: "current_state", Message: "failed to load cycle state", Err: err}
	}

	return state, nil
}

// BuildMorningQueue implements SessionService.BuildMorningQueue.
func (s *sessionServiceImpl) BuildMorningQueue(ctx context.Context) (*Queue, error) {
	return s.buildQueue(ctx, "build_morning_queue", srs.BuildMorningQueue)
}

// BuildEveningQueue implements SessionService.BuildEveningQueue.
func (s *sessionServiceImpl) BuildEveningQueue(ctx context.Context) (*Queue, error) {
	return s.buildQueue(ctx, "build_evening_queue", srs.BuildEveningQueue)
}

// buildQueue fetches one snapshot of cycle state and active records and ranks
// it with the given builder. The snapshot is taken inside a transaction so a
// concurrent review cannot be observed half-applied.
func (s *sessionServiceImpl) buildQueue(
	ctx context.Context,
	operation string,
	build func([]domain.ScheduleRecord, int, *srs.Params) []domain.QueueItem,
) (*Queue, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var queue *Queue
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cycles := s.cycles.WithTx(tx)
		schedules := s.schedules.WithTx(tx)

		state, err := cycles.GetOrCreate(ctx)
		if err != nil {
			return fmt.Errorf("failed to load cycle state: %w", err)
		}

		records, err := schedules.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to list schedule records: %w", err)
		}

		queue = &Queue{
			Day:   state.Day,
			Phase: state.Phase,
			Items: build(records, state.Day, s.params),
		}
		return nil
	})
	if err != nil {
		log.Error("failed to build session queue",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, &ServiceError{Operation: operation, Message: "failed to build queue", Err: err}
	}

	log.Debug("built session queue",
		slog.String("operation", operation),
		slog.Int("day", queue.Day),
		slog.Int("size", len(queue.Items)))

	return queue, nil
}

// CompletePhase implements SessionService.CompletePhase.
func (s *sessionServiceImpl) CompletePhase(
	ctx context.Context,
	phase domain.Phase,
) (*domain.PhaseTransition, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !phase.IsValid() {
		return nil, domain.ErrInvalidPhase
	}

	var transition domain.PhaseTransition
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cycles := s.cycles.WithTx(tx)

		state, err := cycles.GetOrCreate(ctx)
		if err != nil {
			return fmt.Errorf("failed to load cycle state: %w", err)
		}

		if state.Phase != phase {
			log.Warn("phase completion rejected",
				slog.String("requested", string(phase)),
				slog.String("current", string(state.Phase)))
			return ErrCurrentPhaseMismatch
		}

		transition, err = domain.AdvancePhase(state.Phase, state.Day)
		if err != nil {
			return err
		}

		now := s.clock()
		state.Phase = transition.NextPhase
		state.Day = transition.NextDay
		state.LastOpenedAt = now
		state.UpdatedAt = now
		if err := cycles.Update(ctx, state); err != nil {
			return fmt.Errorf("failed to store cycle state: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCurrentPhaseMismatch) {
			return nil, err
		}
		log.Error("failed to complete phase",
			slog.String("phase", string(phase)),
			slog.String("error", err.Error()))
		return nil, &ServiceError{Operation: "complete_phase", Message: "failed to complete phase", Err: err}
	}

	log.Info("phase completed",
		slog.String("phase", string(phase)),
		slog.String("next_phase", string(transition.NextPhase)),
		slog.Int("next_day", transition.NextDay),
		slog.Bool("day_advanced", transition.DayAdvanced))

	return &transition, nil
}
