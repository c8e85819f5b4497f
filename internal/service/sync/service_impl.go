package sync

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/domain/srs"
	"github.com/lexday/lexday-api/internal/platform/logger"
	"github.com/lexday/lexday-api/internal/store"
)

// retryDelays is the capped backoff schedule for failed attempts. The
// attempt ceiling is the first attempt plus one retry per delay.
var retryDelays = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
}

// Verify interface compliance at compile time
var _ SyncService = (*syncServiceImpl)(nil)

// syncServiceImpl implements the SyncService interface.
type syncServiceImpl struct {
	transactor store.Transactor
	words      store.WordStore
	schedules  store.ScheduleStore
	cycles     store.CycleStateStore
	remote     RemoteClient
	params     *srs.Params
	clock      func() time.Time
	logger     *slog.Logger

	mu          gosync.Mutex
	running     bool
	status      SyncStatus
	retryCancel context.CancelFunc
}

// NewSyncService creates a new SyncService implementation.
func NewSyncService(
	transactor store.Transactor,
	words store.WordStore,
	schedules store.ScheduleStore,
	cycles store.CycleStateStore,
	remote RemoteClient,
	params *srs.Params,
	log *slog.Logger,
) SyncService {
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
	if remote == nil {
		panic("remote cannot be nil")
	}
	if params == nil {
		params = srs.NewDefaultParams()
	}
	if log == nil {
		log = slog.Default()
	}

	return &syncServiceImpl{
		transactor: transactor,
		words:      words,
		schedules:  schedules,
		cycles:     cycles,
		remote:     remote,
		params:     params,
		clock:      func() time.Time { return time.Now().UTC() },
		logger:     log.With(slog.String("component", "sync_service")),
		status:     SyncStatus{State: SyncStateIdle},
	}
}

// SyncOnce implements SyncService.SyncOnce.
func (s *syncServiceImpl) SyncOnce(ctx context.Context, trigger Trigger) SyncStatus {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	// Any trigger supersedes a pending retry timer.
	s.cancelRetryLocked()

	if s.running {
		status := s.status
		status.State = SyncStateInFlight
		s.mu.Unlock()
		log.Debug("sync already in flight, skipping", slog.String("trigger", string(trigger)))
		return status
	}

	attempt := 1
	if trigger == TriggerRetry {
		attempt = s.status.Attempt + 1
	}

	s.running = true
	s.status.State = SyncStateInFlight
	s.status.Trigger = trigger
	s.status.Attempt = attempt
	s.mu.Unlock()

	log.Debug("starting sync",
		slog.String("trigger", string(trigger)),
		slog.Int("attempt", attempt))

	err := s.runAttempt(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false

	if err == nil {
		now := s.clock()
		s.status = SyncStatus{
			State:      SyncStateSynced,
			Trigger:    trigger,
			Attempt:    attempt,
			LastSyncAt: &now,
		}
		log.Info("sync completed", slog.String("trigger", string(trigger)))
		return s.status
	}

	s.status.LastError = err.Error()

	if attempt <= len(retryDelays) {
		delay := retryDelays[attempt-1]
		s.status.State = SyncStateRetryScheduled
		s.scheduleRetryLocked(delay)
		log.Warn("sync failed, retry scheduled",
			slog.String("error", err.Error()),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay))
	} else {
		s.status.State = SyncStateFailed
		log.Warn("sync failed, attempt ceiling reached",
			slog.String("error", err.Error()),
			slog.Int("attempt", attempt))
	}

	return s.status
}

// Status implements SyncService.Status.
func (s *syncServiceImpl) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Stop implements SyncService.Stop.
func (s *syncServiceImpl) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelRetryLocked()
}

// runAttempt performs one pull/resolve/push cycle. The local snapshot is
// captured once up front; there is no version token, so a local write landing
// between capture and write-back can be lost to the merge. Known limitation.
func (s *syncServiceImpl) runAttempt(ctx context.Context) error {
	local, err := s.captureSnapshot(ctx)
	if err != nil {
		return &ServiceError{Operation: "snapshot", Message: "failed to capture local snapshot", Err: err}
	}

	remote, err := s.remote.Pull(ctx)
	if err != nil {
		return &ServiceError{Operation: "pull", Message: "failed to pull remote snapshot", Err: err}
	}

	merged := Resolve(*local, remote, s.params)

	if err := s.writeBack(ctx, merged); err != nil {
		return &ServiceError{Operation: "write_back", Message: "failed to store merged snapshot", Err: err}
	}

	if err := s.remote.Push(ctx, merged); err != nil {
		return &ServiceError{Operation: "push", Message: "failed to push merged snapshot", Err: err}
	}

	return nil
}

func (s *syncServiceImpl) captureSnapshot(ctx context.Context) (*domain.SnapshotPayload, error) {
	var snapshot domain.SnapshotPayload
	err := s.transactor.InTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cycles := s.cycles.WithTx(tx)
		words := s.words.WithTx(tx)
		schedules := s.schedules.WithTx(tx)

		state, err := cycles.GetOrCreate(ctx)
		if err != nil {
			return fmt.Errorf("failed to load cycle state: %w", err)
		}

		wordList, err := words.List(ctx, true)
		if err != nil {
			return fmt.Errorf("failed to list words: %w", err)
		}

		records, err := schedules.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to list schedule records: %w", err)
		}

		snapshot = domain.SnapshotPayload{Cycle: *state, Records: records}
		snapshot.Words = make([]domain.Word, 0, len(wordList))
		for _, w := range wordList {
			snapshot.Words = append(snapshot.Words, *w)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *syncServiceImpl) writeBack(ctx context.Context, merged domain.SnapshotPayload) error {
	return s.transactor.InTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cycles := s.cycles.WithTx(tx)
		words := s.words.WithTx(tx)
		schedules := s.schedules.WithTx(tx)

		state := merged.Cycle
		if err := cycles.Update(ctx, &state); err != nil {
			return fmt.Errorf("failed to store merged cycle state: %w", err)
		}

		// Words first: schedule records reference them.
		for i := range merged.Words {
			if err := words.Upsert(ctx, &merged.Words[i]); err != nil {
				return fmt.Errorf("failed to store merged word %s: %w", merged.Words[i].ID, err)
			}
		}

		for i := range merged.Records {
			if err := schedules.Upsert(ctx, &merged.Records[i]); err != nil {
				return fmt.Errorf("failed to store merged record %s: %w", merged.Records[i].WordID, err)
			}
		}

		return nil
	})
}

// scheduleRetryLocked arms the retry timer. Caller holds s.mu. The timer's
// context is detached from the triggering request so an HTTP cancellation
// does not kill the retry, but Stop and any superseding trigger do.
func (s *syncServiceImpl) scheduleRetryLocked(delay time.Duration) {
	retryCtx, cancel := context.WithCancel(context.Background())
	s.retryCancel = cancel

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-retryCtx.Done():
			return
		case <-timer.C:
			// A fresh context: SyncOnce cancels the pending-retry context
			// as its first step, and that must not abort this attempt.
			s.SyncOnce(context.Background(), TriggerRetry)
		}
	}()
}

// cancelRetryLocked stops a pending retry timer. Caller holds s.mu.
func (s *syncServiceImpl) cancelRetryLocked() {
	if s.retryCancel != nil {
		s.retryCancel()
		s.retryCancel = nil
	}
}
