package review

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/domain/srs"
	"github.com/lexday/lexday-api/internal/platform/memstore"
	"github.com/lexday/lexday-api/internal/store"
)

type reviewFixture struct {
	service   ReviewService
	schedules store.ScheduleStore
	cycles    store.CycleStateStore
	reviewLog store.ReviewLogStore
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	schedules := memstore.NewScheduleStore(nil)
	cycles := memstore.NewCycleStateStore()
	reviewLog := memstore.NewReviewLogStore()

	service := NewReviewService(
		memstore.NewTransactor(schedules, cycles, reviewLog),
		schedules,
		cycles,
		reviewLog,
		srs.NewDefaultParams(),
		slog.Default(),
	)

	return &reviewFixture{
		service:   service,
		schedules: schedules,
		cycles:    cycles,
		reviewLog: reviewLog,
	}
}

func (f *reviewFixture) seedRecord(t *testing.T, step int) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	record, err := domain.NewScheduleRecord(uuid.New(), 0, 1)
	require.NoError(t, err)
	record.Step = step
	require.NoError(t, f.schedules.Upsert(ctx, record))
	return record.WordID
}

func TestSubmitReviewCorrectAdvancesStep(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	ctx := context.Background()
	wordID := f.seedRecord(t, 2)

	result, err := f.service.SubmitReview(ctx, wordID, ReviewAnswer{Outcome: domain.ReviewOutcomeCorrect})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Record.Step)
	assert.Equal(t, 4, result.Record.NextReviewDay, "day 0 plus interval(3) = 4")
	assert.Nil(t, result.Record.RecoveryDueDay)
	assert.Equal(t, 2, result.LogEntry.StepBefore)
	assert.Equal(t, 3, result.LogEntry.StepAfter)

	// The stored record matches what was returned.
	stored, err := f.schedules.GetByWordID(ctx, wordID)
	require.NoError(t, err)
	assert.Equal(t, result.Record.Step, stored.Step)
	assert.Equal(t, result.Record.NextReviewDay, stored.NextReviewDay)

	entries, err := f.reviewLog.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, wordID, entries[0].WordID)
	assert.Equal(t, domain.ReviewOutcomeCorrect, entries[0].Outcome)
}

func TestSubmitReviewAgainBooksRecovery(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	ctx := context.Background()
	wordID := f.seedRecord(t, 3)

	result, err := f.service.SubmitReview(ctx, wordID, ReviewAnswer{Outcome: domain.ReviewOutcomeAgain})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Record.Step)
	require.NotNil(t, result.Record.RecoveryDueDay)
	assert.Equal(t, 1, *result.Record.RecoveryDueDay, "recovery lands on the next study day")
	require.NotNil(t, result.Record.LastOutcome)
	assert.Equal(t, domain.ReviewOutcomeAgain, *result.Record.LastOutcome)
	require.NotNil(t, result.Record.LastAgainAt)
}

func TestSubmitReviewStepClampStillLogs(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	ctx := context.Background()
	wordID := f.seedRecord(t, domain.MaxStep)

	result, err := f.service.SubmitReview(ctx, wordID, ReviewAnswer{Outcome: domain.ReviewOutcomeCorrect})
	require.NoError(t, err)

	assert.Equal(t, domain.MaxStep, result.Record.Step, "top step stays at top")

	// A no-op step change still leaves an audit line.
	entries, err := f.reviewLog.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.MaxStep, entries[0].StepBefore)
	assert.Equal(t, domain.MaxStep, entries[0].StepAfter)
}

func TestSubmitReviewMissingRecord(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	ctx := context.Background()

	result, err := f.service.SubmitReview(ctx, uuid.New(), ReviewAnswer{Outcome: domain.ReviewOutcomeCorrect})

	assert.ErrorIs(t, err, ErrMissingScheduleRecord)
	assert.Nil(t, result)

	// No audit line is written for a rejected review.
	entries, listErr := f.reviewLog.List(ctx, nil)
	require.NoError(t, listErr)
	assert.Empty(t, entries)
}

func TestSubmitReviewInvalidOutcome(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	ctx := context.Background()
	wordID := f.seedRecord(t, 1)

	result, err := f.service.SubmitReview(ctx, wordID, ReviewAnswer{Outcome: "almost"})

	assert.ErrorIs(t, err, ErrInvalidAnswer)
	assert.Nil(t, result)

	// The stored record is untouched.
	stored, getErr := f.schedules.GetByWordID(ctx, wordID)
	require.NoError(t, getErr)
	assert.Equal(t, 1, stored.Step)
}

func TestSubmitReviewUsesCurrentCyclePosition(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t)
	ctx := context.Background()
	wordID := f.seedRecord(t, 0)

	// Move the cycle to day 5, lunch.
	state, err := f.cycles.GetOrCreate(ctx)
	require.NoError(t, err)
	state.Day = 5
	state.Phase = domain.PhaseLunch
	require.NoError(t, f.cycles.Update(ctx, state))

	result, err := f.service.SubmitReview(ctx, wordID, ReviewAnswer{Outcome: domain.ReviewOutcomeCorrect})
	require.NoError(t, err)

	assert.Equal(t, 5, result.LogEntry.Day)
	assert.Equal(t, domain.PhaseLunch, result.LogEntry.Phase)
	require.NotNil(t, result.Record.LastReviewedDay)
	assert.Equal(t, 5, *result.Record.LastReviewedDay)
	assert.Equal(t, 5+1, result.Record.NextReviewDay, "day 5 plus interval(1) = 1")
}
