package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexday/lexday-api/internal/domain"
)

func TestSanitizeClampsStep(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	record := &domain.ScheduleRecord{WordID: uuid.New(), Step: 12, NextReviewDay: 100}
	out := Sanitize(record, params)
	assert.Equal(t, 7, out.Step)

	record.Step = -4
	out = Sanitize(record, params)
	assert.Equal(t, 0, out.Step)
}

func TestSanitizeFloorsDays(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	record := &domain.ScheduleRecord{
		WordID:        uuid.New(),
		Step:          2,
		IntroducedDay: -3,
		FirstTestDay:  -9,
		NextReviewDay: 0,
	}

	out := Sanitize(record, params)

	assert.Equal(t, 0, out.IntroducedDay)
	assert.Equal(t, 0, out.FirstTestDay, "first test raised to the introduced day")
	assert.Equal(t, 2, out.NextReviewDay, "next review raised to anchor + interval(2)")
}

func TestSanitizeRepairsStaleNextReview(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	// A merge can pair an old next-review day with a newer last-reviewed
	// day won from the other replica.
	day := 20
	record := &domain.ScheduleRecord{
		WordID:          uuid.New(),
		Step:            4,
		IntroducedDay:   0,
		NextReviewDay:   12,
		LastReviewedDay: &day,
	}

	out := Sanitize(record, params)
	assert.Equal(t, 20+7, out.NextReviewDay, "anchor 20 plus interval(4) = 7")
}

func TestSanitizeRecoveryRules(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	again := domain.ReviewOutcomeAgain
	correct := domain.ReviewOutcomeCorrect

	t.Run("drops recovery when outcome is not again", func(t *testing.T) {
		due := 5
		record := &domain.ScheduleRecord{
			WordID:         uuid.New(),
			Step:           1,
			NextReviewDay:  9,
			LastOutcome:    &correct,
			RecoveryDueDay: &due,
		}
		out := Sanitize(record, params)
		assert.Nil(t, out.RecoveryDueDay)
	})

	t.Run("restores a missing recovery day for an again outcome", func(t *testing.T) {
		day := 6
		now := time.Now().UTC()
		record := &domain.ScheduleRecord{
			WordID:          uuid.New(),
			Step:            1,
			NextReviewDay:   9,
			LastReviewedDay: &day,
			LastOutcome:     &again,
			LastAgainAt:     &now,
		}
		out := Sanitize(record, params)
		require.NotNil(t, out.RecoveryDueDay)
		assert.Equal(t, 7, *out.RecoveryDueDay)
	})

	t.Run("raises a too-early recovery day", func(t *testing.T) {
		day := 6
		due := 6
		record := &domain.ScheduleRecord{
			WordID:          uuid.New(),
			Step:            1,
			NextReviewDay:   9,
			LastReviewedDay: &day,
			LastOutcome:     &again,
			RecoveryDueDay:  &due,
		}
		out := Sanitize(record, params)
		require.NotNil(t, out.RecoveryDueDay)
		assert.Equal(t, 7, *out.RecoveryDueDay)
	})

	t.Run("keeps a later recovery day", func(t *testing.T) {
		day := 6
		due := 10
		record := &domain.ScheduleRecord{
			WordID:          uuid.New(),
			Step:            1,
			NextReviewDay:   9,
			LastReviewedDay: &day,
			LastOutcome:     &again,
			RecoveryDueDay:  &due,
		}
		out := Sanitize(record, params)
		require.NotNil(t, out.RecoveryDueDay)
		assert.Equal(t, 10, *out.RecoveryDueDay)
	})
}

func TestSanitizeOutputValidates(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	// A thoroughly broken record comes out satisfying every invariant.
	again := domain.ReviewOutcomeAgain
	day := -2
	record := &domain.ScheduleRecord{
		WordID:          uuid.New(),
		Step:            99,
		IntroducedDay:   -7,
		FirstTestDay:    -20,
		NextReviewDay:   -100,
		LastReviewedDay: &day,
		LastOutcome:     &again,
	}

	out := Sanitize(record, params)
	assert.NoError(t, out.Validate())
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	record := &domain.ScheduleRecord{WordID: uuid.New(), Step: 42, NextReviewDay: -1}
	_ = Sanitize(record, params)

	assert.Equal(t, 42, record.Step)
	assert.Equal(t, -1, record.NextReviewDay)
}
