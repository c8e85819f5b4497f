package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewOutcome represents the result of a single word review.
type ReviewOutcome string

// Possible review outcome values.
const (
	ReviewOutcomeCorrect ReviewOutcome = "correct"
	ReviewOutcomeAgain   ReviewOutcome = "again"
)

// IsValid reports whether the outcome is one of the known values.
func (o ReviewOutcome) IsValid() bool {
	return o == ReviewOutcomeCorrect || o == ReviewOutcomeAgain
}

// Review step bounds. Step 0 is a freshly learned word, step 7 a well
// retained one; the interval table is indexed by step.
const (
	MinStep = 0
	MaxStep = 7
)

// Common validation errors for ScheduleRecord.
var (
	ErrEmptyScheduleWordID   = errors.New("schedule record word ID cannot be empty")
	ErrStepOutOfRange        = errors.New("step must be between 0 and 7")
	ErrNegativeIntroducedDay = errors.New("introduced day index must be >= 0")
	ErrFirstTestBeforeIntro  = errors.New("first test day cannot precede the introduced day")
	ErrRecoveryWithoutAgain  = errors.New("recovery due day requires a last outcome of again")
	ErrMissingRecoveryDay    = errors.New("last outcome again requires a recovery due day")
	ErrRecoveryTooEarly      = errors.New("recovery due day must be at least one day after the anchor day")
	ErrInvalidOutcome        = errors.New("invalid review outcome")
)

// ScheduleRecord holds the spaced-repetition state for one word. There is
// exactly one record per word; it is created when the word is introduced and
// persists for the word's whole lifetime (archiving only removes queue
// eligibility). Records are immutable values: mutation means replacing the
// stored value for the word ID with a new one computed by the scheduler or
// the sync resolver.
type ScheduleRecord struct {
	WordID            uuid.UUID      `json:"word_id"`
	Step              int            `json:"step"`
	IntroducedDay     int            `json:"introduced_day"`
	FirstTestDay      int            `json:"first_test_day"`
	FirstTestPhase    Phase          `json:"first_test_phase"`
	NextReviewDay     int            `json:"next_review_day"`
	LastReviewedDay   *int           `json:"last_reviewed_day,omitempty"`
	LastReviewedPhase *Phase         `json:"last_reviewed_phase,omitempty"`
	LastOutcome       *ReviewOutcome `json:"last_outcome,omitempty"`
	RecoveryDueDay    *int           `json:"recovery_due_day,omitempty"`
	LastAgainAt       *time.Time     `json:"last_again_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// NewScheduleRecord creates the scheduling state for a word introduced on the
// given study day. The word starts at step 0 and is first eligible as "new"
// in the evening session of its introduction day.
func NewScheduleRecord(wordID uuid.UUID, introducedDay int, firstDue int) (*ScheduleRecord, error) {
	now := time.Now().UTC()
	record := &ScheduleRecord{
		WordID:         wordID,
		Step:           MinStep,
		IntroducedDay:  introducedDay,
		FirstTestDay:   introducedDay,
		FirstTestPhase: PhaseEvening,
		NextReviewDay:  firstDue,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// AnchorDay is the reference day for interval arithmetic: the last reviewed
// day when the word has been reviewed, otherwise its introduction day.
func (r *ScheduleRecord) AnchorDay() int {
	if r.LastReviewedDay != nil {
		return *r.LastReviewedDay
	}
	return r.IntroducedDay
}

// Validate checks the record's internal invariants. The next-review floor
// (anchor day plus the step interval) depends on the interval table and is
// enforced by the srs scheduler and sanitizer rather than here.
func (r *ScheduleRecord) Validate() error {
	if r.WordID == uuid.Nil {
		return ErrEmptyScheduleWordID
	}

	if r.Step < MinStep || r.Step > MaxStep {
		return ErrStepOutOfRange
	}

	if r.IntroducedDay < 0 {
		return ErrNegativeIntroducedDay
	}

	if r.FirstTestDay < r.IntroducedDay {
		return ErrFirstTestBeforeIntro
	}

	if r.LastOutcome != nil && !r.LastOutcome.IsValid() {
		return ErrInvalidOutcome
	}

	// recoveryDueDay is present iff the last outcome was "again".
	hasAgain := r.LastOutcome != nil && *r.LastOutcome == ReviewOutcomeAgain
	if r.RecoveryDueDay != nil && !hasAgain {
		return ErrRecoveryWithoutAgain
	}
	if hasAgain && r.RecoveryDueDay == nil {
		return ErrMissingRecoveryDay
	}
	if r.RecoveryDueDay != nil && *r.RecoveryDueDay < r.AnchorDay()+1 {
		return ErrRecoveryTooEarly
	}

	return nil
}

// Clone returns a deep copy of the record. Pointer fields are duplicated so
// the copy shares no state with the original.
func (r *ScheduleRecord) Clone() *ScheduleRecord {
	out := *r
	if r.LastReviewedDay != nil {
		v := *r.LastReviewedDay
		out.LastReviewedDay = &v
	}
	if r.LastReviewedPhase != nil {
		v := *r.LastReviewedPhase
		out.LastReviewedPhase = &v
	}
	if r.LastOutcome != nil {
		v := *r.LastOutcome
		out.LastOutcome = &v
	}
	if r.RecoveryDueDay != nil {
		v := *r.RecoveryDueDay
		out.RecoveryDueDay = &v
	}
	if r.LastAgainAt != nil {
		v := *r.LastAgainAt
		out.LastAgainAt = &v
	}
	return &out
}
