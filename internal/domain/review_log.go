package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ReviewLogEntry.
var (
	ErrEmptyLogWordID = errors.New("review log entry word ID cannot be empty")
	ErrNegativeLogDay = errors.New("review log entry study day must be >= 0")
)

// ReviewLogEntry is one immutable line of the review audit trail. An entry is
// appended for every submitted outcome, even when step clamping leaves the
// step unchanged.
type ReviewLogEntry struct {
	ID         uuid.UUID     `json:"id"`
	WordID     uuid.UUID     `json:"word_id"`
	Day        int           `json:"day"`
	Phase      Phase         `json:"phase"`
	Outcome    ReviewOutcome `json:"outcome"`
	StepBefore int           `json:"step_before"`
	StepAfter  int           `json:"step_after"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewReviewLogEntry creates an audit entry for one submitted outcome.
func NewReviewLogEntry(
	wordID uuid.UUID,
	day int,
	phase Phase,
	outcome ReviewOutcome,
	stepBefore, stepAfter int,
	now time.Time,
) (*ReviewLogEntry, error) {
	entry := &ReviewLogEntry{
		ID:         uuid.New(),
		WordID:     wordID,
		Day:        day,
		Phase:      phase,
		Outcome:    outcome,
		StepBefore: stepBefore,
		StepAfter:  stepAfter,
		CreatedAt:  now,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the ReviewLogEntry has valid data.
func (e *ReviewLogEntry) Validate() error {
	if e.WordID == uuid.Nil {
		return ErrEmptyLogWordID
	}

	if e.Day < 0 {
		return ErrNegativeLogDay
	}

	if !e.Phase.IsValid() {
		return ErrInvalidPhase
	}

	if !e.Outcome.IsValid() {
		return ErrInvalidOutcome
	}

	return nil
}
