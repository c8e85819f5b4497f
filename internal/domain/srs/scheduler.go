package srs

import (
	"time"

	"github.com/lexday/lexday-api/internal/domain"
)

// ScheduleUpdate is the computed next scheduling state for one word after a
// review. It is a pure value: persisting it into a ScheduleRecord and into
// the audit log is the review service's job.
type ScheduleUpdate struct {
	StepBefore        int
	StepAfter         int
	Outcome           domain.ReviewOutcome
	NextReviewDay     int
	LastReviewedDay   int
	LastReviewedPhase domain.Phase
	RecoveryDueDay    *int
	LastAgainAt       *time.Time
}

// Apply computes the scheduling consequences of one review outcome. It never
// fails: the incoming step is clamped into range and both outcomes are total.
//
// A correct answer raises the step (capped at the top step); an "again"
// answer lowers it (floored at step 0) and books a forced recovery re-test
// for the next study day, so a failed word can never reappear on the day it
// failed.
func Apply(
	stepBefore int,
	outcome domain.ReviewOutcome,
	currentDay int,
	currentPhase domain.Phase,
	now time.Time,
	params *Params,
) ScheduleUpdate {
	before := ClampStep(stepBefore)

	update := ScheduleUpdate{
		StepBefore:        before,
		Outcome:           outcome,
		LastReviewedDay:   currentDay,
		LastReviewedPhase: currentPhase,
	}

	switch outcome {
	case domain.ReviewOutcomeAgain:
		update.StepAfter = ClampStep(before - 1)
		recovery := currentDay + 1
		update.RecoveryDueDay = &recovery
		againAt := now
		update.LastAgainAt = &againAt
	default:
		// Correct. Unknown outcomes are rejected upstream by the review
		// service before this function runs.
		update.StepAfter = ClampStep(before + 1)
	}

	update.NextReviewDay = currentDay + params.Interval(update.StepAfter)

	return update
}

// ApplyTo writes the update into a copy of the given record and returns the
// copy. The original record is never modified.
func (u ScheduleUpdate) ApplyTo(record *domain.ScheduleRecord, now time.Time) *domain.ScheduleRecord {
	next := record.Clone()

	next.Step = u.StepAfter
	next.NextReviewDay = u.NextReviewDay

	day := u.LastReviewedDay
	next.LastReviewedDay = &day
	phase := u.LastReviewedPhase
	next.LastReviewedPhase = &phase
	outcome := u.Outcome
	next.LastOutcome = &outcome

	next.RecoveryDueDay = nil
	if u.RecoveryDueDay != nil {
		recovery := *u.RecoveryDueDay
		next.RecoveryDueDay = &recovery
	}
	next.LastAgainAt = nil
	if u.LastAgainAt != nil {
		againAt := *u.LastAgainAt
		next.LastAgainAt = &againAt
	}

	next.UpdatedAt = now

	return next
}
