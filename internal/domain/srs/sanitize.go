package srs

import (
	"github.com/lexday/lexday-api/internal/domain"
)

// Sanitize repairs a schedule record so it satisfies the same invariants the
// scheduler guarantees for locally produced records. Field-wise merging of
// two replicas can pair an old next-review day with a newer last-reviewed
// day; this pass deterministically restores internal consistency without any
// additional input.
//
// The input is not modified; a repaired copy is returned.
func Sanitize(record *domain.ScheduleRecord, params *Params) *domain.ScheduleRecord {
	out := record.Clone()

	out.Step = ClampStep(out.Step)

	if out.IntroducedDay < 0 {
		out.IntroducedDay = 0
	}
	if out.FirstTestDay < out.IntroducedDay {
		out.FirstTestDay = out.IntroducedDay
	}
	if !out.FirstTestPhase.IsValid() {
		out.FirstTestPhase = domain.PhaseEvening
	}

	anchor := out.AnchorDay()

	floor := anchor + params.Interval(out.Step)
	if out.NextReviewDay < floor {
		out.NextReviewDay = floor
	}

	// recoveryDueDay exists iff the last outcome was "again", and is never
	// earlier than the day after the anchor.
	if out.LastOutcome != nil && *out.LastOutcome == domain.ReviewOutcomeAgain {
		earliest := anchor + 1
		if out.RecoveryDueDay == nil || *out.RecoveryDueDay < earliest {
			out.RecoveryDueDay = &earliest
		}
	} else {
		out.RecoveryDueDay = nil
	}

	return out
}
