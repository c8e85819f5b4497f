package domain

import "errors"

// Phase identifies one stage of the fixed daily study cycle.
type Phase string

// The three phases of a study day, in cycle order.
const (
	PhaseMorning Phase = "morning"
	PhaseLunch   Phase = "lunch"
	PhaseEvening Phase = "evening"
)

// ErrInvalidPhase is returned when a phase value is not one of the three
// known cycle stages.
var ErrInvalidPhase = errors.New("invalid study phase")

// Rank returns the ordering of the phase within a study day.
// Morning < Lunch < Evening. Used by the sync merge to break day ties.
func (p Phase) Rank() int {
	switch p {
	case PhaseMorning:
		return 0
	case PhaseLunch:
		return 1
	case PhaseEvening:
		return 2
	default:
		return -1
	}
}

// IsValid reports whether the phase is one of the three known stages.
func (p Phase) IsValid() bool {
	return p.Rank() >= 0
}

// PhaseTransition is the result of completing a phase: the phase and study
// day the cycle moves to, and whether the day counter advanced.
type PhaseTransition struct {
	NextPhase   Phase `json:"next_phase"`
	NextDay     int   `json:"next_day"`
	DayAdvanced bool  `json:"day_advanced"`
}

// AdvancePhase computes the transition out of the given phase. It is a pure,
// total function over valid phases: Morning→Lunch and Lunch→Evening keep the
// day unchanged; Evening→Morning increments the day by one. This is the only
// place the study day counter moves outside of sync merges.
func AdvancePhase(current Phase, day int) (PhaseTransition, error) {
	switch current {
	case PhaseMorning:
		return PhaseTransition{NextPhase: PhaseLunch, NextDay: day, DayAdvanced: false}, nil
	case PhaseLunch:
		return PhaseTransition{NextPhase: PhaseEvening, NextDay: day, DayAdvanced: false}, nil
	case PhaseEvening:
		return PhaseTransition{NextPhase: PhaseMorning, NextDay: day + 1, DayAdvanced: true}, nil
	default:
		return PhaseTransition{}, ErrInvalidPhase
	}
}
