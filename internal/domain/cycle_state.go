package domain

import (
	"errors"
	"time"
)

// ErrNegativeStudyDay is returned when a cycle state carries a negative
// study day index.
var ErrNegativeStudyDay = errors.New("study day index must be >= 0")

// CycleState is the process-wide singleton tracking where the user is in the
// daily study cycle. It is created once (day 0, morning) and never destroyed;
// only phase completion and sync merges move it.
type CycleState struct {
	Day          int       `json:"day"`
	Phase        Phase     `json:"phase"`
	LastOpenedAt time.Time `json:"last_opened_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCycleState returns the initial cycle state: study day 0, morning phase.
func NewCycleState() *CycleState {
	now := time.Now().UTC()
	return &CycleState{
		Day:          0,
		Phase:        PhaseMorning,
		LastOpenedAt: now,
		UpdatedAt:    now,
	}
}

// Validate checks the cycle state's invariants.
func (s *CycleState) Validate() error {
	if s.Day < 0 {
		return ErrNegativeStudyDay
	}
	if !s.Phase.IsValid() {
		return ErrInvalidPhase
	}
	return nil
}

// Clone returns a copy of the state.
func (s *CycleState) Clone() *CycleState {
	out := *s
	return &out
}
