// Package session exposes the study-session surface: the current cycle
// position, the morning and evening queues, and phase completion.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/lexday/lexday-api/internal/domain"
)

// Queue is a built study session: the ranked items plus the cycle position
// the ranking was computed at.
type Queue struct {
	Day   int                `json:"day"`
	Phase domain.Phase       `json:"phase"`
	Items []domain.QueueItem `json:"items"`
}

// SessionService owns the study cycle position and builds session queues
// from a one-shot snapshot of the active schedule records.
type SessionService interface {
	// CurrentState returns the live cycle state, creating the initial
	// state (day 0, morning) on first use. LastOpenedAt is stamped on
	// every call.
	CurrentState(ctx context.Context) (*domain.CycleState, error)

	// BuildMorningQueue ranks the recovery and ready tiers for the current
	// study day. Read-only apart from cycle state creation.
	BuildMorningQueue(ctx context.Context) (*Queue, error)

	// BuildEveningQueue ranks the backlog, ready and new tiers for the
	// current study day, capped by the configured queue capacity.
	BuildEveningQueue(ctx context.Context) (*Queue, error)

	// CompletePhase advances the cycle past the given phase. The phase
	// must match the live cycle phase; otherwise ErrCurrentPhaseMismatch
	// is returned and nothing changes.
	CompletePhase(ctx context.Context, phase domain.Phase) (*domain.PhaseTransition, error)
}

// ErrCurrentPhaseMismatch indicates a completion request for a phase other
// than the live one. The caller is out of date and must re-read the state.
var ErrCurrentPhaseMismatch = errors.New("completed phase does not match current phase")

// ServiceError wraps errors from the session service with additional
// context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "build_morning_queue")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
