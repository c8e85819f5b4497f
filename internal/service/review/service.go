// Package review implements the review submission flow: one answered word
// turns into a schedule update and an audit log line, atomically.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
)

// ReviewAnswer represents the user's answer for a reviewed word.
type ReviewAnswer struct {
	Outcome domain.ReviewOutcome `json:"outcome"`
}

// ReviewResult is the outcome of a submitted review: the replaced schedule
// record and the audit entry that was appended alongside it.
type ReviewResult struct {
	Record   *domain.ScheduleRecord `json:"record"`
	LogEntry *domain.ReviewLogEntry `json:"log_entry"`
}

// ReviewService records review outcomes against the scheduling state.
type ReviewService interface {
	// SubmitReview processes one answered word at the current cycle
	// position. The schedule record replacement and the audit log append
	// happen in a single transaction; an audit line is written even when
	// step clamping leaves the step unchanged.
	//
	// Returns ErrMissingScheduleRecord when the word has no schedule
	// record, and ErrInvalidAnswer when the outcome is unknown.
	SubmitReview(ctx context.Context, wordID uuid.UUID, answer ReviewAnswer) (*ReviewResult, error)
}

// Common error types for ReviewService.
var (
	// ErrMissingScheduleRecord indicates the reviewed word has no schedule
	// record to update.
	ErrMissingScheduleRecord = errors.New("missing schedule record for reviewed word")

	// ErrInvalidAnswer indicates an invalid answer was provided.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// ServiceError wraps errors from the review service with additional context.
// Consumers differentiate failure modes with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review")
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

// NewSubmitReviewError returns a new ServiceError for the submit_review
// operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_review",
		Message:   message,
		Err:       err,
	}
}
