package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/lexday/lexday-api/internal/domain"
)

// Trigger identifies what started a sync attempt.
type Trigger string

const (
	// TriggerManual is a user-initiated sync.
	TriggerManual Trigger = "manual"
	// TriggerForeground fires when the app comes back to the foreground.
	TriggerForeground Trigger = "foreground"
	// TriggerConnectivity fires when network reachability returns.
	TriggerConnectivity Trigger = "connectivity"
	// TriggerRetry is an automatic retry of a failed attempt.
	TriggerRetry Trigger = "retry"
)

// SyncState is the coarse outcome of the most recent sync activity.
type SyncState string

const (
	// SyncStateIdle means no sync has run yet.
	SyncStateIdle SyncState = "idle"
	// SyncStateInFlight means a sync is currently running.
	SyncStateInFlight SyncState = "in_flight"
	// SyncStateSynced means the last attempt completed.
	SyncStateSynced SyncState = "synced"
	// SyncStateRetryScheduled means the last attempt failed and a retry
	// timer is pending.
	SyncStateRetryScheduled SyncState = "retry_scheduled"
	// SyncStateFailed means the attempt ceiling was reached; the app keeps
	// working offline.
	SyncStateFailed SyncState = "failed"
)

// SyncStatus reports the sync loop's position. Failures never block local
// study; they only show up here.
type SyncStatus struct {
	State      SyncState  `json:"state"`
	Trigger    Trigger    `json:"trigger,omitempty"`
	Attempt    int        `json:"attempt"`
	LastError  string     `json:"last_error,omitempty"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
}

// RemoteClient is the remote replica. Pull returns nil when the remote has
// no snapshot yet.
type RemoteClient interface {
	Pull(ctx context.Context) (*domain.SnapshotPayload, error)
	Push(ctx context.Context, snapshot domain.SnapshotPayload) error
}

// SyncService runs the pull/resolve/push cycle against the remote replica.
//
// At most one sync is in flight at a time. Any new trigger cancels a pending
// retry timer; a failed attempt schedules the next retry with capped backoff
// until the attempt ceiling, after which the service reports failed and goes
// quiet until the next external trigger.
type SyncService interface {
	// SyncOnce runs one sync attempt now. If a sync is already in flight
	// the call returns immediately with the in-flight status.
	SyncOnce(ctx context.Context, trigger Trigger) SyncStatus

	// Status returns the current sync status without triggering anything.
	Status() SyncStatus

	// Stop cancels any pending retry timer. Called on shutdown.
	Stop()
}

// ServiceError wraps errors from the sync service with additional context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "pull", "push")
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
