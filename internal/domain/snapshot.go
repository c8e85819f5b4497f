package domain

import "github.com/google/uuid"

// QueueSource identifies which selection tier put an item into a session
// queue.
type QueueSource string

// Queue source tiers. Morning sessions use failed-recovery and ready-review;
// evening sessions use backlog, ready, and new.
const (
	QueueSourceFailed  QueueSource = "failed"
	QueueSourceReady   QueueSource = "ready"
	QueueSourceBacklog QueueSource = "backlog"
	QueueSourceNew     QueueSource = "new"
)

// QueueItem is one ranked entry of a study session. Queue items are ephemeral
// query results and are never persisted.
type QueueItem struct {
	WordID uuid.UUID   `json:"word_id"`
	Source QueueSource `json:"source"`
}

// SnapshotPayload is a full point-in-time copy of the schedule data: the
// cycle state, every word, and every schedule record. It is the unit
// exchanged with the sync remote and the immutable input of the conflict
// resolver. Words travel with their schedule records so a record created on
// another device can be stored without violating referential integrity.
type SnapshotPayload struct {
	Cycle   CycleState       `json:"cycle"`
	Words   []Word           `json:"words"`
	Records []ScheduleRecord `json:"records"`
}
