package srs

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
)

// BuildMorningQueue ranks the given active schedule records into a morning
// recovery session for the given study day.
//
// The session has two tiers, concatenated in presentation order:
//
//  1. failed: words whose recovery re-test is due, most overdue first, then
//     most recently failed; capped at params.MorningFailedChunk.
//  2. ready: everything else already due for an ordinary review, uncapped.
//
// Recovery items always precede ordinary backlog. An empty input yields an
// empty queue.
func BuildMorningQueue(
	records []domain.ScheduleRecord,
	currentDay int,
	params *Params,
) []domain.QueueItem {
	var failed []domain.ScheduleRecord
	for _, r := range records {
		if r.RecoveryDueDay != nil && *r.RecoveryDueDay <= currentDay {
			failed = append(failed, r)
		}
	}

	sort.Slice(failed, func(i, j int) bool {
		a, b := failed[i], failed[j]
		if *a.RecoveryDueDay != *b.RecoveryDueDay {
			return *a.RecoveryDueDay < *b.RecoveryDueDay
		}
		if !againAt(a).Equal(againAt(b)) {
			return againAt(a).After(againAt(b))
		}
		return lessWordID(a.WordID, b.WordID)
	})

	if len(failed) > params.MorningFailedChunk {
		failed = failed[:params.MorningFailedChunk]
	}

	chosen := make(map[uuid.UUID]bool, len(failed))
	for _, r := range failed {
		chosen[r.WordID] = true
	}

	var ready []domain.ScheduleRecord
	for _, r := range records {
		if chosen[r.WordID] {
			continue
		}
		if r.NextReviewDay <= currentDay {
			ready = append(ready, r)
		}
	}

	sort.Slice(ready, func(i, j int) bool {
		a, b := ready[i], ready[j]
		if a.NextReviewDay != b.NextReviewDay {
			return a.NextReviewDay < b.NextReviewDay
		}
		if a.IntroducedDay != b.IntroducedDay {
			return a.IntroducedDay < b.IntroducedDay
		}
		return lessWordID(a.WordID, b.WordID)
	})

	queue := make([]domain.QueueItem, 0, len(failed)+len(ready))
	for _, r := range failed {
		queue = append(queue, domain.QueueItem{WordID: r.WordID, Source: domain.QueueSourceFailed})
	}
	for _, r := range ready {
		queue = append(queue, domain.QueueItem{WordID: r.WordID, Source: domain.QueueSourceReady})
	}

	return queue
}

// BuildEveningQueue ranks the given active schedule records into an evening
// intake session for the given study day.
//
// Three tiers fill the queue in strict priority order, each consuming the
// capacity left by the previous one:
//
//  1. backlog: overdue words (due before today); overdue work always
//     outranks everything else.
//  2. ready: words due exactly today.
//  3. new: words introduced today whose first test is planned for this
//     evening, additionally capped at params.MaxNewPerStudyDay.
//
// The total output never exceeds params.EveningQueueCap; a cap of zero
// yields an empty queue regardless of input.
func BuildEveningQueue(
	records []domain.ScheduleRecord,
	currentDay int,
	params *Params,
) []domain.QueueItem {
	capacity := params.EveningQueueCap
	if capacity <= 0 {
		return []domain.QueueItem{}
	}

	var backlog, ready, fresh []domain.ScheduleRecord
	for _, r := range records {
		switch {
		case r.NextReviewDay < currentDay:
			backlog = append(backlog, r)
		case r.NextReviewDay == currentDay:
			ready = append(ready, r)
		}
		if r.IntroducedDay == currentDay &&
			r.FirstTestPhase == domain.PhaseEvening &&
			r.LastReviewedDay == nil {
			fresh = append(fresh, r)
		}
	}

	reviewSort := func(rs []domain.ScheduleRecord) {
		sort.Slice(rs, func(i, j int) bool {
			a, b := rs[i], rs[j]
			if a.NextReviewDay != b.NextReviewDay {
				return a.NextReviewDay < b.NextReviewDay
			}
			if a.IntroducedDay != b.IntroducedDay {
				return a.IntroducedDay < b.IntroducedDay
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return lessWordID(a.WordID, b.WordID)
		})
	}
	reviewSort(backlog)
	reviewSort(ready)

	sort.Slice(fresh, func(i, j int) bool {
		a, b := fresh[i], fresh[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return lessWordID(a.WordID, b.WordID)
	})

	queue := make([]domain.QueueItem, 0, capacity)
	chosen := make(map[uuid.UUID]bool)

	take := func(rs []domain.ScheduleRecord, source domain.QueueSource, limit int) {
		for _, r := range rs {
			if limit <= 0 || len(queue) >= capacity {
				return
			}
			if chosen[r.WordID] {
				continue
			}
			queue = append(queue, domain.QueueItem{WordID: r.WordID, Source: source})
			chosen[r.WordID] = true
			limit--
		}
	}

	take(backlog, domain.QueueSourceBacklog, capacity)
	take(ready, domain.QueueSourceReady, capacity-len(queue))

	newLimit := capacity - len(queue)
	if newLimit > params.MaxNewPerStudyDay {
		newLimit = params.MaxNewPerStudyDay
	}
	take(fresh, domain.QueueSourceNew, newLimit)

	return queue
}

// againAt treats a missing failure timestamp as the zero time so it sorts
// after any real failure in the most-recent-first ordering.
func againAt(r domain.ScheduleRecord) time.Time {
	if r.LastAgainAt == nil {
		return time.Time{}
	}
	return *r.LastAgainAt
}

// lessWordID is the stable tiebreak used by every queue ordering.
func lessWordID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
