// Package sync merges the local schedule data with a remote replica and
// keeps the two converging. The merge is a pure function; the service around
// it owns the pull/resolve/push cycle, its retry timer, and the guarantee
// that only one sync runs at a time.
package sync

import (
	"sort"

	"github.com/google/uuid"
	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/domain/srs"
)

// Resolve merges a local snapshot with a remote one. A nil remote returns
// the local snapshot unchanged. The result is deterministic: records come
// back sorted by word ID, and resolving the result against itself yields
// the result again.
//
// Cycle state: the side with the larger study day wins; ties fall to the
// higher phase rank, then the newer UpdatedAt, then local.
//
// Schedule records: union by word ID. A record present on one side only
// passes through; when both sides have one, the side with the larger
// last-reviewed day wins (never reviewed counts as smallest), ties fall to
// the newer UpdatedAt, then local. Every record selected during a merge runs
// through the sanitizer, because field-wise winners from different replicas
// can pair into an internally inconsistent record.
//
// Words: union by ID, so a word created on one device reaches the other
// together with its schedule record. When both sides carry the word, the
// newer UpdatedAt wins and ties keep local.
func Resolve(local domain.SnapshotPayload, remote *domain.SnapshotPayload, params *srs.Params) domain.SnapshotPayload {
	if remote == nil {
		return cloneSnapshot(local)
	}

	merged := domain.SnapshotPayload{
		Cycle: *pickCycle(&local.Cycle, &remote.Cycle).Clone(),
		Words: mergeWords(local.Words, remote.Words),
	}

	localByID := recordsByID(local.Records)
	remoteByID := recordsByID(remote.Records)

	ids := make([]uuid.UUID, 0, len(localByID)+len(remoteByID))
	for id := range localByID {
		ids = append(ids, id)
	}
	for id := range remoteByID {
		if _, seen := localByID[id]; !seen {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return lessUUID(ids[i], ids[j])
	})

	merged.Records = make([]domain.ScheduleRecord, 0, len(ids))
	for _, id := range ids {
		localRec, inLocal := localByID[id]
		remoteRec, inRemote := remoteByID[id]

		var winner *domain.ScheduleRecord
		switch {
		case inLocal && inRemote:
			winner = pickRecord(localRec, remoteRec)
		case inLocal:
			winner = localRec
		default:
			winner = remoteRec
		}

		merged.Records = append(merged.Records, *srs.Sanitize(winner, params))
	}

	return merged
}

// mergeWords unions the two word sets by ID, sorted for determinism.
func mergeWords(local, remote []domain.Word) []domain.Word {
	localByID := make(map[uuid.UUID]*domain.Word, len(local))
	for i := range local {
		localByID[local[i].ID] = &local[i]
	}

	ids := make([]uuid.UUID, 0, len(local)+len(remote))
	for i := range local {
		ids = append(ids, local[i].ID)
	}
	remoteByID := make(map[uuid.UUID]*domain.Word, len(remote))
	for i := range remote {
		remoteByID[remote[i].ID] = &remote[i]
		if _, seen := localByID[remote[i].ID]; !seen {
			ids = append(ids, remote[i].ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return lessUUID(ids[i], ids[j])
	})

	merged := make([]domain.Word, 0, len(ids))
	for _, id := range ids {
		localWord, inLocal := localByID[id]
		remoteWord, inRemote := remoteByID[id]

		var winner *domain.Word
		switch {
		case inLocal && inRemote:
			winner = localWord
			if remoteWord.UpdatedAt.After(localWord.UpdatedAt) {
				winner = remoteWord
			}
		case inLocal:
			winner = localWord
		default:
			winner = remoteWord
		}

		merged = append(merged, *winner.Clone())
	}

	return merged
}

// pickCycle selects the winning cycle state. Local wins all final ties.
func pickCycle(local, remote *domain.CycleState) *domain.CycleState {
	if remote.Day != local.Day {
		if remote.Day > local.Day {
			return remote
		}
		return local
	}
	if remote.Phase.Rank() != local.Phase.Rank() {
		if remote.Phase.Rank() > local.Phase.Rank() {
			return remote
		}
		return local
	}
	if remote.UpdatedAt.After(local.UpdatedAt) {
		return remote
	}
	return local
}

// pickRecord selects the winning schedule record for one word. Local wins
// all final ties.
func pickRecord(local, remote *domain.ScheduleRecord) *domain.ScheduleRecord {
	localDay := lastReviewedOrMin(local)
	remoteDay := lastReviewedOrMin(remote)
	if remoteDay != localDay {
		if remoteDay > localDay {
			return remote
		}
		return local
	}
	if remote.UpdatedAt.After(local.UpdatedAt) {
		return remote
	}
	return local
}

// lastReviewedOrMin treats a never-reviewed record as older than any
// reviewed one.
func lastReviewedOrMin(r *domain.ScheduleRecord) int {
	if r.LastReviewedDay == nil {
		return -1 << 31
	}
	return *r.LastReviewedDay
}

func recordsByID(records []domain.ScheduleRecord) map[uuid.UUID]*domain.ScheduleRecord {
	byID := make(map[uuid.UUID]*domain.ScheduleRecord, len(records))
	for i := range records {
		byID[records[i].WordID] = &records[i]
	}
	return byID
}

func cloneSnapshot(snapshot domain.SnapshotPayload) domain.SnapshotPayload {
	out := domain.SnapshotPayload{
		Cycle:   *snapshot.Cycle.Clone(),
		Words:   make([]domain.Word, 0, len(snapshot.Words)),
		Records: make([]domain.ScheduleRecord, 0, len(snapshot.Records)),
	}
	for i := range snapshot.Words {
		out.Words = append(out.Words, *snapshot.Words[i].Clone())
	}
	for i := range snapshot.Records {
		out.Records = append(out.Records, *snapshot.Records[i].Clone())
	}
	return out
}

func lessUUID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
