package sync

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexday/lexday-api/internal/domain"
	"github.com/lexday/lexday-api/internal/domain/srs"
)

func cycleAt(day int, phase domain.Phase, updated time.Time) domain.CycleState {
	return domain.CycleState{
		Day:          day,
		Phase:        phase,
		LastOpenedAt: updated,
		UpdatedAt:    updated,
	}
}

func recordAt(t *testing.T, id uuid.UUID, lastReviewed *int, updated time.Time) domain.ScheduleRecord {
	t.Helper()
	record, err := domain.NewScheduleRecord(id, 0, 1)
	require.NoError(t, err)
	record.UpdatedAt = updated
	if lastReviewed != nil {
		day := *lastReviewed
		phase := domain.PhaseMorning
		outcome := domain.ReviewOutcomeCorrect
		record.LastReviewedDay = &day
		record.LastReviewedPhase = &phase
		record.LastOutcome = &outcome
		record.NextReviewDay = day + 1
	}
	return *record
}

func wordAt(id uuid.UUID, term string, updated time.Time) domain.Word {
	return domain.Word{
		ID:          id,
		Term:        term,
		Translation: term + "-translation",
		CreatedAt:   updated,
		UpdatedAt:   updated,
	}
}

func intPtr(v int) *int { return &v }

func TestResolveNilRemoteReturnsLocal(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	id := uuid.New()
	local := domain.SnapshotPayload{
		Cycle:   cycleAt(4, domain.PhaseLunch, now),
		Words:   []domain.Word{wordAt(id, "hund", now)},
		Records: []domain.ScheduleRecord{recordAt(t, id, intPtr(3), now)},
	}

	merged := Resolve(local, nil, srs.NewDefaultParams())

	assert.Equal(t, local, merged)

	// The result must not alias the input.
	merged.Records[0].Step = 5
	merged.Words[0].Term = "changed"
	assert.Equal(t, 0, local.Records[0].Step)
	assert.Equal(t, "hund", local.Words[0].Term)
}

func TestResolveCycleTieBreakChain(t *testing.T) {
	t.Parallel()
	older := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	params := srs.NewDefaultParams()

	testCases := []struct {
		name   string
		local  domain.CycleState
		remote domain.CycleState
		want   domain.CycleState
	}{
		{
			name:   "larger day wins regardless of timestamp",
			local:  cycleAt(3, domain.PhaseEvening, newer),
			remote: cycleAt(4, domain.PhaseMorning, older),
			want:   cycleAt(4, domain.PhaseMorning, older),
		},
		{
			name:   "same day falls to phase rank",
			local:  cycleAt(5, domain.PhaseLunch, newer),
			remote: cycleAt(5, domain.PhaseEvening, older),
			want:   cycleAt(5, domain.PhaseEvening, older),
		},
		{
			name:   "same day and phase falls to newer timestamp",
			local:  cycleAt(5, domain.PhaseLunch, older),
			remote: cycleAt(5, domain.PhaseLunch, newer),
			want:   cycleAt(5, domain.PhaseLunch, newer),
		},
		{
			name:   "full tie keeps local",
			local:  cycleAt(5, domain.PhaseLunch, newer),
			remote: cycleAt(5, domain.PhaseLunch, newer),
			want:   cycleAt(5, domain.PhaseLunch, newer),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			local := domain.SnapshotPayload{Cycle: tc.local}
			remote := domain.SnapshotPayload{Cycle: tc.remote}

			merged := Resolve(local, &remote, params)
			assert.Equal(t, tc.want, merged.Cycle)
		})
	}
}

func TestResolveRecordConflicts(t *testing.T) {
	t.Parallel()
	older := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	params := srs.NewDefaultParams()
	id := uuid.New()

	t.Run("larger last reviewed day wins", func(t *testing.T) {
		t.Parallel()
		local := domain.SnapshotPayload{Records: []domain.ScheduleRecord{recordAt(t, id, intPtr(2), newer)}}
		remote := domain.SnapshotPayload{Records: []domain.ScheduleRecord{recordAt(t, id, intPtr(6), older)}}

		merged := Resolve(local, &remote, params)
		require.Len(t, merged.Records, 1)
		assert.Equal(t, 6, *merged.Records[0].LastReviewedDay)
	})

	t.Run("reviewed beats never reviewed", func(t *testing.T) {
		t.Parallel()
		local := domain.SnapshotPayload{Records: []domain.ScheduleRecord{recordAt(t, id, nil, newer)}}
		remote := domain.SnapshotPayload{Records: []domain.ScheduleRecord{recordAt(t, id, intPtr(0), older)}}

		merged := Resolve(local, &remote, params)
		require.Len(t, merged.Records, 1)
		require.NotNil(t, merged.Records[0].LastReviewedDay)
		assert.Equal(t, 0, *merged.Records[0].LastReviewedDay)
	})

	t.Run("same day falls to newer timestamp", func(t *testing.T) {
		t.Parallel()
		localRec := recordAt(t, id, intPtr(3), older)
		localRec.Step = 1
		remoteRec := recordAt(t, id, intPtr(3), newer)
		remoteRec.Step = 2

		local := domain.SnapshotPayload{Records: []domain.ScheduleRecord{localRec}}
		remote := domain.SnapshotPayload{Records: []domain.ScheduleRecord{remoteRec}}

		merged := Resolve(local, &remote, params)
		require.Len(t, merged.Records, 1)
		assert.Equal(t, 2, merged.Records[0].Step)
	})

	t.Run("full tie keeps local", func(t *testing.T) {
		t.Parallel()
		localRec := recordAt(t, id, intPtr(3), older)
		localRec.Step = 1
		localRec.NextReviewDay = 4
		remoteRec := recordAt(t, id, intPtr(3), older)
		remoteRec.Step = 2
		remoteRec.NextReviewDay = 5

		local := domain.SnapshotPayload{Records: []domain.ScheduleRecord{localRec}}
		remote := domain.SnapshotPayload{Records: []domain.ScheduleRecord{remoteRec}}

		merged := Resolve(local, &remote, params)
		require.Len(t, merged.Records, 1)
		assert.Equal(t, 1, merged.Records[0].Step)
	})
}

func TestResolveUnionsOneSidedRecords(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	params := srs.NewDefaultParams()

	localOnly := recordAt(t, uuid.New(), nil, now)
	remoteOnly := recordAt(t, uuid.New(), nil, now)
	local := domain.SnapshotPayload{Records: []domain.ScheduleRecord{localOnly}}
	remote := domain.SnapshotPayload{Records: []domain.ScheduleRecord{remoteOnly}}

	merged := Resolve(local, &remote, params)
	require.Len(t, merged.Records, 2)

	ids := []uuid.UUID{merged.Records[0].WordID, merged.Records[1].WordID}
	assert.Contains(t, ids, localOnly.WordID)
	assert.Contains(t, ids, remoteOnly.WordID)
	assert.True(t, lessUUID(ids[0], ids[1]), "records come back sorted by word ID")
}

func TestResolveMergesWords(t *testing.T) {
	t.Parallel()
	older := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	params := srs.NewDefaultParams()

	shared := uuid.New()
	localOnly := wordAt(uuid.New(), "hund", older)
	remoteOnly := wordAt(uuid.New(), "katze", older)

	local := domain.SnapshotPayload{
		Words: []domain.Word{localOnly, wordAt(shared, "maus", older)},
	}
	sharedEdited := wordAt(shared, "maus (edited)", newer)
	remote := domain.SnapshotPayload{
		Words: []domain.Word{remoteOnly, sharedEdited},
	}

	merged := Resolve(local, &remote, params)
	require.Len(t, merged.Words, 3)

	byID := make(map[uuid.UUID]domain.Word, len(merged.Words))
	for _, w := range merged.Words {
		byID[w.ID] = w
	}
	assert.Equal(t, "hund", byID[localOnly.ID].Term, "local-only word passes through")
	assert.Equal(t, "katze", byID[remoteOnly.ID].Term, "remote-only word passes through")
	assert.Equal(t, "maus (edited)", byID[shared].Term, "newer edit wins the shared word")

	for i := 1; i < len(merged.Words); i++ {
		assert.True(t, lessUUID(merged.Words[i-1].ID, merged.Words[i].ID), "words come back sorted by ID")
	}
}

func TestResolveSanitizesMergedRecords(t *testing.T) {
	t.Parallel()
	older := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	params := srs.NewDefaultParams()
	id := uuid.New()

	// The winner pairs a high last-reviewed day with a stale next-review
	// day; the sanitizer must lift the due day back above the floor.
	winner := recordAt(t, id, intPtr(10), newer)
	winner.Step = 3
	winner.NextReviewDay = 2

	local := domain.SnapshotPayload{Records: []domain.ScheduleRecord{recordAt(t, id, intPtr(1), older)}}
	remote := domain.SnapshotPayload{Records: []domain.ScheduleRecord{winner}}

	merged := Resolve(local, &remote, params)
	require.Len(t, merged.Records, 1)
	assert.Equal(t, 10+params.Interval(3), merged.Records[0].NextReviewDay)
}

func TestResolveIsIdempotent(t *testing.T) {
	t.Parallel()
	older := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	params := srs.NewDefaultParams()
	shared := uuid.New()

	local := domain.SnapshotPayload{
		Cycle: cycleAt(3, domain.PhaseEvening, older),
		Words: []domain.Word{wordAt(shared, "maus", older)},
		Records: []domain.ScheduleRecord{
			recordAt(t, shared, intPtr(2), newer),
			recordAt(t, uuid.New(), nil, older),
		},
	}
	remote := domain.SnapshotPayload{
		Cycle: cycleAt(4, domain.PhaseMorning, newer),
		Words: []domain.Word{wordAt(shared, "maus", newer)},
		Records: []domain.ScheduleRecord{
			recordAt(t, shared, intPtr(3), older),
			recordAt(t, uuid.New(), intPtr(1), newer),
		},
	}

	once := Resolve(local, &remote, params)
	twice := Resolve(once, &once, params)

	assert.Equal(t, once, twice)
}
