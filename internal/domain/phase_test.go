package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvancePhase(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		phase       Phase
		day         int
		wantPhase   Phase
		wantDay     int
		wantAdvance bool
	}{
		{
			name:        "morning moves to lunch on the same day",
			phase:       PhaseMorning,
			day:         4,
			wantPhase:   PhaseLunch,
			wantDay:     4,
			wantAdvance: false,
		},
		{
			name:        "lunch moves to evening on the same day",
			phase:       PhaseLunch,
			day:         4,
			wantPhase:   PhaseEvening,
			wantDay:     4,
			wantAdvance: false,
		},
		{
			name:        "evening rolls over to the next morning",
			phase:       PhaseEvening,
			day:         4,
			wantPhase:   PhaseMorning,
			wantDay:     5,
			wantAdvance: true,
		},
		{
			name:        "day zero evening still advances",
			phase:       PhaseEvening,
			day:         0,
			wantPhase:   PhaseMorning,
			wantDay:     1,
			wantAdvance: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AdvancePhase(tc.phase, tc.day)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPhase, got.NextPhase)
			assert.Equal(t, tc.wantDay, got.NextDay)
			assert.Equal(t, tc.wantAdvance, got.DayAdvanced)
		})
	}
}

func TestAdvancePhaseInvalid(t *testing.T) {
	t.Parallel()

	_, err := AdvancePhase(Phase("midnight"), 3)
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestFullCycleAdvancesDayExactlyOnce(t *testing.T) {
	t.Parallel()

	phase := PhaseMorning
	day := 9
	advances := 0

	for i := 0; i < 3; i++ {
		tr, err := AdvancePhase(phase, day)
		require.NoError(t, err)
		if tr.DayAdvanced {
			advances++
			assert.Equal(t, PhaseEvening, phase, "only evening completion may advance the day")
		}
		phase = tr.NextPhase
		day = tr.NextDay
	}

	assert.Equal(t, 1, advances)
	assert.Equal(t, 10, day)
	assert.Equal(t, PhaseMorning, phase)
}

func TestPhaseRankOrdering(t *testing.T) {
	t.Parallel()

	assert.Less(t, PhaseMorning.Rank(), PhaseLunch.Rank())
	assert.Less(t, PhaseLunch.Rank(), PhaseEvening.Rank())
	assert.Equal(t, -1, Phase("").Rank())
	assert.False(t, Phase("dawn").IsValid())
}
