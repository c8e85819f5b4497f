package srs

// StepCount is the number of spaced-repetition steps (0 through 7).
const StepCount = 8

// Params defines all configurable parameters for the scheduling engine.
type Params struct {
	// Intervals maps a step to the number of study days to wait before the
	// word is due again.
	Intervals [StepCount]int

	// MorningFailedChunk caps the failed-recovery tier of a morning session.
	MorningFailedChunk int

	// EveningQueueCap caps the total size of an evening session.
	EveningQueueCap int

	// MaxNewPerStudyDay caps how many freshly introduced words may enter a
	// single evening session.
	MaxNewPerStudyDay int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	MorningFailedChunk int
	EveningQueueCap    int
	MaxNewPerStudyDay  int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		Intervals:          [StepCount]int{1, 1, 2, 4, 7, 15, 30, 60},
		MorningFailedChunk: 15,
		EveningQueueCap:    50,
		MaxNewPerStudyDay:  10,
	}
}

// NewParams creates a new Params instance with custom configuration.
// The interval table itself is fixed; only the session caps are tunable.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MorningFailedChunk > 0 {
		params.MorningFailedChunk = config.MorningFailedChunk
	}
	if config.EveningQueueCap > 0 {
		params.EveningQueueCap = config.EveningQueueCap
	}
	if config.MaxNewPerStudyDay > 0 {
		params.MaxNewPerStudyDay = config.MaxNewPerStudyDay
	}

	return params
}

// ClampStep forces a step value into the valid [0,7] range.
func ClampStep(step int) int {
	if step < 0 {
		return 0
	}
	if step > StepCount-1 {
		return StepCount - 1
	}
	return step
}

// Interval returns the wait in days for the given step. The step is clamped
// into range first, so Interval is total and never fails.
func (p *Params) Interval(step int) int {
	return p.Intervals[ClampStep(step)]
}
