package spacedrep

// FirstReviewIntervals maps the rating of an item's first review to the
// interval, in days, until its next review.
var FirstReviewIntervals = map[Rating]int{
	1: 1,
	2: 2,
	3: 4,
	4: 7,
	5: 14,
}

const (
	// MinEaseFactor is the floor applied to every ease factor.
	MinEaseFactor = 1.3

	// LapseEasePenalty is subtracted from the ease factor on a lapse.
	LapseEasePenalty = 0.2

	// PassThreshold is the lowest rating that counts as successful recall.
	PassThreshold Rating = 3
)

// Settings configures interval growth.
type Settings struct {
	// BaseInterval is persisted for compatibility; the first review table
	// already fixes the initial interval.
	BaseInterval int     `json:"baseInterval" yaml:"baseInterval"`
	EaseFactor   float64 `json:"easeFactor" yaml:"easeFactor"`
	MinInterval  int     `json:"minInterval" yaml:"minInterval"`
	MaxInterval  int     `json:"maxInterval" yaml:"maxInterval"`
}

// DefaultSettings returns the default spaced repetition settings.
func DefaultSettings() Settings {
	return Settings{
		BaseInterval: 1,
		EaseFactor:   2.5,
		MinInterval:  1,
		MaxInterval:  365,
	}
}

// Normalize repairs settings that would break the interval invariants.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if s.BaseInterval <= 0 {
		s.BaseInterval = def.BaseInterval
	}
	if s.EaseFactor < MinEaseFactor {
		s.EaseFactor = def.EaseFactor
	}
	if s.MinInterval <= 0 {
		s.MinInterval = def.MinInterval
	}
	if s.MaxInterval <= 0 {
		s.MaxInterval = def.MaxInterval
	}
	if s.MaxInterval < s.MinInterval {
		s.MaxInterval = s.MinInterval
	}
	return s
}
