package interleave

// Settings configures sequence generation.
type Settings struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// ContextSwitchFrequency forces a topic change every N items (1-5).
	ContextSwitchFrequency int `json:"contextSwitchFrequency" yaml:"contextSwitchFrequency"`

	// MinTopicsToInterleave is the number of non-empty topics required
	// before items are mixed at all.
	MinTopicsToInterleave int `json:"minTopicsToInterleave" yaml:"minTopicsToInterleave"`

	// ShuffleIntensity scales topic weights during selection (1-5).
	ShuffleIntensity int `json:"shuffleIntensity" yaml:"shuffleIntensity"`
}

const (
	minFrequency = 1
	maxFrequency = 5
	minIntensity = 1
	maxIntensity = 5
)

// DefaultSettings returns the default interleaving settings.
func DefaultSettings() Settings {
	return Settings{
		Enabled:                true,
		ContextSwitchFrequency: 3,
		MinTopicsToInterleave:  2,
		ShuffleIntensity:       3,
	}
}

// Normalize clamps every field into its valid range. Zero values take the
// default.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	s.ContextSwitchFrequency = clampOr(s.ContextSwitchFrequency, minFrequency, maxFrequency, def.ContextSwitchFrequency)
	s.ShuffleIntensity = clampOr(s.ShuffleIntensity, minIntensity, maxIntensity, def.ShuffleIntensity)
	if s.MinTopicsToInterleave < 1 {
		s.MinTopicsToInterleave = 1
	}
	return s
}

func clampOr(v, lo, hi, zero int) int {
	switch {
	case v == 0:
		return zero
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
