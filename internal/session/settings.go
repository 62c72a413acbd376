package session

import (
	"github.com/abhisek/cadence/internal/interleave"
	"github.com/abhisek/cadence/internal/spacedrep"
	"github.com/abhisek/cadence/internal/store"
)

// Persistence keys.
const (
	KeySpacedRepetition = "settings.spacedRepetition"
	KeyInterleaving     = "settings.interleaving"
	KeyHistory          = "session.history"
	KeyActive           = "session.active"
)

// Settings are the learner-adjustable scheduling parameters.
type Settings struct {
	SpacedRepetition spacedrep.Settings  `json:"spacedRepetition" yaml:"spacedRepetition"`
	Interleaving     interleave.Settings `json:"interleaving" yaml:"interleaving"`
}

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		SpacedRepetition: spacedrep.DefaultSettings(),
		Interleaving:     interleave.DefaultSettings(),
	}
}

// Normalize coerces every field into its valid range.
func (s Settings) Normalize() Settings {
	return Settings{
		SpacedRepetition: s.SpacedRepetition.Normalize(),
		Interleaving:     s.Interleaving.Normalize(),
	}
}

var spacedRepetitionSchema = store.NewSchema("settings-spaced-repetition", `{
	"type": "object",
	"properties": {
		"baseInterval": {"type": "integer", "minimum": 0},
		"easeFactor": {"type": "number", "minimum": 0},
		"minInterval": {"type": "integer", "minimum": 0},
		"maxInterval": {"type": "integer", "minimum": 0}
	}
}`)

var interleavingSchema = store.NewSchema("settings-interleaving", `{
	"type": "object",
	"properties": {
		"enabled": {"type": "boolean"},
		"contextSwitchFrequency": {"type": "integer"},
		"minTopicsToInterleave": {"type": "integer"},
		"shuffleIntensity": {"type": "integer"}
	}
}`)
