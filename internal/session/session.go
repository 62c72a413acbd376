// Package session owns practice sessions: the single active session, the
// bounded history of finished ones, and the learner's scheduling settings.
package session

import (
	"time"

	"github.com/abhisek/cadence/internal/interleave"
	"github.com/abhisek/cadence/internal/performance"
)

// MaxHistory is the number of finished sessions kept, most recent first.
const MaxHistory = 50

// DefaultStatisticsLimit is the number of history entries Statistics
// considers when no limit is given.
const DefaultStatisticsLimit = 100

// topTopicsCount is the number of topics reported by Statistics.
const topTopicsCount = 5

// Result is one answered item within a session.
type Result struct {
	Topic          string    `json:"topic"`
	Item           string    `json:"item"`
	Correct        bool      `json:"correct"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	RecordedAt     time.Time `json:"recordedAt"`
}

// PracticeSession is a single practice run over a set of topic groups.
type PracticeSession struct {
	ID              string                  `json:"id"`
	StartedAt       time.Time               `json:"startedAt"`
	EndedAt         *time.Time              `json:"endedAt,omitempty"`
	TopicGroups     []interleave.TopicGroup `json:"topicGroups"`
	Results         []Result                `json:"results"`
	Metrics         []performance.Metric    `json:"metrics,omitempty"`
	Recommendations []string                `json:"recommendations,omitempty"`
}

// Duration returns how long a finished session lasted, and false for a
// session that has not ended.
func (s *PracticeSession) Duration() (time.Duration, bool) {
	if s.EndedAt == nil {
		return 0, false
	}
	return s.EndedAt.Sub(s.StartedAt), true
}

// Accuracy returns the fraction of correct results, or 0 with no results.
func (s *PracticeSession) Accuracy() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	correct := 0
	for _, r := range s.Results {
		if r.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(s.Results))
}

// performanceResults converts the session's results for analysis.
func (s *PracticeSession) performanceResults() []performance.Result {
	out := make([]performance.Result, len(s.Results))
	for i, r := range s.Results {
		out[i] = performance.Result{
			Topic:          r.Topic,
			Correct:        r.Correct,
			ResponseTimeMs: r.ResponseTimeMs,
		}
	}
	return out
}

// clone returns a deep copy so callers cannot mutate manager state.
func (s *PracticeSession) clone() *PracticeSession {
	if s == nil {
		return nil
	}
	c := *s
	if s.EndedAt != nil {
		ended := *s.EndedAt
		c.EndedAt = &ended
	}
	c.TopicGroups = cloneGroups(s.TopicGroups)
	c.Results = append([]Result(nil), s.Results...)
	c.Metrics = append([]performance.Metric(nil), s.Metrics...)
	c.Recommendations = append([]string(nil), s.Recommendations...)
	return &c
}

func cloneGroups(groups []interleave.TopicGroup) []interleave.TopicGroup {
	out := make([]interleave.TopicGroup, len(groups))
	for i, g := range groups {
		g.Items = append([]string(nil), g.Items...)
		out[i] = g
	}
	return out
}
