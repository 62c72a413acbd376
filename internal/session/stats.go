package session

import (
	"sort"
	"time"
)

// TopicCount is the number of results recorded for a topic.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Statistics summarizes recent finished sessions.
type Statistics struct {
	SessionCount    int           `json:"sessionCount"`
	TotalResults    int           `json:"totalResults"`
	OverallAccuracy float64       `json:"overallAccuracy"`
	AverageDuration time.Duration `json:"averageDuration"`
	TopTopics       []TopicCount  `json:"topTopics"`
}

// Statistics summarizes the most recent limit sessions in the history. A
// non-positive limit uses DefaultStatisticsLimit.
func (m *Manager) Statistics(limit int) Statistics {
	return Summarize(m.History(), limit)
}

// Summarize computes Statistics over the first limit sessions.
func Summarize(sessions []PracticeSession, limit int) Statistics {
	if limit <= 0 {
		limit = DefaultStatisticsLimit
	}
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}

	var st Statistics
	st.SessionCount = len(sessions)

	var (
		correct  int
		ended    int
		duration time.Duration
		counts   = make(map[string]int)
	)
	for i := range sessions {
		s := &sessions[i]
		for _, r := range s.Results {
			st.TotalResults++
			if r.Correct {
				correct++
			}
			counts[r.Topic]++
		}
		if d, ok := s.Duration(); ok {
			ended++
			duration += d
		}
	}

	if st.TotalResults > 0 {
		st.OverallAccuracy = float64(correct) / float64(st.TotalResults)
	}
	if ended > 0 {
		st.AverageDuration = duration / time.Duration(ended)
	}
	st.TopTopics = topTopics(counts, topTopicsCount)
	return st
}

// topTopics returns the n topics with the most results, ties by name.
func topTopics(counts map[string]int, n int) []TopicCount {
	out := make([]TopicCount, 0, len(counts))
	for topic, c := range counts {
		out = append(out, TopicCount{Topic: topic, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
