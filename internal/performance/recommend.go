package performance

import (
	"fmt"
	"strings"
)

// Thresholds for the recommendation rules.
const (
	WeakAccuracy       = 0.6
	SlowFactor         = 1.5
	ImbalanceFactor    = 2
	ExcellentAccuracy  = 0.8
	AcceptableAccuracy = 0.6
)

// Recommendation templates.
const (
	msgWeakTopics   = "Focus on your weaker topics: %s"
	msgSlowTopics   = "Time-intensive topics that deserve deeper practice: %s"
	msgUneven       = "Try to spread your practice time more evenly across topics"
	msgExcellent    = "Excellent work! Interleaved practice is paying off"
	msgKeepGoing    = "Good progress, keep practicing with interleaving"
	msgReduceTopics = "Consider practicing fewer topics in parallel until accuracy improves"
	topicListJoiner = ", "
)

// Recommend derives study guidance from per-topic metrics. Messages are
// emitted in a fixed order: weak topics, slow topics, uneven distribution,
// then one overall assessment. Returns nil for empty input.
func Recommend(metrics []Metric) []string {
	if len(metrics) == 0 {
		return nil
	}

	var recs []string

	var weak []string
	for _, m := range metrics {
		if m.Accuracy < WeakAccuracy {
			weak = append(weak, m.Topic)
		}
	}
	if len(weak) > 0 {
		recs = append(recs, fmt.Sprintf(msgWeakTopics, strings.Join(weak, topicListJoiner)))
	}

	meanTime := 0.0
	for _, m := range metrics {
		meanTime += m.AvgResponseTimeMs
	}
	meanTime /= float64(len(metrics))

	var slow []string
	for _, m := range metrics {
		if m.AvgResponseTimeMs > SlowFactor*meanTime {
			slow = append(slow, m.Topic)
		}
	}
	if len(slow) > 0 {
		recs = append(recs, fmt.Sprintf(msgSlowTopics, strings.Join(slow, topicListJoiner)))
	}

	minCount, maxCount := metrics[0].TotalCount, metrics[0].TotalCount
	for _, m := range metrics[1:] {
		minCount = min(minCount, m.TotalCount)
		maxCount = max(maxCount, m.TotalCount)
	}
	if maxCount > ImbalanceFactor*minCount {
		recs = append(recs, msgUneven)
	}

	meanAccuracy := 0.0
	for _, m := range metrics {
		meanAccuracy += m.Accuracy
	}
	meanAccuracy /= float64(len(metrics))

	switch {
	case meanAccuracy >= ExcellentAccuracy:
		recs = append(recs, msgExcellent)
	case meanAccuracy >= AcceptableAccuracy:
		recs = append(recs, msgKeepGoing)
	default:
		recs = append(recs, msgReduceTopics)
	}

	return recs
}
