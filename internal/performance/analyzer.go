// Package performance turns practice results into per-topic metrics and
// study guidance.
package performance

// Result is one answered item as recorded during practice.
type Result struct {
	Topic          string `json:"topic"`
	Correct        bool   `json:"correct"`
	ResponseTimeMs int64  `json:"responseTimeMs"`
}

// Metric aggregates results for a single topic.
type Metric struct {
	Topic             string  `json:"topic"`
	CorrectCount      int     `json:"correctCount"`
	TotalCount        int     `json:"totalCount"`
	Accuracy          float64 `json:"accuracy"`
	AvgResponseTimeMs float64 `json:"avgResponseTimeMs"`
}

// Analyze groups results by topic, in the order topics first appear.
// Returns nil for empty input.
func Analyze(results []Result) []Metric {
	if len(results) == 0 {
		return nil
	}

	type acc struct {
		correct int
		total   int
		timeSum int64
	}
	byTopic := make(map[string]*acc)
	var order []string

	for _, r := range results {
		a, ok := byTopic[r.Topic]
		if !ok {
			a = &acc{}
			byTopic[r.Topic] = a
			order = append(order, r.Topic)
		}
		a.total++
		a.timeSum += r.ResponseTimeMs
		if r.Correct {
			a.correct++
		}
	}

	metrics := make([]Metric, 0, len(order))
	for _, topic := range order {
		a := byTopic[topic]
		metrics = append(metrics, Metric{
			Topic:             topic,
			CorrectCount:      a.correct,
			TotalCount:        a.total,
			Accuracy:          float64(a.correct) / float64(a.total),
			AvgResponseTimeMs: float64(a.timeSum) / float64(a.total),
		})
	}
	return metrics
}
