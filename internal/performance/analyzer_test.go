package performance

import (
	"testing"
)

func TestAnalyze_Empty(t *testing.T) {
	if got := Analyze(nil); got != nil {
		t.Errorf("Analyze(nil) = %v, want nil", got)
	}
}

func TestAnalyze_GroupsByTopic(t *testing.T) {
	results := []Result{
		{Topic: "math", Correct: true, ResponseTimeMs: 1000},
		{Topic: "science", Correct: false, ResponseTimeMs: 4000},
		{Topic: "math", Correct: false, ResponseTimeMs: 3000},
		{Topic: "math", Correct: true, ResponseTimeMs: 2000},
	}
	metrics := Analyze(results)
	if len(metrics) != 2 {
		t.Fatalf("len(metrics) = %d, want 2", len(metrics))
	}

	m := metrics[0]
	if m.Topic != "math" {
		t.Errorf("metrics[0].Topic = %q, want math", m.Topic)
	}
	if m.CorrectCount != 2 || m.TotalCount != 3 {
		t.Errorf("math counts = %d/%d, want 2/3", m.CorrectCount, m.TotalCount)
	}
	if m.Accuracy < 0.666 || m.Accuracy > 0.667 {
		t.Errorf("math Accuracy = %f, want ~0.667", m.Accuracy)
	}
	if m.AvgResponseTimeMs != 2000 {
		t.Errorf("math AvgResponseTimeMs = %f, want 2000", m.AvgResponseTimeMs)
	}

	s := metrics[1]
	if s.Topic != "science" || s.Accuracy != 0 || s.AvgResponseTimeMs != 4000 {
		t.Errorf("science metric = %+v", s)
	}
}
