package performance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommend_Empty(t *testing.T) {
	assert.Nil(t, Recommend(nil))
}

func TestRecommend_Excellent(t *testing.T) {
	recs := Recommend([]Metric{
		{Topic: "math", CorrectCount: 9, TotalCount: 10, Accuracy: 0.9, AvgResponseTimeMs: 1000},
		{Topic: "science", CorrectCount: 8, TotalCount: 10, Accuracy: 0.8, AvgResponseTimeMs: 1100},
	})
	assert.Equal(t, []string{msgExcellent}, recs)
}

func TestRecommend_KeepGoing(t *testing.T) {
	recs := Recommend([]Metric{
		{Topic: "math", CorrectCount: 7, TotalCount: 10, Accuracy: 0.7, AvgResponseTimeMs: 1000},
		{Topic: "science", CorrectCount: 6, TotalCount: 10, Accuracy: 0.65, AvgResponseTimeMs: 1000},
	})
	assert.Equal(t, []string{msgKeepGoing}, recs)
}

func TestRecommend_AllRulesInOrder(t *testing.T) {
	recs := Recommend([]Metric{
		{Topic: "math", CorrectCount: 1, TotalCount: 10, Accuracy: 0.1, AvgResponseTimeMs: 1000},
		{Topic: "science", CorrectCount: 1, TotalCount: 2, Accuracy: 0.5, AvgResponseTimeMs: 1000},
		{Topic: "history", CorrectCount: 2, TotalCount: 4, Accuracy: 0.5, AvgResponseTimeMs: 10000},
	})
	if assert.Len(t, recs, 4) {
		assert.Equal(t, "Focus on your weaker topics: math, science, history", recs[0])
		assert.Equal(t, "Time-intensive topics that deserve deeper practice: history", recs[1])
		assert.Equal(t, msgUneven, recs[2])
		assert.Equal(t, msgReduceTopics, recs[3])
	}
}

func TestRecommend_SlowTopicOnly(t *testing.T) {
	// mean time = (1000+1000+4000)/3 = 2000; 4000 > 3000
	recs := Recommend([]Metric{
		{Topic: "a", CorrectCount: 5, TotalCount: 5, Accuracy: 1, AvgResponseTimeMs: 1000},
		{Topic: "b", CorrectCount: 5, TotalCount: 5, Accuracy: 1, AvgResponseTimeMs: 1000},
		{Topic: "c", CorrectCount: 5, TotalCount: 5, Accuracy: 1, AvgResponseTimeMs: 4000},
	})
	assert.Equal(t, []string{"Time-intensive topics that deserve deeper practice: c", msgExcellent}, recs)
}

func TestRecommend_EvenDistributionBoundary(t *testing.T) {
	// max == 2*min is not uneven
	recs := Recommend([]Metric{
		{Topic: "a", CorrectCount: 4, TotalCount: 4, Accuracy: 1, AvgResponseTimeMs: 500},
		{Topic: "b", CorrectCount: 2, TotalCount: 2, Accuracy: 1, AvgResponseTimeMs: 500},
	})
	for _, r := range recs {
		assert.False(t, strings.Contains(r, "evenly"), "unexpected %q", r)
	}
}
