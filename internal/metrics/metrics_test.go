package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordReview("first", 4)
	m.SessionStarted()
	m.SessionFinished(0.5)
	m.ResultRecorded(true)
	m.SequenceGenerated(0.9, 3)
	m.SettingsUpdated()
	m.PersistenceError("load")
	m.SetDue(3)
	assert.NoError(t, m.WriteText(&bytes.Buffer{}))
}

func TestCounters(t *testing.T) {
	m := New()
	m.RecordReview("lapse", 1)
	m.RecordReview("lapse", 1)
	m.RecordReview("pass", 10)
	m.ResultRecorded(true)
	m.ResultRecorded(false)
	m.ResultRecorded(true)
	m.SessionStarted()
	m.SetDue(12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReviewsTotal.WithLabelValues("lapse")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsTotal.WithLabelValues("pass")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ResultsRecorded.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsStarted))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.DueItems))
}

func TestWriteText(t *testing.T) {
	m := New()
	m.SessionStarted()

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), "cadence_sessions_started_total 1")
}
