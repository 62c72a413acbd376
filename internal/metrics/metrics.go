package metrics

import (
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the Prometheus metrics for cadence. All methods are safe to
// call on a nil *Metrics, which records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Review metrics
	ReviewsTotal   *prometheus.CounterVec
	ReviewInterval prometheus.Histogram
	DueItems       prometheus.Gauge

	// Session metrics
	SessionsStarted  prometheus.Counter
	SessionsFinished prometheus.Counter
	ResultsRecorded  *prometheus.CounterVec
	SessionAccuracy  prometheus.Histogram

	// Interleaving metrics
	SequenceEffectiveness prometheus.Histogram
	ContextSwitches       prometheus.Histogram

	// System metrics
	SettingsUpdates   prometheus.Counter
	PersistenceErrors *prometheus.CounterVec
}

// New creates the metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ReviewsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_reviews_total",
				Help: "Total number of rated reviews",
			},
			[]string{"outcome"},
		),
		ReviewInterval: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cadence_review_interval_days",
				Help:    "Interval assigned by the scheduler in days",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1d to 512d
			},
		),
		DueItems: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "cadence_due_items",
				Help: "Number of items due for review at the last count",
			},
		),

		SessionsStarted: f.NewCounter(
			prometheus.CounterOpts{
				Name: "cadence_sessions_started_total",
				Help: "Total number of practice sessions started",
			},
		),
		SessionsFinished: f.NewCounter(
			prometheus.CounterOpts{
				Name: "cadence_sessions_finished_total",
				Help: "Total number of practice sessions finished",
			},
		),
		ResultsRecorded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_results_recorded_total",
				Help: "Total number of practice results recorded",
			},
			[]string{"correct"},
		),
		SessionAccuracy: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cadence_session_accuracy",
				Help:    "Overall accuracy of finished sessions",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),

		SequenceEffectiveness: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cadence_sequence_effectiveness",
				Help:    "Effectiveness score of generated interleaved sequences",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
		ContextSwitches: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cadence_sequence_context_switches",
				Help:    "Context switches per generated sequence",
				Buckets: prometheus.LinearBuckets(0, 5, 10),
			},
		),

		SettingsUpdates: f.NewCounter(
			prometheus.CounterOpts{
				Name: "cadence_settings_updates_total",
				Help: "Total number of settings updates and resets",
			},
		),
		PersistenceErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_persistence_errors_total",
				Help: "Persistence failures absorbed by falling back to defaults",
			},
			[]string{"op"},
		),
	}
}

// Gatherer exposes the registry for export.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// RecordReview counts a rated review with outcome "first", "pass" or "lapse".
func (m *Metrics) RecordReview(outcome string, intervalDays int) {
	if m == nil {
		return
	}
	m.ReviewsTotal.WithLabelValues(outcome).Inc()
	m.ReviewInterval.Observe(float64(intervalDays))
}

// SetDue records the most recent due count.
func (m *Metrics) SetDue(n int) {
	if m == nil {
		return
	}
	m.DueItems.Set(float64(n))
}

// SessionStarted counts a started session.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
}

// SessionFinished counts a finished session and its accuracy.
func (m *Metrics) SessionFinished(accuracy float64) {
	if m == nil {
		return
	}
	m.SessionsFinished.Inc()
	m.SessionAccuracy.Observe(accuracy)
}

// ResultRecorded counts one practice result.
func (m *Metrics) ResultRecorded(correct bool) {
	if m == nil {
		return
	}
	m.ResultsRecorded.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// SequenceGenerated observes a generated sequence.
func (m *Metrics) SequenceGenerated(effectiveness float64, switches int) {
	if m == nil {
		return
	}
	m.SequenceEffectiveness.Observe(effectiveness)
	m.ContextSwitches.Observe(float64(switches))
}

// SettingsUpdated counts a settings change.
func (m *Metrics) SettingsUpdated() {
	if m == nil {
		return
	}
	m.SettingsUpdates.Inc()
}

// PersistenceError counts a failed load or save.
func (m *Metrics) PersistenceError(op string) {
	if m == nil {
		return
	}
	m.PersistenceErrors.WithLabelValues(op).Inc()
}

// WriteText writes every metric family in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.Gatherer().Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
