package spacedrep

import (
	"time"
)

// LegacyIntervalDays is the review interval assumed for records that carry a
// last review date but neither a next review date nor an interval.
const LegacyIntervalDays = 7

// ReviewRecord holds the persisted spaced repetition state for a single item.
// Timestamps are kept as strings so that records written by older clients, or
// corrupted in storage, can still be loaded and treated as due.
type ReviewRecord struct {
	Rating          int     `json:"rating" yaml:"rating"`
	LastReviewedAt  string  `json:"lastReviewedAt,omitempty" yaml:"lastReviewedAt,omitempty"`
	RepetitionCount int     `json:"repetitionCount" yaml:"repetitionCount"`
	EaseFactor      float64 `json:"easeFactor" yaml:"easeFactor"`
	IntervalDays    int     `json:"intervalDays,omitempty" yaml:"intervalDays,omitempty"`
	NextReviewAt    string  `json:"nextReviewAt,omitempty" yaml:"nextReviewAt,omitempty"`
}

// IsDue reports whether the record is due at now. A nil record is due.
func (r *ReviewRecord) IsDue(now time.Time) bool {
	return IsDue(r, now)
}

// IsDue decides whether an item is due for review. Anything that cannot be
// interpreted (missing or unparseable timestamps) counts as due.
func IsDue(r *ReviewRecord, now time.Time) bool {
	if r == nil || r.LastReviewedAt == "" {
		return true
	}

	if r.NextReviewAt != "" {
		next, ok := parseTimestamp(r.NextReviewAt)
		if !ok {
			return true
		}
		return !now.Before(next)
	}

	last, ok := parseTimestamp(r.LastReviewedAt)
	if !ok {
		return true
	}
	if r.IntervalDays > 0 {
		return daysSince(last, now) >= float64(r.IntervalDays)
	}
	return daysSince(last, now) >= LegacyIntervalDays
}

// DueAt returns the effective due date of the record. The boolean is false
// when no date can be derived.
func (r *ReviewRecord) DueAt() (time.Time, bool) {
	if r == nil {
		return time.Time{}, false
	}
	if r.NextReviewAt != "" {
		if next, ok := parseTimestamp(r.NextReviewAt); ok {
			return next, true
		}
	}
	if r.LastReviewedAt != "" && r.IntervalDays > 0 {
		if last, ok := parseTimestamp(r.LastReviewedAt); ok {
			return last.AddDate(0, 0, r.IntervalDays), true
		}
	}
	return time.Time{}, false
}

// PriorState extracts the scheduling inputs carried by the record.
// Returns nil for a record that has never been rated.
func (r *ReviewRecord) PriorState() *PriorState {
	if r == nil || r.IntervalDays == 0 {
		return nil
	}
	return &PriorState{
		RepetitionCount: r.RepetitionCount,
		EaseFactor:      r.EaseFactor,
		IntervalDays:    r.IntervalDays,
	}
}

// DaysUntilReview returns the number of whole days until the record is due.
// Returns 0 if already due.
func (r *ReviewRecord) DaysUntilReview(now time.Time) int {
	if IsDue(r, now) {
		return 0
	}
	due, ok := r.DueAt()
	if !ok {
		return 0
	}
	return int(due.Sub(now).Hours()/24.0) + 1
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp is the single place persisted timestamps are interpreted.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t the way review records persist it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func daysSince(t, now time.Time) float64 {
	return now.Sub(t).Hours() / 24.0
}
