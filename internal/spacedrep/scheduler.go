package spacedrep

import (
	"math"
	"time"
)

// PriorState is the scheduling state left by an item's previous review.
type PriorState struct {
	RepetitionCount int
	EaseFactor      float64
	IntervalDays    int
}

// Result is the outcome of scheduling one review.
type Result struct {
	IntervalDays    int
	EaseFactor      float64
	RepetitionCount int
	NextReviewDate  time.Time
	Lapse           bool
	First           bool
}

// Schedule computes the next interval, ease factor and due date for an item
// rated at now. Invalid ratings are treated as DefaultRating; prior may be nil
// for an item that has never been reviewed.
func Schedule(rating Rating, prior *PriorState, s Settings, now time.Time) Result {
	rating = rating.normalize()
	s = s.Normalize()

	var res Result
	switch {
	case prior == nil || prior.IntervalDays <= 0:
		res.First = true
		res.IntervalDays = FirstReviewIntervals[rating]
		res.EaseFactor = s.EaseFactor
		res.RepetitionCount = 1

	case rating.Lapse():
		priorEase := priorEaseFactor(prior, s)
		res.Lapse = true
		res.IntervalDays = s.MinInterval
		res.EaseFactor = math.Max(MinEaseFactor, priorEase-LapseEasePenalty)
		res.RepetitionCount = prior.RepetitionCount + 1

	default:
		priorEase := priorEaseFactor(prior, s)
		q := float64(5 - rating)
		ease := math.Max(MinEaseFactor, priorEase+0.1-q*(0.08+q*0.02))
		res.EaseFactor = ease
		res.IntervalDays = int(math.Round(float64(prior.IntervalDays) * ease))
		res.RepetitionCount = prior.RepetitionCount + 1
	}

	res.IntervalDays = clampInterval(res.IntervalDays, s)
	res.EaseFactor = roundEase(res.EaseFactor)
	res.NextReviewDate = now.AddDate(0, 0, res.IntervalDays)
	return res
}

// Review schedules the next review of rec and returns the updated record.
// rec may be nil for an item that has never been reviewed.
func Review(rec *ReviewRecord, rating Rating, s Settings, now time.Time) (*ReviewRecord, Result) {
	rating = rating.normalize()
	res := Schedule(rating, rec.PriorState(), s, now)
	return res.Apply(rating, now), res
}

// Apply turns the result into the record persisted for the item.
func (r Result) Apply(rating Rating, now time.Time) *ReviewRecord {
	return &ReviewRecord{
		Rating:          int(rating.normalize()),
		LastReviewedAt:  FormatTimestamp(now),
		RepetitionCount: r.RepetitionCount,
		EaseFactor:      r.EaseFactor,
		IntervalDays:    r.IntervalDays,
		NextReviewAt:    FormatTimestamp(r.NextReviewDate),
	}
}

func priorEaseFactor(prior *PriorState, s Settings) float64 {
	if prior.EaseFactor <= 0 {
		return s.EaseFactor
	}
	return prior.EaseFactor
}

func clampInterval(days int, s Settings) int {
	if days < s.MinInterval {
		return s.MinInterval
	}
	if days > s.MaxInterval {
		return s.MaxInterval
	}
	return days
}

func roundEase(v float64) float64 {
	return math.Round(v*100) / 100
}
