package spacedrep

import (
	"math"
	"strconv"
	"strings"
)

// Rating is the learner's 1-5 self assessment of recall.
type Rating int

const (
	RatingBlackout Rating = 1
	RatingHard     Rating = 2
	RatingOkay     Rating = 3
	RatingGood     Rating = 4
	RatingPerfect  Rating = 5

	// DefaultRating replaces any rating that cannot be used.
	DefaultRating = RatingOkay
)

// Valid reports whether r lies in 1..5.
func (r Rating) Valid() bool {
	return r >= RatingBlackout && r <= RatingPerfect
}

// Lapse reports whether r is below the pass threshold.
func (r Rating) Lapse() bool {
	return r < PassThreshold
}

func (r Rating) normalize() Rating {
	if !r.Valid() {
		return DefaultRating
	}
	return r
}

// NormalizeRating coerces arbitrary numeric input to a usable rating.
// Non-integers, NaN and values outside 1..5 become DefaultRating.
func NormalizeRating(v float64) Rating {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return DefaultRating
	}
	return Rating(int(v)).normalize()
}

// ParseRating coerces user text to a rating, never failing.
func ParseRating(s string) Rating {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return DefaultRating
	}
	return NormalizeRating(v)
}
