package spacedrep

import (
	"math"
	"testing"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		in   float64
		want Rating
	}{
		{1, 1},
		{5, 5},
		{0, 3},
		{6, 3},
		{-2, 3},
		{2.5, 3},
		{4.0, 4},
		{math.NaN(), 3},
		{math.Inf(1), 3},
	}
	for _, tt := range tests {
		if got := NormalizeRating(tt.in); got != tt.want {
			t.Errorf("NormalizeRating(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want Rating
	}{
		{"4", 4},
		{" 2 ", 2},
		{"5.0", 5},
		{"4.5", 3},
		{"great", 3},
		{"", 3},
		{"9", 3},
	}
	for _, tt := range tests {
		if got := ParseRating(tt.in); got != tt.want {
			t.Errorf("ParseRating(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRatingLapse(t *testing.T) {
	for r := RatingBlackout; r <= RatingPerfect; r++ {
		want := r < 3
		if r.Lapse() != want {
			t.Errorf("Rating(%d).Lapse() = %v, want %v", r, r.Lapse(), want)
		}
	}
}
