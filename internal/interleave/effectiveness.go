package interleave

import "math"

// Effectiveness scores how evenly items are spread across topics: 1 for a
// perfectly even split, falling to 0 as items concentrate in one topic.
// Fewer than two contributing topics score 0.
func Effectiveness(dist map[string]int) float64 {
	n := 0
	total := 0
	for _, c := range dist {
		if c > 0 {
			n++
			total += c
		}
	}
	if n < 2 {
		return 0
	}

	mean := float64(total) / float64(n)
	variance := 0.0
	for _, c := range dist {
		if c > 0 {
			d := float64(c) - mean
			variance += d * d
		}
	}
	variance /= float64(n)

	// Variance of the same total concentrated in a single topic.
	maxVariance := float64(total) * float64(total) * float64(n-1) / float64(n*n)
	if maxVariance == 0 {
		return 0
	}
	return math.Max(0, 1-variance/maxVariance)
}
