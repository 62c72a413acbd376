package spacedrep

import (
	"sort"
	"time"
)

// UndatedOrder controls where items without any derivable due date sort.
type UndatedOrder int

const (
	// UndatedFirst sorts undated items ahead of every dated item.
	UndatedFirst UndatedOrder = iota
	// UndatedLast sorts undated items after every dated item.
	UndatedLast
)

// Reviewable is anything carrying a review record.
type Reviewable interface {
	ReviewRecord() *ReviewRecord
}

// SortByPriority orders items by effective due date, earliest first, breaking
// ties by ascending rating so weaker items come first. The sort is stable.
func SortByPriority[T Reviewable](items []T, order UndatedOrder) {
	type key struct {
		due    time.Time
		dated  bool
		rating int
	}
	keys := make([]key, len(items))
	idx := make([]int, len(items))
	for i, it := range items {
		rec := it.ReviewRecord()
		due, ok := rec.DueAt()
		k := key{due: due, dated: ok}
		if rec != nil {
			k.rating = rec.Rating
		}
		keys[i] = k
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.dated != kb.dated {
			if order == UndatedLast {
				return ka.dated
			}
			return !ka.dated
		}
		if ka.dated && !ka.due.Equal(kb.due) {
			return ka.due.Before(kb.due)
		}
		return ka.rating < kb.rating
	})

	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
}

// Session size tiers, in due item counts.
const (
	smallBacklog  = 10
	mediumBacklog = 30
	largeBacklog  = 50

	// MaxSessionSize caps a single session regardless of backlog.
	MaxSessionSize = 25
)

// RecommendedSessionSize returns how many items to practice in one sitting
// given the number of due items.
func RecommendedSessionSize(dueCount int) int {
	switch {
	case dueCount <= 0:
		return 0
	case dueCount <= smallBacklog:
		return dueCount
	case dueCount <= mediumBacklog:
		return 15
	case dueCount <= largeBacklog:
		return 20
	default:
		return MaxSessionSize
	}
}
