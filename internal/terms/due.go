package terms

import (
	"context"
	"time"

	"github.com/abhisek/cadence/internal/interleave"
	"github.com/abhisek/cadence/internal/spacedrep"
)

// Due returns the terms due at now, highest priority first.
func (s *Service) Due(ctx context.Context, now time.Time, order spacedrep.UndatedOrder) []Term {
	due := filterDue(s.List(ctx), now)
	spacedrep.SortByPriority(due, order)
	return due
}

// DueCount returns the number of terms due at now.
func (s *Service) DueCount(ctx context.Context, now time.Time) int {
	n := len(filterDue(s.List(ctx), now))
	s.metrics.SetDue(n)
	return n
}

func filterDue(terms []Term, now time.Time) []Term {
	var due []Term
	for _, t := range terms {
		if spacedrep.IsDue(t.Review, now) {
			due = append(due, t)
		}
	}
	return due
}

// Plan is the set of terms to practice in the next session.
type Plan struct {
	DueCount    int                     `json:"dueCount"`
	Recommended int                     `json:"recommended"`
	Terms       []Term                  `json:"terms"`
	Groups      []interleave.TopicGroup `json:"groups"`
}

// PracticePlan selects the highest priority due terms, limited to the
// recommended session size, and groups them by topic. Group items are term
// ids; each group is weighted by its number of terms.
func (s *Service) PracticePlan(ctx context.Context, now time.Time, order spacedrep.UndatedOrder) Plan {
	due := s.Due(ctx, now, order)
	size := spacedrep.RecommendedSessionSize(len(due))
	s.metrics.SetDue(len(due))

	picked := due[:min(size, len(due))]
	return Plan{
		DueCount:    len(due),
		Recommended: size,
		Terms:       picked,
		Groups:      GroupByTopic(picked),
	}
}

// GroupByTopic groups terms into topic groups in first-seen topic order.
func GroupByTopic(terms []Term) []interleave.TopicGroup {
	var groups []interleave.TopicGroup
	index := make(map[string]int)
	for _, t := range terms {
		i, ok := index[t.Topic]
		if !ok {
			i = len(groups)
			index[t.Topic] = i
			groups = append(groups, interleave.TopicGroup{TopicID: t.Topic})
		}
		groups[i].Items = append(groups[i].Items, t.ID)
		groups[i].Weight++
	}
	return groups
}
