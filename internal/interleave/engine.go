// Package interleave builds practice sequences that mix items from several
// topics instead of blocking them by topic.
package interleave

import (
	"math"
	"math/rand/v2"
)

// Source supplies uniformly distributed floats in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// TopicGroup is a topic's items offered for one practice session.
type TopicGroup struct {
	TopicID string   `json:"topicId"`
	Items   []string `json:"items"`
	Weight  float64  `json:"weight"`
}

// Item is one entry of a generated sequence.
type Item struct {
	Topic string `json:"topic"`
	Ref   string `json:"ref"`
}

// Sequence is the generated practice order.
type Sequence struct {
	Items             []Item         `json:"sequence"`
	TopicDistribution map[string]int `json:"topicDistribution"`
	ContextSwitches   int            `json:"contextSwitches"`
	Effectiveness     float64        `json:"effectiveness"`
}

type queue struct {
	topic  string
	items  []string
	weight float64
}

func (q *queue) pop() string {
	ref := q.items[0]
	q.items = q.items[1:]
	return ref
}

// Generate orders the items of groups for practice. Empty groups are dropped.
// When interleaving is disabled or too few topics remain, the groups are
// concatenated in input order. Otherwise topics are drawn at random in
// proportion to their weight, with a forced change of topic every
// ContextSwitchFrequency items. A nil src uses the global random source.
func Generate(groups []TopicGroup, s Settings, src Source) Sequence {
	s = s.Normalize()
	if src == nil {
		src = globalSource{}
	}

	queues := validQueues(groups)
	if !s.Enabled || len(queues) < s.MinTopicsToInterleave {
		return sequential(queues)
	}

	total := 0
	for _, q := range queues {
		total += len(q.items)
	}

	seq := Sequence{
		Items:             make([]Item, 0, total),
		TopicDistribution: make(map[string]int),
	}
	bias := 1 + float64(s.ShuffleIntensity)*0.1
	var last *queue

	for len(seq.Items) < total {
		active := nonEmpty(queues)
		switchContext := last != nil && len(active) > 1 &&
			len(seq.Items)%s.ContextSwitchFrequency == 0

		var chosen *queue
		if switchContext {
			chosen = pickWeighted(active, last, bias, src)
		} else {
			chosen = pickWeighted(active, nil, bias, src)
		}

		seq.Items = append(seq.Items, Item{Topic: chosen.topic, Ref: chosen.pop()})
		seq.TopicDistribution[chosen.topic]++
		if last != nil && chosen.topic != last.topic {
			seq.ContextSwitches++
		}
		last = chosen
	}

	seq.Effectiveness = Effectiveness(seq.TopicDistribution)
	return seq
}

// pickWeighted draws a queue with probability proportional to its weight.
// Queues sharing exclude's topic are skipped, but the draw is still scaled by the
// total weight of every active queue; a draw landing past the remaining
// candidates takes the last one.
func pickWeighted(active []*queue, exclude *queue, bias float64, src Source) *queue {
	candidates := active
	if exclude != nil {
		candidates = make([]*queue, 0, len(active))
		for _, q := range active {
			if q.topic != exclude.topic {
				candidates = append(candidates, q)
			}
		}
		if len(candidates) == 0 {
			candidates = active
		}
	}

	totalWeight := 0.0
	for _, q := range active {
		totalWeight += q.weight * bias
	}

	r := src.Float64() * totalWeight
	for _, q := range candidates {
		r -= q.weight * bias
		if r < 0 {
			return q
		}
	}
	return candidates[len(candidates)-1]
}

func validQueues(groups []TopicGroup) []*queue {
	queues := make([]*queue, 0, len(groups))
	for _, g := range groups {
		if len(g.Items) == 0 {
			continue
		}
		w := g.Weight
		if !(w > 0) || math.IsInf(w, 0) {
			w = 1
		}
		items := make([]string, len(g.Items))
		copy(items, g.Items)
		queues = append(queues, &queue{topic: g.TopicID, items: items, weight: w})
	}
	return queues
}

func nonEmpty(queues []*queue) []*queue {
	active := make([]*queue, 0, len(queues))
	for _, q := range queues {
		if len(q.items) > 0 {
			active = append(active, q)
		}
	}
	return active
}

func sequential(queues []*queue) Sequence {
	seq := Sequence{TopicDistribution: make(map[string]int)}
	for _, q := range queues {
		for _, ref := range q.items {
			seq.Items = append(seq.Items, Item{Topic: q.topic, Ref: ref})
			seq.TopicDistribution[q.topic]++
		}
	}
	return seq
}
