package spacedrep

import "testing"

type item struct {
	name string
	rec  *ReviewRecord
}

func (i item) ReviewRecord() *ReviewRecord { return i.rec }

func dated(name string, days, rating int) item {
	return item{name: name, rec: &ReviewRecord{
		Rating:         rating,
		LastReviewedAt: FormatTimestamp(testNow.AddDate(0, 0, -10)),
		NextReviewAt:   FormatTimestamp(testNow.AddDate(0, 0, days)),
	}}
}

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func TestSortByPriority_EarlierDueFirst(t *testing.T) {
	items := []item{dated("c", 3, 1), dated("a", -2, 5), dated("b", 0, 4)}
	SortByPriority(items, UndatedFirst)
	got := names(items)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortByPriority_TieByRating(t *testing.T) {
	items := []item{dated("strong", 1, 5), dated("weak", 1, 2), dated("mid", 1, 3)}
	SortByPriority(items, UndatedFirst)
	got := names(items)
	want := []string{"weak", "mid", "strong"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortByPriority_IntervalFallback(t *testing.T) {
	fallback := item{name: "fallback", rec: &ReviewRecord{
		Rating:         3,
		LastReviewedAt: FormatTimestamp(testNow.AddDate(0, 0, -10)),
		IntervalDays:   5, // due 5 days ago
	}}
	items := []item{dated("soon", 1, 3), fallback}
	SortByPriority(items, UndatedFirst)
	if items[0].name != "fallback" {
		t.Errorf("order = %v, want fallback first", names(items))
	}
}

func TestSortByPriority_UndatedOrder(t *testing.T) {
	mk := func() []item {
		return []item{dated("dated", -5, 3), {name: "new"}}
	}

	items := mk()
	SortByPriority(items, UndatedFirst)
	if items[0].name != "new" {
		t.Errorf("UndatedFirst order = %v", names(items))
	}

	items = mk()
	SortByPriority(items, UndatedLast)
	if items[0].name != "dated" {
		t.Errorf("UndatedLast order = %v", names(items))
	}
}

func TestRecommendedSessionSize(t *testing.T) {
	tests := []struct {
		due  int
		want int
	}{
		{0, 0},
		{-3, 0},
		{5, 5},
		{10, 10},
		{11, 15},
		{15, 15},
		{30, 15},
		{35, 20},
		{50, 20},
		{51, 25},
		{100, 25},
	}
	for _, tt := range tests {
		if got := RecommendedSessionSize(tt.due); got != tt.want {
			t.Errorf("RecommendedSessionSize(%d) = %d, want %d", tt.due, got, tt.want)
		}
	}
}
