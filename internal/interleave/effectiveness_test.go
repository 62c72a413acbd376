package interleave

import "testing"

func TestEffectiveness_Balanced(t *testing.T) {
	got := Effectiveness(map[string]int{"a": 5, "b": 5})
	if got <= 0.9 {
		t.Errorf("Effectiveness(5:5) = %f, want > 0.9", got)
	}
}

func TestEffectiveness_UnbalancedLower(t *testing.T) {
	balanced := Effectiveness(map[string]int{"a": 5, "b": 5})
	skewed := Effectiveness(map[string]int{"a": 9, "b": 1})
	if skewed >= balanced {
		t.Errorf("Effectiveness(9:1) = %f, want < %f", skewed, balanced)
	}
	// variance 16, max variance 25
	if skewed < 0.35 || skewed > 0.37 {
		t.Errorf("Effectiveness(9:1) = %f, want ~0.36", skewed)
	}
}

func TestEffectiveness_SingleTopic(t *testing.T) {
	if got := Effectiveness(map[string]int{"a": 10}); got != 0 {
		t.Errorf("Effectiveness(single) = %f, want 0", got)
	}
	if got := Effectiveness(nil); got != 0 {
		t.Errorf("Effectiveness(nil) = %f, want 0", got)
	}
}

func TestEffectiveness_Bounds(t *testing.T) {
	dists := []map[string]int{
		{"a": 1, "b": 1, "c": 10},
		{"a": 100, "b": 1},
		{"a": 3, "b": 4, "c": 5, "d": 6},
		{"a": 1, "b": 0},
	}
	for _, d := range dists {
		got := Effectiveness(d)
		if got < 0 || got > 1 {
			t.Errorf("Effectiveness(%v) = %f out of [0,1]", d, got)
		}
	}
}
