package theme

import (
	"strings"
	"testing"
)

func withStyling(t *testing.T, on bool) {
	t.Helper()
	prev := Enabled
	Enabled = on
	t.Cleanup(func() { Enabled = prev })
}

func TestPlainOutput(t *testing.T) {
	withStyling(t, false)

	tests := []struct {
		got, want string
	}{
		{Accuracy(0.9), "90%"},
		{Accuracy(0.65), "65%"},
		{Accuracy(0), "0%"},
		{Mark(true), "✓"},
		{Mark(false), "✗"},
		{Rule(3), "───"},
		{Box("body"), "body"},
		{Render(Title, "Cadence"), "Cadence"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestStyledOutputKeepsText(t *testing.T) {
	withStyling(t, true)

	if got := Accuracy(0.5); !strings.Contains(got, "50%") {
		t.Errorf("Accuracy(0.5) = %q, want it to contain 50%%", got)
	}
	if got := Box("summary"); !strings.Contains(got, "summary") || !strings.Contains(got, "╭") {
		t.Errorf("Box = %q, want framed text", got)
	}
}
