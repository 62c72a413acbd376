package theme

import (
	"fmt"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Enabled controls whether the helpers below apply styles. Commands turn it
// off when stdout is not a terminal.
var Enabled = true

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Card frames a block of output such as a session summary.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// Render applies st to s when styling is enabled.
func Render(st lipgloss.Style, s string) string {
	if !Enabled {
		return s
	}
	return st.Render(s)
}

// Accuracy formats a 0-1 accuracy as a percentage, green when strong, orange
// when acceptable and red otherwise.
func Accuracy(v float64) string {
	s := fmt.Sprintf("%.0f%%", v*100)
	switch {
	case v >= 0.8:
		return Render(Correct, s)
	case v >= 0.6:
		return Render(Warning, s)
	default:
		return Render(Incorrect, s)
	}
}

// Mark renders a check or cross for a correct or incorrect result.
func Mark(correct bool) string {
	if correct {
		return Render(Correct, "✓")
	}
	return Render(Incorrect, "✗")
}

// Rule returns a horizontal line of width w.
func Rule(w int) string {
	line := make([]rune, w)
	for i := range line {
		line[i] = '─'
	}
	return Render(lipgloss.NewStyle().Foreground(Border), string(line))
}

// Box frames body in Card when styling is enabled.
func Box(body string) string {
	if !Enabled {
		return body
	}
	return Card.Render(body)
}
