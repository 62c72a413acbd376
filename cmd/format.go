package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/abhisek/cadence/internal/spacedrep"
	"github.com/abhisek/cadence/internal/ui/theme"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func ratingLabel(r *spacedrep.ReviewRecord) string {
	if r == nil {
		return "-"
	}
	return strconv.Itoa(r.Rating)
}

func nextReview(r *spacedrep.ReviewRecord, now time.Time) string {
	if r == nil {
		return theme.Render(theme.Warning, "new")
	}
	if r.IsDue(now) {
		return theme.Render(theme.Warning, "due now")
	}
	due, ok := r.DueAt()
	if !ok {
		return theme.Render(theme.Warning, "due now")
	}
	days := r.DaysUntilReview(now)
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%s (in %d %s)", due.Local().Format("2006-01-02"), days, unit)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
