package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/cadence/internal/session"
	"github.com/abhisek/cadence/internal/ui/theme"
)

func newStatsCmd(a *app) *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			st := a.sessions.Statistics(limit)
			due := a.terms.DueCount(ctx, a.now())
			total := len(a.terms.List(ctx))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, theme.Render(theme.Title, "Cadence statistics"))
			fmt.Fprintln(out, theme.Rule(40))
			fmt.Fprintf(out, "Terms:             %d (%d due)\n", total, due)
			fmt.Fprintf(out, "Sessions:          %d\n", st.SessionCount)
			fmt.Fprintf(out, "Results reviewed:  %d\n", st.TotalResults)
			fmt.Fprintf(out, "Overall accuracy:  %s\n", theme.Accuracy(st.OverallAccuracy))
			fmt.Fprintf(out, "Average duration:  %s\n", averageDuration(st))

			if len(st.TopTopics) > 0 {
				fmt.Fprintf(out, "\n%s\n", theme.Render(theme.Heading, "Most practiced topics"))
				for i, tc := range st.TopTopics {
					fmt.Fprintf(out, "%d. %-24s %d\n", i+1, truncate(tc.Topic, 24), tc.Count)
				}
			}
			return nil
		},
	}
	statsCmd.Flags().Int("limit", session.DefaultStatisticsLimit, "Number of recent sessions to include")
	return statsCmd
}

func averageDuration(st session.Statistics) string {
	if st.AverageDuration <= 0 {
		return "-"
	}
	return formatDuration(st.AverageDuration.Round(time.Second))
}
