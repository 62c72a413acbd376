package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/cadence/internal/notify"
	"github.com/abhisek/cadence/internal/spacedrep"
	"github.com/abhisek/cadence/internal/ui/theme"
)

func newDueCmd(a *app) *cobra.Command {
	dueCmd := &cobra.Command{
		Use:   "due",
		Short: "List terms due for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			undatedLast, _ := cmd.Flags().GetBool("undated-last")
			publish, _ := cmd.Flags().GetBool("publish")
			quiet, _ := cmd.Flags().GetBool("count")

			now := a.now()
			due := a.terms.Due(ctx, now, undatedOrder(undatedLast))
			report := notify.DueReport{
				Count:       len(due),
				Recommended: spacedrep.RecommendedSessionSize(len(due)),
				GeneratedAt: now.UTC(),
			}
			a.metrics.SetDue(report.Count)

			out := cmd.OutOrStdout()
			if quiet {
				fmt.Fprintln(out, report.Count)
			} else if len(due) == 0 {
				fmt.Fprintln(out, "Nothing due. Come back later.")
			} else {
				fmt.Fprintf(out, "%s due, recommended session size %d\n\n",
					theme.Render(theme.Title, fmt.Sprintf("%d terms", report.Count)), report.Recommended)
				for i, t := range due {
					fmt.Fprintf(out, "%3d. %-28s  %-16s  rating %s\n",
						i+1, truncate(t.Name, 28), truncate(t.Topic, 16), ratingLabel(t.Review))
				}
			}

			if !publish {
				return nil
			}
			pub, err := notify.New(notify.Config{
				URL:     a.cfg.NATS.URL,
				Subject: a.cfg.NATS.Subject,
			}, a.logger)
			if err != nil {
				return err
			}
			defer pub.Close()
			if err := pub.PublishDue(ctx, report); err != nil {
				return fmt.Errorf("publish due report: %w", err)
			}
			a.logger.Info("due report published", "subject", a.cfg.NATS.Subject, "count", report.Count)
			return nil
		},
	}
	dueCmd.Flags().Bool("publish", false, "Publish the due count to NATS (nats.url, nats.subject), or log it when nats.url is unset")
	dueCmd.Flags().Bool("count", false, "Print only the number of due terms")
	dueCmd.Flags().Bool("undated-last", false, "Sort never-reviewed terms after dated ones")
	return dueCmd
}

func undatedOrder(last bool) spacedrep.UndatedOrder {
	if last {
		return spacedrep.UndatedLast
	}
	return spacedrep.UndatedFirst
}
