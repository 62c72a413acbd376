package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abhisek/cadence/internal/interleave"
	"github.com/abhisek/cadence/internal/terms"
	"github.com/abhisek/cadence/internal/ui/theme"
)

func newPlanCmd(a *app) *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the interleaved practice order for due terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			undatedLast, _ := cmd.Flags().GetBool("undated-last")
			seed, _ := cmd.Flags().GetUint64("seed")
			start, _ := cmd.Flags().GetBool("start")

			plan := a.terms.PracticePlan(ctx, a.now(), undatedOrder(undatedLast))
			out := cmd.OutOrStdout()
			if len(plan.Terms) == 0 {
				fmt.Fprintln(out, "Nothing due. Come back later.")
				return nil
			}

			seq := a.sessions.Sequence(plan.Groups, seededSource(seed))
			fmt.Fprintf(out, "%s of %d due (recommended %d)\n\n",
				theme.Render(theme.Title, fmt.Sprintf("%d terms", len(plan.Terms))),
				plan.DueCount, plan.Recommended)
			printSequence(out, seq, termNames(plan.Terms))

			if start {
				s := a.sessions.Start(ctx, plan.Groups)
				fmt.Fprintf(out, "\nStarted session %s\n", shortID(s.ID))
			}
			return nil
		},
	}
	planCmd.Flags().Uint64("seed", 0, "Random seed for a reproducible order (0 = random)")
	planCmd.Flags().Bool("start", false, "Start a practice session with this plan")
	planCmd.Flags().Bool("undated-last", false, "Sort never-reviewed terms after dated ones")
	return planCmd
}

// seededSource returns a deterministic source for a non-zero seed, or nil
// for the engine's time-seeded default.
func seededSource(seed uint64) interleave.Source {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func termNames(ts []terms.Term) map[string]string {
	names := make(map[string]string, len(ts))
	for _, t := range ts {
		names[t.ID] = t.Name
	}
	return names
}

func printSequence(out io.Writer, seq interleave.Sequence, names map[string]string) {
	for i, it := range seq.Items {
		label := it.Ref
		if n, ok := names[it.Ref]; ok {
			label = n
		}
		fmt.Fprintf(out, "%3d. %-28s  %s\n", i+1, truncate(label, 28), theme.Render(theme.Hint, it.Topic))
	}
	fmt.Fprintf(out, "\ncontext switches %d, effectiveness %.2f\n", seq.ContextSwitches, seq.Effectiveness)
}
