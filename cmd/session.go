package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/cadence/internal/interleave"
	"github.com/abhisek/cadence/internal/session"
	"github.com/abhisek/cadence/internal/spacedrep"
	"github.com/abhisek/cadence/internal/terms"
	"github.com/abhisek/cadence/internal/ui/theme"
)

func newSessionCmd(a *app) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Run practice sessions",
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a practice session, replacing any unfinished one",
		Long: "Start a practice session over the due terms, or over ad-hoc groups\n" +
			"given as --group Topic:item1,item2.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			specs, _ := cmd.Flags().GetStringArray("group")
			seed, _ := cmd.Flags().GetUint64("seed")

			var (
				groups []interleave.TopicGroup
				names  map[string]string
			)
			if len(specs) > 0 {
				var err error
				if groups, err = parseGroups(specs); err != nil {
					return err
				}
			} else {
				plan := a.terms.PracticePlan(ctx, a.now(), spacedrep.UndatedFirst)
				groups, names = plan.Groups, termNames(plan.Terms)
			}

			out := cmd.OutOrStdout()
			if prev := a.sessions.Current(); prev != nil {
				fmt.Fprintf(out, "Replacing unfinished session %s\n", shortID(prev.ID))
			}
			s := a.sessions.Start(ctx, groups)
			fmt.Fprintf(out, "Started session %s\n", theme.Render(theme.Title, shortID(s.ID)))
			if len(groups) == 0 {
				fmt.Fprintln(out, "No items queued; record results with `cadence session record`.")
				return nil
			}
			fmt.Fprintln(out)
			printSequence(out, a.sessions.Sequence(groups, seededSource(seed)), names)
			return nil
		},
	}
	startCmd.Flags().StringArray("group", nil, "Topic group as Topic:item1,item2 (repeatable)")
	startCmd.Flags().Uint64("seed", 0, "Random seed for a reproducible order (0 = random)")

	recordCmd := &cobra.Command{
		Use:   "record <item> <correct|wrong>",
		Short: "Record a result in the active session",
		Long: "Record a result in the active session. When <item> names a term its\n" +
			"topic is used unless --topic is given, and --rate also schedules its\n" +
			"next review.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			correct, err := parseOutcome(args[1])
			if err != nil {
				return err
			}
			topic, _ := cmd.Flags().GetString("topic")
			ms, _ := cmd.Flags().GetInt64("ms")
			rate, _ := cmd.Flags().GetInt("rate")

			item := args[0]
			term, err := a.terms.Get(ctx, item)
			switch {
			case err == nil:
				item = term.ID
				if topic == "" {
					topic = term.Topic
				}
			case !errors.Is(err, terms.ErrTermNotFound):
				return err
			case rate != 0:
				return err
			}
			if topic == "" {
				return fmt.Errorf("--topic is required for %q, which is not a term", item)
			}

			out := cmd.OutOrStdout()
			if !a.sessions.Record(ctx, topic, item, correct, ms) {
				fmt.Fprintln(out, "No active session. Start one with `cadence session start`.")
				return nil
			}
			label := item
			if term != nil {
				label = term.Name
			}
			fmt.Fprintf(out, "%s %s (%s)\n", theme.Mark(correct), label, topic)

			if rate != 0 {
				t, res, err := a.terms.Rate(ctx, term.ID, spacedrep.Rating(rate), a.sessions.Settings().SpacedRepetition, a.now())
				if err != nil {
					return err
				}
				printReview(cmd, t, res)
			}
			return nil
		},
	}
	recordCmd.Flags().String("topic", "", "Topic of the item (default: the term's topic)")
	recordCmd.Flags().Int64("ms", 0, "Response time in milliseconds")
	recordCmd.Flags().Int("rate", 0, "Also rate the term 1-5 and schedule its next review")

	finishCmd := &cobra.Command{
		Use:   "finish",
		Short: "Finish the active session and show its summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			s := a.sessions.Finish(ctx)
			if s == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No active session.")
				return nil
			}
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}

	currentCmd := &cobra.Command{
		Use:   "current",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s := a.sessions.Current()
			if s == nil {
				fmt.Fprintln(out, "No active session.")
				return nil
			}
			fmt.Fprintf(out, "Session %s started %s\n", shortID(s.ID), s.StartedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "%d results, accuracy %s\n", len(s.Results), theme.Accuracy(s.Accuracy()))
			for _, r := range s.Results {
				fmt.Fprintf(out, "  %s %-28s  %-16s  %dms\n", theme.Mark(r.Correct), truncate(r.Item, 28), truncate(r.Topic, 16), r.ResponseTimeMs)
			}
			return nil
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List finished sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			out := cmd.OutOrStdout()
			hist := a.sessions.History()
			if len(hist) == 0 {
				fmt.Fprintln(out, "No finished sessions.")
				return nil
			}
			if limit > 0 && len(hist) > limit {
				hist = hist[:limit]
			}

			fmt.Fprintf(out, "%-8s  %-16s  %8s  %7s  %8s\n", "ID", "Started", "Duration", "Results", "Accuracy")
			fmt.Fprintln(out, theme.Rule(56))
			for i := range hist {
				s := &hist[i]
				d, _ := s.Duration()
				fmt.Fprintf(out, "%-8s  %-16s  %8s  %7d  %8s\n",
					shortID(s.ID), s.StartedAt.Local().Format("2006-01-02 15:04"),
					formatDuration(d), len(s.Results), theme.Accuracy(s.Accuracy()))
			}
			return nil
		},
	}
	historyCmd.Flags().Int("limit", 10, "Maximum number of sessions to list (0 = all)")

	sessionCmd.AddCommand(startCmd, recordCmd, finishCmd, currentCmd, historyCmd)
	return sessionCmd
}

// parseGroups parses Topic:item1,item2 flag values, merging repeated topics.
func parseGroups(values []string) ([]interleave.TopicGroup, error) {
	var groups []interleave.TopicGroup
	index := make(map[string]int)
	for _, v := range values {
		topic, list, ok := strings.Cut(v, ":")
		topic = strings.TrimSpace(topic)
		if !ok || topic == "" {
			return nil, fmt.Errorf("invalid group %q, want Topic:item1,item2", v)
		}
		i, seen := index[topic]
		if !seen {
			i = len(groups)
			index[topic] = i
			groups = append(groups, interleave.TopicGroup{TopicID: topic, Weight: 1})
		}
		for _, item := range strings.Split(list, ",") {
			if item = strings.TrimSpace(item); item != "" {
				groups[i].Items = append(groups[i].Items, item)
			}
		}
	}
	return groups, nil
}

func parseOutcome(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correct", "c", "yes", "y", "true", "1", "pass":
		return true, nil
	case "wrong", "w", "incorrect", "no", "n", "false", "0", "fail":
		return false, nil
	}
	return false, fmt.Errorf("invalid result %q, want correct or wrong", s)
}

func printSummary(out io.Writer, s *session.PracticeSession) {
	var b strings.Builder
	d, _ := s.Duration()
	fmt.Fprintf(&b, "%s\n", theme.Render(theme.Title, "Session "+shortID(s.ID)))
	fmt.Fprintf(&b, "Duration %s, %d results, accuracy %s\n", formatDuration(d), len(s.Results), theme.Accuracy(s.Accuracy()))

	if len(s.Metrics) > 0 {
		fmt.Fprintf(&b, "\n%-16s  %7s  %8s  %9s\n", "Topic", "Correct", "Accuracy", "Avg time")
		for _, m := range s.Metrics {
			fmt.Fprintf(&b, "%-16s  %3d/%-3d  %8s  %7.0fms\n",
				truncate(m.Topic, 16), m.CorrectCount, m.TotalCount, theme.Accuracy(m.Accuracy), m.AvgResponseTimeMs)
		}
	}
	if len(s.Recommendations) > 0 {
		fmt.Fprintf(&b, "\n%s\n", theme.Render(theme.Heading, "Recommendations"))
		for _, r := range s.Recommendations {
			fmt.Fprintf(&b, "• %s\n", r)
		}
	}
	fmt.Fprintln(out, theme.Box(strings.TrimRight(b.String(), "\n")))
}
