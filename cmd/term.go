package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/cadence/internal/spacedrep"
	"github.com/abhisek/cadence/internal/terms"
	"github.com/abhisek/cadence/internal/ui/theme"
)

func newTermCmd(a *app) *cobra.Command {
	termCmd := &cobra.Command{
		Use:   "term",
		Short: "Manage study terms",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			topic, _ := cmd.Flags().GetString("topic")
			def, _ := cmd.Flags().GetString("definition")

			t, err := a.terms.Add(ctx, args[0], topic, def)
			if err != nil {
				return fmt.Errorf("add term: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) to %s\n",
				theme.Render(theme.Title, t.Name), shortID(t.ID), t.Topic)
			return nil
		},
	}
	addCmd.Flags().String("topic", "", "Topic the term belongs to (default \"general\")")
	addCmd.Flags().String("definition", "", "Definition or answer")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			topic, _ := cmd.Flags().GetString("topic")
			now := a.now()

			out := cmd.OutOrStdout()
			var shown []terms.Term
			for _, t := range a.terms.List(ctx) {
				if topic != "" && !strings.EqualFold(t.Topic, topic) {
					continue
				}
				shown = append(shown, t)
			}
			if len(shown) == 0 {
				fmt.Fprintln(out, "No terms found.")
				return nil
			}

			fmt.Fprintf(out, "%-8s  %-28s  %-16s  %6s  %s\n", "ID", "Name", "Topic", "Rating", "Next review")
			fmt.Fprintln(out, theme.Rule(78))
			for _, t := range shown {
				fmt.Fprintf(out, "%-8s  %-28s  %-16s  %6s  %s\n",
					shortID(t.ID), truncate(t.Name, 28), truncate(t.Topic, 16),
					ratingLabel(t.Review), nextReview(t.Review, now))
			}
			fmt.Fprintf(out, "\n%d terms\n", len(shown))
			return nil
		},
	}
	listCmd.Flags().String("topic", "", "Only list terms in this topic")

	showCmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show a term and its review schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			t, err := a.terms.Get(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", t.ID)
			fmt.Fprintf(out, "Name:        %s\n", t.Name)
			fmt.Fprintf(out, "Topic:       %s\n", t.Topic)
			if t.Definition != "" {
				fmt.Fprintf(out, "Definition:  %s\n", t.Definition)
			}
			fmt.Fprintf(out, "Added:       %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
			if r := t.Review; r != nil {
				fmt.Fprintf(out, "Rating:      %d\n", r.Rating)
				fmt.Fprintf(out, "Repetitions: %d\n", r.RepetitionCount)
				fmt.Fprintf(out, "Ease:        %.2f\n", r.EaseFactor)
				fmt.Fprintf(out, "Interval:    %d days\n", r.IntervalDays)
			}
			fmt.Fprintf(out, "Next review: %s\n", nextReview(t.Review, a.now()))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a term and its review history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			if err := a.terms.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	rateCmd := &cobra.Command{
		Use:   "rate <id|name> <rating>",
		Short: "Rate recall of a term from 1 (blackout) to 5 (perfect)",
		Long: "Rate recall of a term and schedule its next review.\n" +
			"Ratings below 3 count as a lapse and reset the interval.\n" +
			"Ratings outside 1-5 are treated as 3.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			rating := spacedrep.ParseRating(args[1])
			settings := a.sessions.Settings().SpacedRepetition

			t, res, err := a.terms.Rate(ctx, args[0], rating, settings, a.now())
			if err != nil {
				return err
			}
			printReview(cmd, t, res)
			return nil
		},
	}

	termCmd.AddCommand(addCmd, listCmd, showCmd, deleteCmd, rateCmd)
	return termCmd
}

func printReview(cmd *cobra.Command, t *terms.Term, res spacedrep.Result) {
	out := cmd.OutOrStdout()
	status := theme.Render(theme.Correct, "pass")
	switch {
	case res.First:
		status = theme.Render(theme.Title, "first review")
	case res.Lapse:
		status = theme.Render(theme.Incorrect, "lapse")
	}
	fmt.Fprintf(out, "%s: %s\n", t.Name, status)
	fmt.Fprintf(out, "  interval %d days, ease %.2f, repetition %d\n",
		res.IntervalDays, res.EaseFactor, res.RepetitionCount)
	fmt.Fprintf(out, "  next review %s\n", res.NextReviewDate.Local().Format("2006-01-02"))
}
