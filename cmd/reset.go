package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/cadence/internal/session"
	"github.com/abhisek/cadence/internal/terms"
)

// resetKeys are every key cadence writes.
var resetKeys = []string{
	terms.Key,
	session.KeyHistory,
	session.KeyActive,
	session.KeySpacedRepetition,
	session.KeyInterleaving,
}

func newResetCmd(a *app) *cobra.Command {
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all terms, sessions and settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("this deletes all learner data; rerun with --yes to confirm")
			}
			if err := a.services(ctx); err != nil {
				return err
			}
			for _, key := range resetKeys {
				if err := a.kv.Delete(ctx, key); err != nil {
					return fmt.Errorf("delete %s: %w", key, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All learner data deleted.")
			return nil
		},
	}
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
	return resetCmd
}
