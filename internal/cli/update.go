package cli

import (
	"github.com/spf13/cobra"

	"diffstack.dev/diffstack/internal/review"
	"diffstack.dev/diffstack/internal/runtime"
)

// newUpdateCmd creates the update command
func newUpdateCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [commit]",
		Short: "Resubmit a commit's diff to its existing revision",
		Long: `Resubmit a commit's diff to its existing revision.

The commit must already map to a revision, through its trailer or its
subject line. Without arguments, HEAD is resubmitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := "HEAD"
			if len(args) == 1 {
				spec = args[0]
			}

			rctx, err := runtime.GetContext(flags.verbose)
			if err != nil {
				return err
			}

			if err := requireCleanTree(cmd.Context(), rctx); err != nil {
				return err
			}

			commit, err := rctx.Git.ResolveCommit(spec)
			if err != nil {
				return err
			}

			reconciler := review.NewReconciler(rctx.Git, rctx.Conduit, rctx.Splog,
				confirmerFor(rctx.Config, flags.assumeYes))
			return reconciler.Update(cmd.Context(), commit)
		},
	}

	return cmd
}
