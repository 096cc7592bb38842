package cli

import (
	"github.com/spf13/cobra"

	"diffstack.dev/diffstack/internal/review"
	"diffstack.dev/diffstack/internal/runtime"
	"diffstack.dev/diffstack/internal/tui"
	"diffstack.dev/diffstack/internal/utils"
)

// newCreateCmd creates the create command
func newCreateCmd(flags *rootFlags) *cobra.Command {
	var (
		listMode    bool
		reviewers   []string
		subscribers []string
	)

	cmd := &cobra.Command{
		Use:   "create [commit|range...]",
		Short: "Create or update a chained revision for each commit",
		Long: `Create or update a chained revision for each commit, oldest first.

A commit that already maps to a revision gets that revision updated instead.
Each new revision is marked as depending on the previous commit's revision,
so the review chain mirrors the commit chain. Without arguments, HEAD alone
is submitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext(flags.verbose)
			if err != nil {
				return err
			}

			if err := requireCleanTree(cmd.Context(), rctx); err != nil {
				return err
			}

			commits, err := resolveCommits(rctx, args)
			if err != nil {
				return err
			}

			interactive := tui.IsInteractive() && !flags.assumeYes && !rctx.Config.AssumeYes

			if len(reviewers) == 0 && interactive {
				if reviewers, err = tui.PromptUsernames("Reviewers (comma-separated)"); err != nil {
					return err
				}
			}

			reconciler := review.NewReconciler(rctx.Git, rctx.Conduit, rctx.Splog,
				confirmerFor(rctx.Config, flags.assumeYes))
			if rctx.Config.BrowseOnCreate {
				reconciler.Browse = func(uri string) { _ = utils.OpenBrowser(uri) }
			}
			if interactive {
				reconciler.EditDraft = func(draft string) (string, error) {
					return tui.OpenEditor(draft, "diffstack-draft-*.txt")
				}
			}

			return reconciler.CreateChain(cmd.Context(), commits, review.ChainOptions{
				Reviewers:   reviewers,
				Subscribers: subscribers,
				ListMode:    listMode || rctx.Config.DefaultToListMode,
			})
		},
	}

	cmd.Flags().BoolVarP(&listMode, "list", "l", false, "Show all commits up front and confirm the batch once")
	cmd.Flags().StringSliceVarP(&reviewers, "reviewers", "r", nil, "Reviewers for newly created revisions")
	cmd.Flags().StringSliceVarP(&subscribers, "subscribers", "s", nil, "Subscribers for newly created revisions")

	return cmd
}
