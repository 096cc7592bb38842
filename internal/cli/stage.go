package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"diffstack.dev/diffstack/internal/review"
	"diffstack.dev/diffstack/internal/runtime"
	"diffstack.dev/diffstack/internal/tui"
)

// newStageCmd creates the stage command
func newStageCmd(flags *rootFlags) *cobra.Command {
	var (
		branch string
		noEdit bool
	)

	cmd := &cobra.Command{
		Use:   "stage -b <branch> [commit|range...]",
		Short: "Replay commits onto a branch with review trailers filled in",
		Long: `Replay commits onto a branch, oldest first, with review trailers filled in.

Each replayed commit's message gains the reviewers who accepted its revision
and the revision URI. The branch is created from the trunk when it does not
exist. The source commits and their revisions are left untouched. Without
arguments, HEAD alone is staged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext(flags.verbose)
			if err != nil {
				return err
			}

			if err := requireCleanTree(cmd.Context(), rctx); err != nil {
				return err
			}

			if branch == "" {
				branch = rctx.Config.Trunk
				if tui.IsInteractive() && !flags.assumeYes {
					if branch, err = tui.PromptTextInput("Branch to stage onto", branch); err != nil {
						return err
					}
				}
				if branch == "" {
					return fmt.Errorf("a target branch is required, pass --branch")
				}
			}

			commits, err := resolveCommits(rctx, args)
			if err != nil {
				return err
			}

			stager := review.NewStager(rctx.Git, rctx.Conduit, rctx.Splog, rctx.Config.Trunk)
			stager.EditMessages = !noEdit && tui.IsInteractive()

			return stager.Stage(cmd.Context(), commits, branch)
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch the commits are replayed onto")
	cmd.Flags().BoolVar(&noEdit, "no-edit", false, "Commit the composed messages without opening the editor")

	return cmd
}
