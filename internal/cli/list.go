package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"diffstack.dev/diffstack/internal/output"
	"diffstack.dev/diffstack/internal/review"
	"diffstack.dev/diffstack/internal/runtime"
)

// newListCmd creates the list command
func newListCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [commit|range...]",
		Short:   "Show the review matching each commit and its status",
		Aliases: []string{"ls"},
		Long: `Show the review matching each commit and its status, oldest first.

A commit whose subject matches more than one open revision is reported with
all candidates rather than treated as an error. Without arguments, HEAD alone
is listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext(flags.verbose)
			if err != nil {
				return err
			}

			commits, err := resolveCommits(rctx, args)
			if err != nil {
				return err
			}

			rows, err := review.NewReporter(rctx.Conduit).Report(cmd.Context(), commits)
			if err != nil {
				return err
			}

			for _, row := range rows {
				rctx.Splog.Info("%s", renderRow(row))
			}
			return nil
		},
	}

	return cmd
}

// renderRow formats one listing line.
func renderRow(row review.Row) string {
	sha := output.Dim(row.Commit.ShortSHA())
	switch {
	case len(row.Ambiguous) > 0:
		return fmt.Sprintf("%s  %s  Ambiguous Reviews: %s", sha, row.Commit.Subject, strings.Join(row.Ambiguous, ", "))
	case row.HasReview():
		return fmt.Sprintf("%s  %s  %s %s", sha, row.Commit.Subject, row.Review, output.StatusCell(string(row.Status)))
	default:
		return fmt.Sprintf("%s  %s  No Review", sha, row.Commit.Subject)
	}
}
