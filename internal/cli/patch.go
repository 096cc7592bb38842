package cli

import (
	"github.com/spf13/cobra"

	"diffstack.dev/diffstack/internal/conduit"
	"diffstack.dev/diffstack/internal/runtime"
)

// newPatchCmd creates the patch command
func newPatchCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <revision>...",
		Short: "Apply revision diffs to the working tree",
		Long: `Apply one or more revision diffs to the working tree, in argument order.

Revisions are named by identifier, e.g. D12345.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate every identifier before touching the tree.
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := conduit.ParseRevisionID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			rctx, err := runtime.GetContext(flags.verbose)
			if err != nil {
				return err
			}

			for _, id := range ids {
				if err := rctx.Conduit.ApplyPatch(cmd.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}

	return cmd
}
