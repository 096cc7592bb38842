// Package cli wires the diffstack commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"diffstack.dev/diffstack/internal/logging"
)

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	verbose   bool
	assumeYes bool
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "diffstack",
		Short: "Diffstack keeps a chain of commits in sync with their code reviews",
		Long: `Diffstack keeps a chain of commits in sync with their code reviews.

Each commit maps to one revision on the review service, identified by its
"Differential Revision:" trailer or, failing that, by its subject line.`,
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			closer := logging.Setup(flags.verbose)
			cobra.OnFinalize(func() { _ = closer.Close() })
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Show debug output, including every git and arc invocation")
	rootCmd.PersistentFlags().BoolVarP(&flags.assumeYes, "yes", "y", false, "Answer yes to every confirmation prompt")

	rootCmd.AddCommand(newCreateCmd(flags))
	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newPatchCmd(flags))
	rootCmd.AddCommand(newStageCmd(flags))
	rootCmd.AddCommand(newUpdateCmd(flags))

	return rootCmd
}
