package cmd

import (
	"github.com/spf13/cobra"
)

// playCmd is the explicit form of running quizmint without a subcommand.
var playCmd = &cobra.Command{
	Use:     "play",
	Aliases: []string{"tui"},
	Short:   "Open the terminal UI (default command)",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApp(cmd)
	},
}
