package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "quizmint", version, "("+buildKind(version)+")")
	},
}

// buildKind classifies a version string as a release, a pre-release or a
// development build.
func buildKind(v string) string {
	switch {
	case !semver.IsValid(v):
		return "development build"
	case semver.Prerelease(v) != "":
		return "pre-release"
	default:
		return "release"
	}
}
