package fit

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/arthurssouza42/fit/cmd/fit.version=...".
var (
	version = "dev"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version/build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd)
	},
}

func printVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "fit %s\n", version)
	if commit != "" {
		fmt.Fprintf(out, "commit: %s\n", commit)
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(out, "go: %s\n", info.GoVersion)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
