package fit

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath      string
	configPath  string
	catalogPath string
	backendName string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:          "fit",
	Short:        "fit logs what you eat against a nutrition reference table",
	Long:         "fit is a local-first food diary: search a nutrition table, log quantities per meal, and follow daily totals against your targets.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (env FIT_DB)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (env FIT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to the nutrition reference table")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Food log storage: sqlite or csv")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")
}
