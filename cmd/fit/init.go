package fit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthurssouza42/fit/internal/app"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local fit database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized fit database at %s\n", rt.dbPath)
			if rt.cfg.Storage.Backend == app.BackendCSV {
				path, err := rt.logPath()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Food log file: %s\n", path)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
