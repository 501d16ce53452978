package fit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthurssouza42/fit/internal/app"
	"github.com/arthurssouza42/fit/internal/service"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fit local configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a configuration value in the database",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			// reject values the config layer would refuse on the next run
			probe := rt.cfg
			if err := probe.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := service.SetConfig(rt.db, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
			return nil
		})
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a stored configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			if err := service.UnsetConfig(rt.db, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show the effective value of a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			v, err := rt.cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			stored, err := service.ListConfig(rt.db)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE\tSTORED")
			for _, k := range app.EnvKeys {
				v, err := rt.cfg.Get(k)
				if err != nil {
					return err
				}
				mark := ""
				if _, ok := stored[k]; ok {
					mark = "yes"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", k, v, mark)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configUnsetCmd, configGetCmd, configListCmd)
}
