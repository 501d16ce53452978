package fit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthurssouza42/fit/internal/service"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Manage daily nutrition targets",
}

var (
	targetKcal    float64
	targetProtein float64
	targetCarbs   float64
	targetFat     float64
	targetFrom    string
)

var targetSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set daily targets from a date on",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			date, err := parseDateOrToday(targetFrom)
			if err != nil {
				return err
			}
			// unset flags keep the targets currently in effect
			current, _, err := rt.targets(date)
			if err != nil {
				return err
			}
			in := service.SetTargetsInput{
				EnergyKcal:    current.EnergyKcal,
				ProteinG:      current.ProteinG,
				CarbohydrateG: current.CarbohydrateG,
				FatG:          current.FatG,
				EffectiveDate: string(date),
			}
			flags := cmd.Flags()
			if flags.Changed("kcal") {
				in.EnergyKcal = targetKcal
			}
			if flags.Changed("protein") {
				in.ProteinG = targetProtein
			}
			if flags.Changed("carbs") {
				in.CarbohydrateG = targetCarbs
			}
			if flags.Changed("fat") {
				in.FatG = targetFat
			}
			t, err := service.SetTargets(rt.db, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Targets from %s: %.0f kcal | P %.0fg | C %.0fg | G %.0fg\n",
				t.EffectiveDate, t.EnergyKcal, t.ProteinG, t.CarbohydrateG, t.FatG)
			return nil
		})
	},
}

var (
	targetShowDate    string
	targetShowHistory bool
)

var targetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the targets in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			out := cmd.OutOrStdout()
			if targetShowHistory {
				items, err := service.TargetsHistory(rt.db)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "FROM\tKCAL\tP\tC\tF")
				for _, t := range items {
					fmt.Fprintf(out, "%s\t%.0f\t%.0f\t%.0f\t%.0f\n", t.EffectiveDate, t.EnergyKcal, t.ProteinG, t.CarbohydrateG, t.FatG)
				}
				return nil
			}
			date, err := parseDateOrToday(targetShowDate)
			if err != nil {
				return err
			}
			t, custom, err := rt.targets(date)
			if err != nil {
				return err
			}
			source := "defaults"
			if custom {
				source = "since " + t.EffectiveDate
			}
			fmt.Fprintf(out, "Targets (%s): %.0f kcal | P %.0fg | C %.0fg | G %.0fg\n",
				source, t.EnergyKcal, t.ProteinG, t.CarbohydrateG, t.FatG)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(targetCmd)
	targetCmd.AddCommand(targetSetCmd, targetShowCmd)

	targetSetCmd.Flags().Float64Var(&targetKcal, "kcal", 0, "Energy target (kcal)")
	targetSetCmd.Flags().Float64Var(&targetProtein, "protein", 0, "Protein target (g)")
	targetSetCmd.Flags().Float64Var(&targetCarbs, "carbs", 0, "Carbohydrate target (g)")
	targetSetCmd.Flags().Float64Var(&targetFat, "fat", 0, "Fat target (g)")
	targetSetCmd.Flags().StringVar(&targetFrom, "from", "", "Effective date YYYY-MM-DD (default today)")

	targetShowCmd.Flags().StringVar(&targetShowDate, "date", "", "Date YYYY-MM-DD (default today)")
	targetShowCmd.Flags().BoolVar(&targetShowHistory, "history", false, "List every target change")
}
