package fit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthurssouza42/fit/internal/catalog"
	"github.com/arthurssouza42/fit/internal/service"
)

var doctorSkipCatalog bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Reload the food log and report rows that were skipped or coerced",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			diary, err := rt.openDiary()
			if err != nil {
				return err
			}
			var cat *catalog.Catalog
			if !doctorSkipCatalog {
				cat, err = rt.loadCatalog()
				if err != nil {
					return err
				}
			}
			report := service.RunDoctor(diary, cat)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries: %d\n", report.Entries)
			fmt.Fprintf(out, "Load warnings: %d\n", len(report.LoadWarnings))
			for _, w := range report.LoadWarnings {
				fmt.Fprintf(out, "  %s\n", w)
			}
			fmt.Fprintf(out, "Portion mismatches: %d\n", len(report.PortionMismatches))
			for _, id := range report.PortionMismatches {
				fmt.Fprintf(out, "  %s\n", id)
			}
			if cat != nil {
				fmt.Fprintf(out, "Foods missing from %s: %d\n", cat.Source(), len(report.UnknownFoods))
				fmt.Fprintf(out, "Reference table warnings: %d\n", len(report.CatalogWarnings))
				for _, w := range report.CatalogWarnings {
					fmt.Fprintf(out, "  %s\n", w)
				}
			}
			if report.Problems() {
				return fmt.Errorf("doctor found problems in the food log")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorSkipCatalog, "skip-catalog", false, "Do not load the reference table")
}
