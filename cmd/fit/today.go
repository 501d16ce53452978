package fit

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/arthurssouza42/fit/internal/service"
)

var (
	todayDate string
	todayJSON bool
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the day's totals per meal and progress against targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateOrToday(todayDate)
		if err != nil {
			return err
		}
		return withRuntime(func(rt *runtime) error {
			diary, err := rt.openDiary()
			if err != nil {
				return err
			}
			targets, custom, err := rt.targets(date)
			if err != nil {
				return err
			}
			activities, err := service.ListActivities(rt.db, date)
			if err != nil {
				return err
			}
			summary := service.SummarizeDay(diary.Store, date, targets, activities)
			if todayJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			renderDaySummary(cmd.OutOrStdout(), summary, custom)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Date YYYY-MM-DD (default today)")
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "Print the summary as JSON")
}
