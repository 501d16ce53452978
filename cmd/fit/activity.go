package fit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Keep a simple workout log",
}

var (
	activityDesc    string
	activityMinutes int
	activityDate    string
)

var activityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateOrToday(activityDate)
		if err != nil {
			return err
		}
		return withRuntime(func(rt *runtime) error {
			a, err := service.AddActivity(rt.db, service.ActivityInput{
				Date:        date,
				Description: activityDesc,
				DurationMin: activityMinutes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity %d\n", a.ID)
			return nil
		})
	},
}

var (
	activityListDate string
	activityListAll  bool
)

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var date model.Date
		if !activityListAll {
			d, err := parseDateOrToday(activityListDate)
			if err != nil {
				return err
			}
			date = d
		}
		return withRuntime(func(rt *runtime) error {
			items, err := service.ListActivities(rt.db, date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tMIN\tDESCRIPTION")
			for _, a := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%s\n", a.ID, a.Date, a.DurationMin, a.Description)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d min\n", service.TotalMinutes(items))
			return nil
		})
	},
}

var activityRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("activity id", args[0])
		if err != nil {
			return err
		}
		return withRuntime(func(rt *runtime) error {
			if err := service.DeleteActivity(rt.db, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted activity %d\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.AddCommand(activityAddCmd, activityListCmd, activityRmCmd)

	activityAddCmd.Flags().StringVar(&activityDesc, "desc", "", "What you did")
	activityAddCmd.Flags().IntVar(&activityMinutes, "min", 0, "Duration in minutes")
	activityAddCmd.Flags().StringVar(&activityDate, "date", "", "Date YYYY-MM-DD (default today)")

	activityListCmd.Flags().StringVar(&activityListDate, "date", "", "Date YYYY-MM-DD (default today)")
	activityListCmd.Flags().BoolVar(&activityListAll, "all", false, "List every date")
}
