package fit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/arthurssouza42/fit/internal/catalog"
	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log, list and remove eaten foods",
}

var (
	logFoodID   string
	logQty      float64
	logUnit     string
	logPortions float64
	logMeal     string
	logDate     string
	logFirst    bool
)

var logAddCmd = &cobra.Command{
	Use:   "add [food]",
	Short: "Log a quantity of a food to a meal",
	Long:  "Log a food by name or --food-id. Quantity is --qty in --unit (grams by default) or --portions of the food's portion size.",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		if query == "" && logFoodID == "" {
			return fmt.Errorf("a food name or --food-id is required")
		}
		meal, err := model.ParseMeal(logMeal)
		if err != nil {
			return err
		}
		date, err := parseDateOrToday(logDate)
		if err != nil {
			return err
		}
		grams := 0.0
		if logQty != 0 {
			grams, err = service.ToGrams(logQty, logUnit)
			if err != nil {
				return err
			}
		}
		return withRuntime(func(rt *runtime) error {
			res, err := rt.resolver()
			if err != nil {
				return err
			}
			food, err := pickFood(res, query, logFoodID, logFirst, rt.cfg.Search.MaxResults)
			if err != nil {
				return err
			}
			entry, err := service.ComputeEntry(service.ComputeEntryInput{
				Food:     food,
				Grams:    grams,
				Portions: logPortions,
				Date:     date,
				Meal:     meal,
			})
			if err != nil {
				return err
			}
			diary, err := rt.openDiary()
			if err != nil {
				return err
			}
			if err := diary.Log(entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s: %g g to %s on %s (%.2f kcal)\n",
				entry.Food.Name, entry.QuantityGrams, entry.Meal.Label(), entry.Date, entry.Nutrients.Get(model.EnergyKcal))
			return nil
		})
	},
}

// pickFood resolves the food to log. An id wins; otherwise the query must
// match exactly, match a single food, or --first must be given.
func pickFood(res *catalog.Resolver, query, id string, first bool, limit int) (model.CatalogEntry, error) {
	if id != "" {
		e, ok := res.Catalog.ByID(id)
		if !ok {
			return model.CatalogEntry{}, fmt.Errorf("food %s not found in %s", id, res.Catalog.Source())
		}
		return e, nil
	}
	matches := res.Resolve(query, limit)
	switch {
	case len(matches) == 0:
		return model.CatalogEntry{}, fmt.Errorf("no food matches %q", query)
	case matches[0].Tier == catalog.TierExact, len(matches) == 1, first:
		return matches[0].Entry, nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, fmt.Sprintf("%s (%s)", m.Entry.RawName, m.Entry.ID))
	}
	return model.CatalogEntry{}, fmt.Errorf("%q matches %d foods: %s; pass --food-id or --first", query, len(matches), strings.Join(names, ", "))
}

var (
	logListDate string
	logListMeal string
	logListJSON bool
)

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the foods logged on a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateOrToday(logListDate)
		if err != nil {
			return err
		}
		meal, err := parseMealFlag(logListMeal)
		if err != nil {
			return err
		}
		return withRuntime(func(rt *runtime) error {
			diary, err := rt.openDiary()
			if err != nil {
				return err
			}
			if logListJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(diary.Store.Entries(date, meal))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "#\tMEAL\tFOOD\tQTY\tKCAL\tP\tC\tF\tID")
			meals := model.Meals
			if meal != "" {
				meals = []model.Meal{meal}
			}
			for _, m := range meals {
				for i, e := range diary.Store.Entries(date, m) {
					fmt.Fprintf(out, "%d\t%s\t%s\t%g g\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
						i, m, e.Food.Name, e.QuantityGrams,
						e.Nutrients.Get(model.EnergyKcal), e.Nutrients.Get(model.ProteinG),
						e.Nutrients.Get(model.CarbohydrateG), e.Nutrients.Get(model.FatG), e.ID)
				}
			}
			fmt.Fprintf(out, "Total: %s\n", formatMacros(diary.Store.Totals(date, meal)))
			return nil
		})
	},
}

var (
	logRmDate  string
	logRmMeal  string
	logRmIndex int
	logRmID    string
	logRmYes   bool
)

var logRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove a logged food",
	Long:  "Remove the entry at --index (as shown by `fit log list`) or with --id from a meal on a date.",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateOrToday(logRmDate)
		if err != nil {
			return err
		}
		meal, err := model.ParseMeal(logRmMeal)
		if err != nil {
			return err
		}
		if logRmID == "" && logRmIndex < 0 {
			return fmt.Errorf("--index or --id is required")
		}
		return withRuntime(func(rt *runtime) error {
			diary, err := rt.openDiary()
			if err != nil {
				return err
			}
			target, err := findEntry(diary.Store, date, meal, logRmIndex, logRmID)
			if err != nil {
				return err
			}
			if !logRmYes {
				ok, err := confirm(cmd, fmt.Sprintf("Remove %s (%g g) from %s on %s?", target.Food.Name, target.QuantityGrams, meal.Label(), date))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing removed")
					return nil
				}
			}
			removed, err := diary.RemoveByID(date, meal, target.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s on %s\n", removed.Food.Name, meal.Label(), date)
			return nil
		})
	},
}

func findEntry(store *service.RecordStore, date model.Date, meal model.Meal, index int, id string) (model.LoggedEntry, error) {
	entries := store.Entries(date, meal)
	if id != "" {
		for _, e := range entries {
			if e.ID == id {
				return e, nil
			}
		}
		return model.LoggedEntry{}, &service.NotFoundError{What: "entry", Ref: id}
	}
	if index < 0 || index >= len(entries) {
		return model.LoggedEntry{}, &service.NotFoundError{What: "entry", Ref: fmt.Sprintf("#%d in %s on %s", index, meal, date)}
	}
	return entries[index], nil
}

func confirm(cmd *cobra.Command, title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithInput(cmd.InOrStdin()).WithOutput(cmd.OutOrStdout())
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirm removal (use --yes to skip): %w", err)
	}
	return ok, nil
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logAddCmd, logListCmd, logRmCmd)

	logAddCmd.Flags().StringVar(&logFoodID, "food-id", "", "Reference table id of the food")
	logAddCmd.Flags().Float64Var(&logQty, "qty", 0, "Quantity in --unit")
	logAddCmd.Flags().StringVar(&logUnit, "unit", "g", "Mass unit for --qty ("+strings.Join(service.MassUnits(), ", ")+")")
	logAddCmd.Flags().Float64Var(&logPortions, "portions", 0, "Number of portions (needs a portion size in the table)")
	logAddCmd.Flags().StringVar(&logMeal, "meal", "", "Meal: breakfast, lunch, afternoon-snack, dinner, evening-snack")
	logAddCmd.Flags().StringVar(&logDate, "date", "", "Date YYYY-MM-DD (default today)")
	logAddCmd.Flags().BoolVar(&logFirst, "first", false, "Use the best match when the name is ambiguous")
	_ = logAddCmd.MarkFlagRequired("meal")

	logListCmd.Flags().StringVar(&logListDate, "date", "", "Date YYYY-MM-DD (default today)")
	logListCmd.Flags().StringVar(&logListMeal, "meal", "", "Only this meal")
	logListCmd.Flags().BoolVar(&logListJSON, "json", false, "Print entries as JSON")

	logRmCmd.Flags().StringVar(&logRmDate, "date", "", "Date YYYY-MM-DD (default today)")
	logRmCmd.Flags().StringVar(&logRmMeal, "meal", "", "Meal of the entry")
	logRmCmd.Flags().IntVar(&logRmIndex, "index", -1, "Position of the entry within the meal")
	logRmCmd.Flags().StringVar(&logRmID, "id", "", "Entry id")
	logRmCmd.Flags().BoolVar(&logRmYes, "yes", false, "Skip the confirmation prompt")
	_ = logRmCmd.MarkFlagRequired("meal")
}
