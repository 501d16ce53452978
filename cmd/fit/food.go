package fit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthurssouza42/fit/internal/catalog"
	"github.com/arthurssouza42/fit/internal/model"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Search the nutrition reference table",
}

var (
	foodSearchLimit int
	foodSearchJSON  bool
)

var foodSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find foods by name (exact, then substring, then approximate)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withRuntime(func(rt *runtime) error {
			res, err := rt.resolver()
			if err != nil {
				return err
			}
			limit := foodSearchLimit
			if limit <= 0 {
				limit = rt.cfg.Search.MaxResults
			}
			matches := res.Resolve(query, limit)
			if foodSearchJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(matches)
			}
			if len(matches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No foods match %q\n", query)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tKCAL\tP\tC\tF\tPORTION\tMATCH")
			for _, m := range matches {
				e := m.Entry
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%s\n",
					e.ID, e.RawName,
					e.Nutrients.Get(model.EnergyKcal), e.Nutrients.Get(model.ProteinG),
					e.Nutrients.Get(model.CarbohydrateG), e.Nutrients.Get(model.FatG),
					formatPortion(e.PortionGrams), formatMatch(m))
			}
			return nil
		})
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the per-100 g nutrients of a food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			cat, err := rt.loadCatalog()
			if err != nil {
				return err
			}
			e, ok := cat.ByID(args[0])
			if !ok {
				return fmt.Errorf("food %s not found in %s", args[0], cat.Source())
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID: %s\n", e.ID)
			fmt.Fprintf(out, "Name: %s\n", e.RawName)
			fmt.Fprintf(out, "Portion: %s\n", formatPortion(e.PortionGrams))
			fmt.Fprintln(out, "Per 100 g:")
			for _, n := range model.AllNutrients {
				fmt.Fprintf(out, "  %-12s %.2f %s\n", nutrientLabel(n), e.Nutrients.Get(n), n.Unit())
			}
			return nil
		})
	},
}

func formatPortion(g *float64) string {
	if g == nil {
		return "-"
	}
	return fmt.Sprintf("%g g", *g)
}

func formatMatch(m catalog.Match) string {
	if m.Tier == catalog.TierFuzzy {
		return fmt.Sprintf("%s %.2f", m.Tier, m.Score)
	}
	return string(m.Tier)
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodSearchCmd, foodShowCmd)

	foodSearchCmd.Flags().IntVar(&foodSearchLimit, "limit", 0, "Maximum results (default from search.max_results)")
	foodSearchCmd.Flags().BoolVar(&foodSearchJSON, "json", false, "Print matches as JSON")
}
