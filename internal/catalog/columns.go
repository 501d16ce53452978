package catalog

import (
	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/textnorm"
)

// Column is the canonical name of a reference or log table column.
type Column string

const (
	ColumnID          Column = "id"
	ColumnDescription Column = "description"
	ColumnPortion     Column = "portion_g"
	ColumnFoodID      Column = "food_id"

	ColumnDate     Column = "date"
	ColumnMeal     Column = "meal"
	ColumnQuantity Column = "quantity_g"
	ColumnPortions Column = "portions"
	ColumnLoggedAt Column = "logged_at"
)

// NutrientColumn maps a nutrient onto its column.
func NutrientColumn(n model.Nutrient) Column {
	return Column(n)
}

// RequiredColumns must be present after canonicalization.
func RequiredColumns() []Column {
	out := []Column{ColumnDescription}
	for _, n := range model.RequiredNutrients {
		out = append(out, NutrientColumn(n))
	}
	return out
}

// headerAliases is keyed by textnorm.Key of the raw header.
var headerAliases = map[string]Column{
	"id":               ColumnID,
	"codigo":           ColumnID,
	"numerodoalimento": ColumnID,
	"numero":           ColumnID,

	"alimentoid": ColumnFoodID,
	"foodid":     ColumnFoodID,

	"descricaodosalimentos": ColumnDescription,
	"descricaodoalimento":   ColumnDescription,
	"descricao":             ColumnDescription,
	"alimento":              ColumnDescription,
	"alimentos":             ColumnDescription,
	"nome":                  ColumnDescription,
	"description":           ColumnDescription,
	"food":                  ColumnDescription,
	"name":                  ColumnDescription,

	"energiakcal":     NutrientColumn(model.EnergyKcal),
	"energia":         NutrientColumn(model.EnergyKcal),
	"kcal":            NutrientColumn(model.EnergyKcal),
	"calorias":        NutrientColumn(model.EnergyKcal),
	"caloriaskcal":    NutrientColumn(model.EnergyKcal),
	"valorenergetico": NutrientColumn(model.EnergyKcal),
	"energykcal":      NutrientColumn(model.EnergyKcal),
	"energy":          NutrientColumn(model.EnergyKcal),
	"calories":        NutrientColumn(model.EnergyKcal),

	"proteinag":  NutrientColumn(model.ProteinG),
	"proteina":   NutrientColumn(model.ProteinG),
	"proteinas":  NutrientColumn(model.ProteinG),
	"proteinasg": NutrientColumn(model.ProteinG),
	"protein":    NutrientColumn(model.ProteinG),
	"proteing":   NutrientColumn(model.ProteinG),

	"lipideosg":     NutrientColumn(model.FatG),
	"lipideos":      NutrientColumn(model.FatG),
	"lipideog":      NutrientColumn(model.FatG),
	"lipidiosg":     NutrientColumn(model.FatG),
	"lipidios":      NutrientColumn(model.FatG),
	"gordura":       NutrientColumn(model.FatG),
	"gorduras":      NutrientColumn(model.FatG),
	"gordurasg":     NutrientColumn(model.FatG),
	"gorduratotalg": NutrientColumn(model.FatG),
	"fat":           NutrientColumn(model.FatG),
	"fatg":          NutrientColumn(model.FatG),

	"carboidratog":  NutrientColumn(model.CarbohydrateG),
	"carboidrato":   NutrientColumn(model.CarbohydrateG),
	"carboidratos":  NutrientColumn(model.CarbohydrateG),
	"carboidratosg": NutrientColumn(model.CarbohydrateG),
	"carbohydrate":  NutrientColumn(model.CarbohydrateG),
	"carbohydrateg": NutrientColumn(model.CarbohydrateG),
	"carbs":         NutrientColumn(model.CarbohydrateG),
	"carbsg":        NutrientColumn(model.CarbohydrateG),

	"fibraalimentarg": NutrientColumn(model.FiberG),
	"fibraalimentar":  NutrientColumn(model.FiberG),
	"fibrag":          NutrientColumn(model.FiberG),
	"fibra":           NutrientColumn(model.FiberG),
	"fiber":           NutrientColumn(model.FiberG),
	"fiberg":          NutrientColumn(model.FiberG),

	"sodiomg":  NutrientColumn(model.SodiumMg),
	"sodio":    NutrientColumn(model.SodiumMg),
	"sodium":   NutrientColumn(model.SodiumMg),
	"sodiummg": NutrientColumn(model.SodiumMg),

	"calciomg":  NutrientColumn(model.CalciumMg),
	"calcio":    NutrientColumn(model.CalciumMg),
	"calcium":   NutrientColumn(model.CalciumMg),
	"calciummg": NutrientColumn(model.CalciumMg),

	"ferromg": NutrientColumn(model.IronMg),
	"ferro":   NutrientColumn(model.IronMg),
	"iron":    NutrientColumn(model.IronMg),
	"ironmg":  NutrientColumn(model.IronMg),

	"colesterolmg":  NutrientColumn(model.CholesterolMg),
	"colesterol":    NutrientColumn(model.CholesterolMg),
	"cholesterol":   NutrientColumn(model.CholesterolMg),
	"cholesterolmg": NutrientColumn(model.CholesterolMg),

	"porcaog":       ColumnPortion,
	"porcao":        ColumnPortion,
	"porcaopadraog": ColumnPortion,
	"portion":       ColumnPortion,
	"portiong":      ColumnPortion,
	"servingg":      ColumnPortion,

	"data":         ColumnDate,
	"date":         ColumnDate,
	"dia":          ColumnDate,
	"refeicao":     ColumnMeal,
	"meal":         ColumnMeal,
	"quantidadeg":  ColumnQuantity,
	"quantidade":   ColumnQuantity,
	"quantityg":    ColumnQuantity,
	"quantity":     ColumnQuantity,
	"gramas":       ColumnQuantity,
	"porcoes":      ColumnPortions,
	"portions":     ColumnPortions,
	"registradoem": ColumnLoggedAt,
	"timestamp":    ColumnLoggedAt,
	"loggedat":     ColumnLoggedAt,
	"horario":      ColumnLoggedAt,
}

// CanonicalColumn resolves a raw header through the alias table.
func CanonicalColumn(header string) (Column, bool) {
	c, ok := headerAliases[textnorm.Key(header)]
	return c, ok
}

// HeaderIndex maps canonical columns to their position in a header row.
// Headers that resolve to an already seen column are returned as duplicates;
// the first occurrence wins.
func HeaderIndex(header []string) (index map[Column]int, duplicates []string) {
	index = make(map[Column]int, len(header))
	for i, h := range header {
		c, ok := CanonicalColumn(h)
		if !ok {
			continue
		}
		if _, seen := index[c]; seen {
			duplicates = append(duplicates, h)
			continue
		}
		index[c] = i
	}
	return index, duplicates
}
