package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arthurssouza42/fit/internal/model"
)

const (
	// MaxQuantityGrams rejects quantities that are almost certainly typos.
	MaxQuantityGrams = 10000
	nutrientPlaces   = 2
)

type ComputeEntryInput struct {
	Food model.CatalogEntry
	// Exactly one of Grams and Portions must be set.
	Grams    float64
	Portions float64
	Date     model.Date
	Meal     model.Meal
	LoggedAt time.Time
}

// ComputeEntry scales a catalog entry's per-100 g nutrients to the consumed
// quantity and returns the entry to log. Nutrients are rounded to two decimals
// here, at write time.
func ComputeEntry(in ComputeEntryInput) (model.LoggedEntry, error) {
	grams, portions, err := resolveQuantity(in)
	if err != nil {
		return model.LoggedEntry{}, err
	}
	if !in.Meal.Valid() {
		return model.LoggedEntry{}, invalid("meal", "%q is not a known meal", in.Meal)
	}
	date, err := model.ParseDate(string(in.Date))
	if err != nil {
		return model.LoggedEntry{}, invalid("date", "%q is not a valid date (expected YYYY-MM-DD)", in.Date)
	}
	if in.LoggedAt.IsZero() {
		in.LoggedAt = time.Now()
	}

	food := model.FoodSnapshot{ID: in.Food.ID, Name: in.Food.RawName}
	if in.Food.PortionGrams != nil {
		v := *in.Food.PortionGrams
		food.PortionGrams = &v
	}
	return model.LoggedEntry{
		ID:            uuid.NewString(),
		Date:          date,
		Meal:          in.Meal,
		Food:          food,
		QuantityGrams: grams,
		Portions:      portions,
		Nutrients:     ScaleNutrients(in.Food.Nutrients, grams),
		LoggedAt:      in.LoggedAt,
	}, nil
}

func resolveQuantity(in ComputeEntryInput) (float64, *float64, error) {
	if in.Grams != 0 && in.Portions != 0 {
		return 0, nil, invalid("quantity", "must be given either in grams or in portions, not both")
	}
	if in.Portions != 0 {
		if in.Portions < 0 {
			return 0, nil, invalid("portions", "must be > 0")
		}
		if in.Food.PortionGrams == nil || *in.Food.PortionGrams <= 0 {
			return 0, nil, invalid("portions", "are not available for %q (no portion size in the reference table)", in.Food.RawName)
		}
		grams := in.Portions * *in.Food.PortionGrams
		if err := validateGrams(grams); err != nil {
			return 0, nil, err
		}
		p := in.Portions
		return grams, &p, nil
	}
	if err := validateGrams(in.Grams); err != nil {
		return 0, nil, err
	}
	return in.Grams, nil, nil
}

func validateGrams(grams float64) error {
	if !(grams > 0) {
		return invalid("quantity", "must be > 0 g")
	}
	if grams > MaxQuantityGrams {
		return invalid("quantity", "of %.0f g exceeds the %d g limit", grams, MaxQuantityGrams)
	}
	return nil
}

// ScaleNutrients returns round(v * grams / 100, 2) for every nutrient.
func ScaleNutrients(per100g model.Nutrients, grams float64) model.Nutrients {
	out := make(model.Nutrients, len(per100g))
	for k, v := range per100g {
		out[k] = Round2(v * grams / 100)
	}
	return out
}

// Round2 rounds half away from zero to two decimals on the decimal value of
// v, so 1.005 becomes 1.01 rather than the binary float's 1.00.
func Round2(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(nutrientPlaces).Float64()
	return r
}
