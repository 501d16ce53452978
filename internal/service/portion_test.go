package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

func TestComputeEntryScalesPer100Grams(t *testing.T) {
	t.Parallel()
	e, err := service.ComputeEntry(service.ComputeEntryInput{
		Food:  arroz(),
		Grams: 150,
		Date:  "2024-05-01",
		Meal:  model.Lunch,
	})
	if err != nil {
		t.Fatalf("compute entry: %v", err)
	}
	want := map[model.Nutrient]float64{
		model.EnergyKcal:    186,
		model.ProteinG:      3.9,
		model.FatG:          1.5,
		model.CarbohydrateG: 38.7,
	}
	for k, v := range want {
		if got := e.Nutrients[k]; got != v {
			t.Fatalf("%s: expected %v, got %v", k, v, got)
		}
	}
	if e.QuantityGrams != 150 || e.Portions != nil {
		t.Fatalf("unexpected quantity: %v g, portions %v", e.QuantityGrams, e.Portions)
	}
	if e.ID == "" || e.LoggedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", e)
	}
	if e.Food.Name != "Arroz integral cozido" || e.Food.ID != "1" {
		t.Fatalf("unexpected food snapshot: %+v", e.Food)
	}
}

func TestComputeEntryPortionsMatchGrams(t *testing.T) {
	t.Parallel()
	byPortion, err := service.ComputeEntry(service.ComputeEntryInput{Food: arroz(), Portions: 3, Date: "2024-05-01", Meal: model.Dinner})
	if err != nil {
		t.Fatalf("compute by portion: %v", err)
	}
	byGrams, err := service.ComputeEntry(service.ComputeEntryInput{Food: arroz(), Grams: 150, Date: "2024-05-01", Meal: model.Dinner})
	if err != nil {
		t.Fatalf("compute by grams: %v", err)
	}
	if byPortion.QuantityGrams != 150 {
		t.Fatalf("expected 150 g from 3 portions of 50 g, got %v", byPortion.QuantityGrams)
	}
	if byPortion.Portions == nil || *byPortion.Portions != 3 {
		t.Fatalf("expected portions to be recorded, got %v", byPortion.Portions)
	}
	for _, n := range model.AllNutrients {
		if byPortion.Nutrients.Get(n) != byGrams.Nutrients.Get(n) {
			t.Fatalf("%s differs: portions %v, grams %v", n, byPortion.Nutrients.Get(n), byGrams.Nutrients.Get(n))
		}
	}
}

func TestComputeEntryKeepsUniqueIDs(t *testing.T) {
	t.Parallel()
	a := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	b := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids for identical entries")
	}
}

func TestComputeEntryValidation(t *testing.T) {
	t.Parallel()
	ok := service.ComputeEntryInput{Food: arroz(), Grams: 100, Date: "2024-05-01", Meal: model.Lunch}
	cases := map[string]func(in *service.ComputeEntryInput){
		"zero grams":          func(in *service.ComputeEntryInput) { in.Grams = 0 },
		"negative grams":      func(in *service.ComputeEntryInput) { in.Grams = -5 },
		"too many grams":      func(in *service.ComputeEntryInput) { in.Grams = service.MaxQuantityGrams + 1 },
		"grams and portions":  func(in *service.ComputeEntryInput) { in.Portions = 1 },
		"negative portions":   func(in *service.ComputeEntryInput) { in.Grams = 0; in.Portions = -1 },
		"portions no size":    func(in *service.ComputeEntryInput) { in.Food = feijao(); in.Grams = 0; in.Portions = 2 },
		"unknown meal":        func(in *service.ComputeEntryInput) { in.Meal = "brunch" },
		"invalid date":        func(in *service.ComputeEntryInput) { in.Date = "01/05/2024" },
		"portions over limit": func(in *service.ComputeEntryInput) { in.Grams = 0; in.Portions = 1000 },
	}
	for name, mutate := range cases {
		in := ok
		mutate(&in)
		_, err := service.ComputeEntry(in)
		var verr *service.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if _, err := service.ComputeEntry(ok); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestComputeEntryAcceptsLimit(t *testing.T) {
	t.Parallel()
	e, err := service.ComputeEntry(service.ComputeEntryInput{
		Food:     feijao(),
		Grams:    service.MaxQuantityGrams,
		Date:     "2024-05-01",
		Meal:     model.EveningSnack,
		LoggedAt: time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("compute at limit: %v", err)
	}
	if e.Nutrients[model.EnergyKcal] != 7600 {
		t.Fatalf("expected 7600 kcal, got %v", e.Nutrients[model.EnergyKcal])
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	t.Parallel()
	cases := map[float64]float64{
		1.005:  1.01,
		2.675:  2.68,
		-1.005: -1.01,
		0.004:  0,
		38.7:   38.7,
	}
	for in, want := range cases {
		if got := service.Round2(in); got != want {
			t.Fatalf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestScaleNutrientsNeverNegative(t *testing.T) {
	t.Parallel()
	scaled := service.ScaleNutrients(arroz().Nutrients, 0.001)
	for k, v := range scaled {
		if v < 0 {
			t.Fatalf("%s scaled below zero: %v", k, v)
		}
	}
}
