package model_test

import (
	"testing"

	"github.com/arthurssouza42/fit/internal/model"
)

func TestParseMealAcceptsSlugsAndPortugueseLabels(t *testing.T) {
	t.Parallel()
	cases := map[string]model.Meal{
		"breakfast":       model.Breakfast,
		"Café da manhã":   model.Breakfast,
		"ALMOÇO":          model.Lunch,
		"Lanche da tarde": model.AfternoonSnack,
		"dinner":          model.Dinner,
		" ceia ":          model.EveningSnack,
	}
	for in, want := range cases {
		got, err := model.ParseMeal(in)
		if err != nil {
			t.Fatalf("ParseMeal(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMeal(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseMealRejectsFreeText(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "brunch", "second breakfast"} {
		if _, err := model.ParseMeal(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestMealLabelRoundTrips(t *testing.T) {
	t.Parallel()
	for _, m := range model.Meals {
		got, err := model.ParseMeal(m.Label())
		if err != nil {
			t.Fatalf("parse label of %s: %v", m, err)
		}
		if got != m {
			t.Fatalf("label %q parsed as %q, want %q", m.Label(), got, m)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()
	d, err := model.ParseDate(" 2026-03-05 ")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if d != "2026-03-05" {
		t.Fatalf("unexpected date %q", d)
	}
	if _, err := model.ParseDate("05/03/2026"); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestZeroNutrientsCoversEveryNutrient(t *testing.T) {
	t.Parallel()
	z := model.ZeroNutrients()
	if len(z) != len(model.AllNutrients) {
		t.Fatalf("expected %d keys, got %d", len(model.AllNutrients), len(z))
	}
	for _, k := range model.AllNutrients {
		if v, ok := z[k]; !ok || v != 0 {
			t.Fatalf("expected zero for %s, got %v (present=%v)", k, v, ok)
		}
	}
}
