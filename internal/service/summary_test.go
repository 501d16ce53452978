package service_test

import (
	"testing"

	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

func TestSummarizeDay(t *testing.T) {
	t.Parallel()
	store := service.NewRecordStore()
	for _, e := range []model.LoggedEntry{
		newEntry(t, arroz(), "2024-05-01", model.Lunch, 150),
		newEntry(t, feijao(), "2024-05-01", model.Lunch, 100),
		newEntry(t, arroz(), "2024-05-01", model.Dinner, 100),
		newEntry(t, arroz(), "2024-05-02", model.Dinner, 100),
	} {
		if err := store.Append(e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	targets := model.Targets{EnergyKcal: 2000, ProteinG: 10, CarbohydrateG: 0, FatG: 70}
	activities := []model.Activity{{DurationMin: 30}, {DurationMin: 15}}

	s := service.SummarizeDay(store, "2024-05-01", targets, activities)
	if len(s.Meals) != 2 || s.Meals[0].Meal != model.Lunch || s.Meals[0].Entries != 2 || s.Meals[0].Label != "Almoço" {
		t.Fatalf("unexpected meals %+v", s.Meals)
	}
	if s.Meals[1].Totals[model.EnergyKcal] != 124 {
		t.Fatalf("unexpected dinner totals %+v", s.Meals[1].Totals)
	}
	if s.Totals[model.EnergyKcal] != 386 {
		t.Fatalf("expected 386 kcal, got %v", s.Totals[model.EnergyKcal])
	}
	if s.ActivityMinutes != 45 {
		t.Fatalf("expected 45 minutes, got %d", s.ActivityMinutes)
	}

	progress := map[model.Nutrient]service.TargetProgress{}
	for _, p := range s.Progress {
		progress[p.Nutrient] = p
	}
	if len(progress) != 4 {
		t.Fatalf("expected progress for the four macros, got %+v", s.Progress)
	}
	energy := progress[model.EnergyKcal]
	if energy.Remaining != 1614 || energy.Progress != 386.0/2000 {
		t.Fatalf("unexpected energy progress %+v", energy)
	}
	// protein 11.3 g against 10 g
	protein := progress[model.ProteinG]
	if protein.Progress != 1 || protein.Remaining != -1.3 {
		t.Fatalf("unexpected protein progress %+v", protein)
	}
	if progress[model.CarbohydrateG].Progress != 1 {
		t.Fatalf("a zero target counts as met")
	}
}

func TestSummarizeEmptyDay(t *testing.T) {
	t.Parallel()
	s := service.SummarizeDay(service.NewRecordStore(), "2024-05-01", service.DefaultTargets, nil)
	if len(s.Meals) != 0 {
		t.Fatalf("expected no meals, got %+v", s.Meals)
	}
	for _, p := range s.Progress {
		if p.Actual != 0 || p.Progress != 0 {
			t.Fatalf("unexpected progress on an empty day %+v", p)
		}
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()
	cases := []struct {
		actual, target, want float64
	}{
		{50, 100, 0.5},
		{150, 100, 1},
		{0, 100, 0},
		{10, 0, 1},
	}
	for _, tc := range cases {
		if got := service.Progress(tc.actual, tc.target); got != tc.want {
			t.Fatalf("Progress(%v, %v) = %v, want %v", tc.actual, tc.target, got, tc.want)
		}
	}
}
