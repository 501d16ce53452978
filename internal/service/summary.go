package service

import (
	"github.com/arthurssouza42/fit/internal/model"
)

type MealTotals struct {
	Meal    model.Meal      `json:"meal"`
	Label   string          `json:"label"`
	Entries int             `json:"entries"`
	Totals  model.Nutrients `json:"totals"`
}

type TargetProgress struct {
	Nutrient  model.Nutrient `json:"nutrient"`
	Actual    float64        `json:"actual"`
	Target    float64        `json:"target"`
	Remaining float64        `json:"remaining"`
	// Progress is Actual/Target capped at 1.
	Progress float64 `json:"progress"`
}

type DaySummary struct {
	Date            model.Date       `json:"date"`
	Meals           []MealTotals     `json:"meals"`
	Totals          model.Nutrients  `json:"totals"`
	Targets         model.Targets    `json:"targets"`
	Progress        []TargetProgress `json:"progress"`
	Activities      []model.Activity `json:"activities,omitempty"`
	ActivityMinutes int              `json:"activity_minutes"`
}

// SummarizeDay totals the store for date, per meal and for the whole day, and
// measures the day totals against targets.
func SummarizeDay(store *RecordStore, date model.Date, targets model.Targets, activities []model.Activity) DaySummary {
	s := DaySummary{
		Date:            date,
		Totals:          store.Totals(date, ""),
		Targets:         targets,
		Activities:      activities,
		ActivityMinutes: TotalMinutes(activities),
	}
	for _, m := range model.Meals {
		entries := store.Entries(date, m)
		if len(entries) == 0 {
			continue
		}
		s.Meals = append(s.Meals, MealTotals{
			Meal:    m,
			Label:   m.Label(),
			Entries: len(entries),
			Totals:  SumNutrients(entries),
		})
	}
	for _, n := range model.RequiredNutrients {
		target, _ := TargetFor(targets, n)
		actual := s.Totals.Get(n)
		s.Progress = append(s.Progress, TargetProgress{
			Nutrient:  n,
			Actual:    actual,
			Target:    target,
			Remaining: Round2(target - actual),
			Progress:  Progress(actual, target),
		})
	}
	return s
}

// Progress is actual/target clamped to [0, 1]. A zero target counts as met.
func Progress(actual, target float64) float64 {
	if target <= 0 {
		return 1
	}
	p := actual / target
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}
