package model

import (
	"fmt"
	"strings"

	"github.com/arthurssouza42/fit/internal/textnorm"
)

type Meal string

const (
	Breakfast      Meal = "breakfast"
	Lunch          Meal = "lunch"
	AfternoonSnack Meal = "afternoon-snack"
	Dinner         Meal = "dinner"
	EveningSnack   Meal = "evening-snack"
)

// Meals is the closed meal set in the order a day is eaten.
var Meals = []Meal{Breakfast, Lunch, AfternoonSnack, Dinner, EveningSnack}

var mealLabels = map[Meal]string{
	Breakfast:      "Café da manhã",
	Lunch:          "Almoço",
	AfternoonSnack: "Lanche da tarde",
	Dinner:         "Jantar",
	EveningSnack:   "Ceia",
}

var mealAliases = map[string]Meal{
	"breakfast":       Breakfast,
	"cafe":            Breakfast,
	"cafe da manha":   Breakfast,
	"desjejum":        Breakfast,
	"lunch":           Lunch,
	"almoco":          Lunch,
	"afternoon-snack": AfternoonSnack,
	"afternoon snack": AfternoonSnack,
	"snack":           AfternoonSnack,
	"snacks":          AfternoonSnack,
	"lanche":          AfternoonSnack,
	"lanche da tarde": AfternoonSnack,
	"dinner":          Dinner,
	"jantar":          Dinner,
	"janta":           Dinner,
	"evening-snack":   EveningSnack,
	"evening snack":   EveningSnack,
	"supper":          EveningSnack,
	"ceia":            EveningSnack,
}

// ParseMeal accepts the English slugs and the Portuguese labels, ignoring case
// and diacritics.
func ParseMeal(value string) (Meal, error) {
	key := textnorm.Fold(value)
	if key == "" {
		return "", fmt.Errorf("meal is required")
	}
	if m, ok := mealAliases[key]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown meal %q (expected one of %s)", value, mealList())
}

func (m Meal) Valid() bool {
	_, ok := mealLabels[m]
	return ok
}

// Label is the Portuguese display name.
func (m Meal) Label() string {
	if l, ok := mealLabels[m]; ok {
		return l
	}
	return string(m)
}

// Order is the position of m within a day, or len(Meals) for unknown meals.
func (m Meal) Order() int {
	for i, v := range Meals {
		if v == m {
			return i
		}
	}
	return len(Meals)
}

func mealList() string {
	names := make([]string, 0, len(Meals))
	for _, m := range Meals {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
