package model

import "time"

type CatalogEntry struct {
	ID             string `json:"id"`
	RawName        string `json:"name"`
	NormalizedName string `json:"normalized_name"`
	// Nutrients are expressed per 100 g.
	Nutrients    Nutrients `json:"nutrients_per_100g"`
	PortionGrams *float64  `json:"portion_grams,omitempty"`
}

// FoodSnapshot is the part of a CatalogEntry copied onto a LoggedEntry so
// later catalog changes never rewrite history.
type FoodSnapshot struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PortionGrams *float64 `json:"portion_grams,omitempty"`
}

type LoggedEntry struct {
	ID            string       `json:"id"`
	Date          Date         `json:"date"`
	Meal          Meal         `json:"meal"`
	Food          FoodSnapshot `json:"food"`
	QuantityGrams float64      `json:"quantity_g"`
	Portions      *float64     `json:"portions,omitempty"`
	Nutrients     Nutrients    `json:"nutrients"`
	LoggedAt      time.Time    `json:"logged_at"`
}

type Targets struct {
	ID            int64   `json:"id,omitempty"`
	EnergyKcal    float64 `json:"energy_kcal"`
	ProteinG      float64 `json:"protein_g"`
	CarbohydrateG float64 `json:"carbohydrate_g"`
	FatG          float64 `json:"fat_g"`
	EffectiveDate string  `json:"effective_date,omitempty"`
}

type Activity struct {
	ID          int64     `json:"id"`
	Date        Date      `json:"date"`
	Description string    `json:"description"`
	DurationMin int       `json:"duration_min"`
	CreatedAt   time.Time `json:"created_at"`
}
