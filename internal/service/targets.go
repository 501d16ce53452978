package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/arthurssouza42/fit/internal/model"
)

// DefaultTargets are used until the user sets their own.
var DefaultTargets = model.Targets{
	EnergyKcal:    2670,
	ProteinG:      210,
	CarbohydrateG: 300,
	FatG:          70,
}

type SetTargetsInput struct {
	EnergyKcal    float64
	ProteinG      float64
	CarbohydrateG float64
	FatG          float64
	EffectiveDate string
}

// SetTargets stores daily targets that apply from EffectiveDate on. Setting
// targets twice for the same date replaces the earlier values.
func SetTargets(db *sql.DB, in SetTargetsInput) (model.Targets, error) {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"energy target", in.EnergyKcal},
		{"protein target", in.ProteinG},
		{"carbohydrate target", in.CarbohydrateG},
		{"fat target", in.FatG},
	} {
		if err := validateNonNegativeFloat(f.name, f.value); err != nil {
			return model.Targets{}, err
		}
	}
	date := model.Today()
	if strings.TrimSpace(in.EffectiveDate) != "" {
		d, err := model.ParseDate(in.EffectiveDate)
		if err != nil {
			return model.Targets{}, invalid("effective date", "%q is not a valid date (expected YYYY-MM-DD)", in.EffectiveDate)
		}
		date = d
	}

	_, err := db.Exec(`
INSERT INTO targets(energy_kcal, protein_g, carbohydrate_g, fat_g, effective_date)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(effective_date) DO UPDATE SET
  energy_kcal=excluded.energy_kcal,
  protein_g=excluded.protein_g,
  carbohydrate_g=excluded.carbohydrate_g,
  fat_g=excluded.fat_g
`, in.EnergyKcal, in.ProteinG, in.CarbohydrateG, in.FatG, string(date))
	if err != nil {
		return model.Targets{}, fmt.Errorf("set targets: %w", err)
	}
	t, _, err := CurrentTargets(db, date)
	return t, err
}

// CurrentTargets returns the targets in effect on date. The boolean is false
// when none were ever set on or before date; the zero Targets is returned
// then and callers pick their own fallback.
func CurrentTargets(db *sql.DB, date model.Date) (model.Targets, bool, error) {
	if _, err := model.ParseDate(string(date)); err != nil {
		return model.Targets{}, false, invalid("date", "%q is not a valid date (expected YYYY-MM-DD)", date)
	}
	var t model.Targets
	err := db.QueryRow(`
SELECT id, energy_kcal, protein_g, carbohydrate_g, fat_g, effective_date
FROM targets
WHERE effective_date <= ?
ORDER BY effective_date DESC
LIMIT 1
`, string(date)).Scan(&t.ID, &t.EnergyKcal, &t.ProteinG, &t.CarbohydrateG, &t.FatG, &t.EffectiveDate)
	if err == sql.ErrNoRows {
		return model.Targets{}, false, nil
	}
	if err != nil {
		return model.Targets{}, false, fmt.Errorf("current targets for %s: %w", date, err)
	}
	return t, true, nil
}

func TargetsHistory(db *sql.DB) ([]model.Targets, error) {
	rows, err := db.Query(`
SELECT id, energy_kcal, protein_g, carbohydrate_g, fat_g, effective_date
FROM targets
ORDER BY effective_date DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list targets history: %w", err)
	}
	defer rows.Close()

	out := make([]model.Targets, 0)
	for rows.Next() {
		var t model.Targets
		if err := rows.Scan(&t.ID, &t.EnergyKcal, &t.ProteinG, &t.CarbohydrateG, &t.FatG, &t.EffectiveDate); err != nil {
			return nil, fmt.Errorf("scan targets history: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate targets history: %w", err)
	}
	return out, nil
}

// TargetFor reports the target for n; only the four macro targets exist.
func TargetFor(t model.Targets, n model.Nutrient) (float64, bool) {
	switch n {
	case model.EnergyKcal:
		return t.EnergyKcal, true
	case model.ProteinG:
		return t.ProteinG, true
	case model.CarbohydrateG:
		return t.CarbohydrateG, true
	case model.FatG:
		return t.FatG, true
	}
	return 0, false
}
