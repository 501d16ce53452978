package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/arthurssouza42/fit/internal/model"
)

// SQLiteBackend stores logged entries in the logged_entries table. Rows are
// read back in insertion order so each bucket keeps its logging order.
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

const loggedEntryColumns = `id, log_date, meal, food_id, food_name, portion_g, quantity_g, portions,
energy_kcal, protein_g, fat_g, carbohydrate_g, fiber_g, sodium_mg, calcium_mg, iron_mg, cholesterol_mg, logged_at`

func (b *SQLiteBackend) Load() ([]model.LoggedEntry, []string, error) {
	rows, err := b.db.Query(`SELECT ` + loggedEntryColumns + ` FROM logged_entries ORDER BY seq ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("list logged entries: %w", err)
	}
	defer rows.Close()

	var (
		entries  []model.LoggedEntry
		warnings []string
	)
	for rows.Next() {
		var (
			e        model.LoggedEntry
			date     string
			meal     string
			portionG sql.NullFloat64
			portions sql.NullFloat64
			loggedAt string
			values   = make([]float64, len(model.AllNutrients))
		)
		dest := []any{&e.ID, &date, &meal, &e.Food.ID, &e.Food.Name, &portionG, &e.QuantityGrams, &portions}
		for i := range values {
			dest = append(dest, &values[i])
		}
		dest = append(dest, &loggedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("scan logged entry: %w", err)
		}
		e.Date = model.Date(date)
		e.Meal = model.Meal(meal)
		if portionG.Valid {
			v := portionG.Float64
			e.Food.PortionGrams = &v
		}
		if portions.Valid {
			v := portions.Float64
			e.Portions = &v
		}
		e.Nutrients = make(model.Nutrients, len(model.AllNutrients))
		for i, n := range model.AllNutrients {
			e.Nutrients[n] = values[i]
		}
		e.LoggedAt, err = time.Parse(time.RFC3339Nano, loggedAt)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("entry %s: invalid logged_at %q", e.ID, loggedAt))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate logged entries: %w", err)
	}
	return entries, warnings, nil
}

func (b *SQLiteBackend) Append(e model.LoggedEntry) error {
	args := []any{
		e.ID, string(e.Date), string(e.Meal), e.Food.ID, e.Food.Name,
		nullableFloat(e.Food.PortionGrams), e.QuantityGrams, nullableFloat(e.Portions),
	}
	for _, n := range model.AllNutrients {
		args = append(args, e.Nutrients.Get(n))
	}
	args = append(args, e.LoggedAt.Format(time.RFC3339Nano))
	_, err := b.db.Exec(`
INSERT INTO logged_entries(`+loggedEntryColumns+`, seq)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
  (SELECT IFNULL(MAX(seq), 0) + 1 FROM logged_entries))
`, args...)
	if err != nil {
		return fmt.Errorf("insert logged entry %s: %w", e.ID, err)
	}
	return nil
}

func (b *SQLiteBackend) Remove(e model.LoggedEntry) error {
	res, err := b.db.Exec(`DELETE FROM logged_entries WHERE id = ?`, e.ID)
	if err != nil {
		return fmt.Errorf("delete logged entry %s: %w", e.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete logged entry %s rows affected: %w", e.ID, err)
	}
	if affected == 0 {
		return &NotFoundError{What: "entry", Ref: e.ID}
	}
	return nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
