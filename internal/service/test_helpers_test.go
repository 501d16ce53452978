package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthurssouza42/fit/internal/db"
	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fit.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func ptr(v float64) *float64 {
	return &v
}

// arroz is "Arroz integral cozido" as listed in TACO.
func arroz() model.CatalogEntry {
	return model.CatalogEntry{
		ID:             "1",
		RawName:        "Arroz integral cozido",
		NormalizedName: "arroz integral cozido",
		Nutrients: model.Nutrients{
			model.EnergyKcal:    124,
			model.ProteinG:      2.6,
			model.FatG:          1.0,
			model.CarbohydrateG: 25.8,
			model.FiberG:        2.7,
			model.SodiumMg:      1,
		},
		PortionGrams: ptr(50),
	}
}

func feijao() model.CatalogEntry {
	return model.CatalogEntry{
		ID:             "2",
		RawName:        "Feijão carioca cozido",
		NormalizedName: "feijao carioca cozido",
		Nutrients: model.Nutrients{
			model.EnergyKcal:    76,
			model.ProteinG:      4.8,
			model.FatG:          0.5,
			model.CarbohydrateG: 13.6,
		},
	}
}

func newEntry(t *testing.T, food model.CatalogEntry, date model.Date, meal model.Meal, grams float64) model.LoggedEntry {
	t.Helper()
	e, err := service.ComputeEntry(service.ComputeEntryInput{
		Food:     food,
		Grams:    grams,
		Date:     date,
		Meal:     meal,
		LoggedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("compute entry: %v", err)
	}
	return e
}
