package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS logged_entries (
  id TEXT PRIMARY KEY,
  log_date TEXT NOT NULL,
  meal TEXT NOT NULL CHECK(meal IN ('breakfast', 'lunch', 'afternoon-snack', 'dinner', 'evening-snack')),
  food_id TEXT NOT NULL DEFAULT '',
  food_name TEXT NOT NULL,
  portion_g REAL CHECK(portion_g > 0),
  quantity_g REAL NOT NULL CHECK(quantity_g > 0),
  portions REAL CHECK(portions > 0),
  energy_kcal REAL NOT NULL DEFAULT 0 CHECK(energy_kcal >= 0),
  protein_g REAL NOT NULL DEFAULT 0 CHECK(protein_g >= 0),
  fat_g REAL NOT NULL DEFAULT 0 CHECK(fat_g >= 0),
  carbohydrate_g REAL NOT NULL DEFAULT 0 CHECK(carbohydrate_g >= 0),
  logged_at DATETIME NOT NULL,
  seq INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_logged_entries_date_meal ON logged_entries(log_date, meal, seq);

CREATE TABLE IF NOT EXISTS targets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  energy_kcal REAL NOT NULL CHECK(energy_kcal >= 0),
  protein_g REAL NOT NULL CHECK(protein_g >= 0),
  carbohydrate_g REAL NOT NULL CHECK(carbohydrate_g >= 0),
  fat_g REAL NOT NULL CHECK(fat_g >= 0),
  effective_date TEXT NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(effective_date)
);
`,
	},
	{
		version: 2,
		name:    "app_config",
		sql: `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 3,
		name:    "activities",
		sql: `
CREATE TABLE IF NOT EXISTS activities (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  activity_date TEXT NOT NULL,
  description TEXT NOT NULL,
  duration_min INTEGER NOT NULL CHECK(duration_min > 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(activity_date);
`,
	},
	{
		version: 4,
		name:    "micronutrients",
		sql: `
ALTER TABLE logged_entries ADD COLUMN fiber_g REAL NOT NULL DEFAULT 0 CHECK(fiber_g >= 0);
ALTER TABLE logged_entries ADD COLUMN sodium_mg REAL NOT NULL DEFAULT 0 CHECK(sodium_mg >= 0);
ALTER TABLE logged_entries ADD COLUMN calcium_mg REAL NOT NULL DEFAULT 0 CHECK(calcium_mg >= 0);
ALTER TABLE logged_entries ADD COLUMN iron_mg REAL NOT NULL DEFAULT 0 CHECK(iron_mg >= 0);
ALTER TABLE logged_entries ADD COLUMN cholesterol_mg REAL NOT NULL DEFAULT 0 CHECK(cholesterol_mg >= 0);
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return nil
}
