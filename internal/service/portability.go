package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arthurssouza42/fit/internal/model"
)

const ExportFormatVersion = 1

type ExportData struct {
	Version    int                 `json:"version"`
	ExportedAt time.Time           `json:"exported_at"`
	Entries    []model.LoggedEntry `json:"entries"`
	Targets    []model.Targets     `json:"targets"`
	Activities []model.Activity    `json:"activities"`
}

type ImportMode string

const (
	ImportModeFail ImportMode = "fail"
	ImportModeSkip ImportMode = "skip"
)

func ParseImportMode(value string) (ImportMode, error) {
	switch ImportMode(normalizeName(value)) {
	case "", ImportModeFail:
		return ImportModeFail, nil
	case ImportModeSkip:
		return ImportModeSkip, nil
	}
	return "", invalid("import mode", "%q is unknown (use fail or skip)", value)
}

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
	Logger *zap.Logger
}

type ImportReport struct {
	Inserted  int      `json:"inserted"`
	Skipped   int      `json:"skipped"`
	Conflicts int      `json:"conflicts"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ConflictError is returned in fail mode when imported entries collide with
// entries already in the log.
type ConflictError struct {
	IDs []string
}

func (e *ConflictError) Error() string {
	if len(e.IDs) == 1 {
		return fmt.Sprintf("entry %s already exists", e.IDs[0])
	}
	return fmt.Sprintf("%d entries already exist (first: %s)", len(e.IDs), e.IDs[0])
}

// ExportSnapshot collects the whole log together with targets and
// activities. Entries come out in AllEntries order.
func ExportSnapshot(diary *Diary, db *sql.DB) (*ExportData, error) {
	out := &ExportData{
		Version:    ExportFormatVersion,
		ExportedAt: time.Now().UTC(),
		Entries:    make([]model.LoggedEntry, 0, diary.Store.Len()),
	}
	for e := range diary.Store.AllEntries() {
		out.Entries = append(out.Entries, e)
	}
	if db == nil {
		return out, nil
	}
	targets, err := TargetsHistory(db)
	if err != nil {
		return nil, fmt.Errorf("export targets: %w", err)
	}
	// history is newest first; exports read oldest first
	for i := len(targets) - 1; i >= 0; i-- {
		out.Targets = append(out.Targets, targets[i])
	}
	activities, err := ListActivities(db, "")
	if err != nil {
		return nil, fmt.Errorf("export activities: %w", err)
	}
	out.Activities = activities
	return out, nil
}

// ImportSnapshot adds data to the diary and database. Entries whose ID is
// already logged are conflicts: fail mode rejects the whole import before
// anything is written, skip mode leaves them out. Invalid entries, targets
// and activities are skipped with a warning in both modes, and all of them
// are checked before the first write.
func ImportSnapshot(diary *Diary, db *sql.DB, data *ExportData, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	if data == nil {
		return report, errors.New("import data is empty")
	}
	mode := opts.Mode
	if mode == "" {
		mode = ImportModeFail
	}
	log := diary.log
	if opts.Logger != nil {
		log = opts.Logger
	}

	var (
		pending   []model.LoggedEntry
		conflicts []string
		seen      = map[string]bool{}
	)
	for _, e := range data.Entries {
		if err := validateLoggedEntry(e); err != nil {
			report.Skipped++
			report.Warnings = append(report.Warnings, fmt.Sprintf("entry %s skipped: %v", e.ID, err))
			continue
		}
		e.Date, _ = model.ParseDate(string(e.Date))
		_, exists := diary.Store.Find(e.ID)
		if exists || seen[e.ID] {
			report.Conflicts++
			conflicts = append(conflicts, e.ID)
			log.Debug("import conflict", zap.String("entry_id", e.ID))
			continue
		}
		seen[e.ID] = true
		pending = append(pending, e)
	}
	if len(conflicts) > 0 && mode == ImportModeFail {
		return report, &ConflictError{IDs: conflicts}
	}
	report.Skipped += len(conflicts)

	targets := make([]model.Targets, 0, len(data.Targets))
	for _, t := range data.Targets {
		clean, err := cleanImportedTargets(t)
		if err != nil {
			report.Skipped++
			report.Warnings = append(report.Warnings, fmt.Sprintf("targets %q skipped: %v", t.EffectiveDate, err))
			continue
		}
		targets = append(targets, clean)
	}
	activities := make([]model.Activity, 0, len(data.Activities))
	for _, a := range data.Activities {
		clean, err := cleanImportedActivity(a)
		if err != nil {
			report.Skipped++
			report.Warnings = append(report.Warnings, fmt.Sprintf("activity %q skipped: %v", a.Description, err))
			continue
		}
		activities = append(activities, clean)
	}
	if db == nil && len(targets)+len(activities) > 0 {
		report.Warnings = append(report.Warnings, "targets and activities ignored without a database")
		targets, activities = nil, nil
	}

	if opts.DryRun {
		report.Inserted = len(pending)
		if db != nil {
			if err := importTargetsAndActivities(db, targets, activities, &report, false); err != nil {
				return report, err
			}
		}
		return report, nil
	}

	for _, e := range pending {
		if err := diary.Log(e); err != nil {
			return report, fmt.Errorf("import entry %s: %w", e.ID, err)
		}
		report.Inserted++
	}
	if db != nil {
		if err := importTargetsAndActivities(db, targets, activities, &report, true); err != nil {
			return report, err
		}
	}
	if len(report.Warnings) > 0 {
		log.Warn("import finished with warnings", zap.Int("inserted", report.Inserted), zap.Int("skipped", report.Skipped), zap.Int("warnings", len(report.Warnings)))
	}
	return report, nil
}

func cleanImportedTargets(t model.Targets) (model.Targets, error) {
	date, err := model.ParseDate(t.EffectiveDate)
	if err != nil {
		return t, invalid("effective date", "%q is not a valid date (expected YYYY-MM-DD)", t.EffectiveDate)
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"energy target", t.EnergyKcal},
		{"protein target", t.ProteinG},
		{"carbohydrate target", t.CarbohydrateG},
		{"fat target", t.FatG},
	}
	for _, c := range checks {
		if err := validateNonNegativeFloat(c.name, c.v); err != nil {
			return t, err
		}
	}
	t.EffectiveDate = string(date)
	return t, nil
}

func cleanImportedActivity(a model.Activity) (model.Activity, error) {
	a.Description = strings.TrimSpace(a.Description)
	if a.Description == "" {
		return a, invalid("activity description", "is required")
	}
	if a.DurationMin <= 0 {
		return a, invalid("duration", "must be > 0 minutes")
	}
	date, err := model.ParseDate(string(a.Date))
	if err != nil {
		return a, invalid("date", "%q is not a valid date (expected YYYY-MM-DD)", a.Date)
	}
	a.Date = date
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return a, nil
}

// importTargetsAndActivities writes inside one transaction. Duplicates are
// counted as skipped; with commit false the transaction is rolled back so a
// dry run reports exactly what a real import would do.
func importTargetsAndActivities(db *sql.DB, targets []model.Targets, activities []model.Activity, report *ImportReport, commit bool) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range targets {
		res, err := tx.Exec(`INSERT OR IGNORE INTO targets(energy_kcal, protein_g, carbohydrate_g, fat_g, effective_date) VALUES(?, ?, ?, ?, ?)`,
			t.EnergyKcal, t.ProteinG, t.CarbohydrateG, t.FatG, t.EffectiveDate)
		if err != nil {
			return fmt.Errorf("import targets %q: %w", t.EffectiveDate, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			report.Skipped++
			continue
		}
		report.Inserted++
	}
	for _, a := range activities {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM activities WHERE activity_date = ? AND description = ? AND duration_min = ? AND created_at = ?`,
			string(a.Date), a.Description, a.DurationMin, a.CreatedAt.Format(time.RFC3339)).Scan(&exists)
		if err == nil {
			report.Skipped++
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check activity %q: %w", a.Description, err)
		}
		if _, err := tx.Exec(`INSERT INTO activities(activity_date, description, duration_min, created_at) VALUES(?, ?, ?, ?)`,
			string(a.Date), a.Description, a.DurationMin, a.CreatedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("import activity %q: %w", a.Description, err)
		}
		report.Inserted++
	}
	if !commit {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}
