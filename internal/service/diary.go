package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arthurssouza42/fit/internal/logger"
	"github.com/arthurssouza42/fit/internal/model"
)

// Backend persists logged entries. Load returns the entries it could read
// together with warnings for the rows it had to skip or coerce.
type Backend interface {
	Load() ([]model.LoggedEntry, []string, error)
	Append(e model.LoggedEntry) error
	Remove(e model.LoggedEntry) error
}

// Diary couples the in-memory RecordStore with a Backend. Memory is updated
// first; a failed write is reported as a PersistenceError but the change
// stays in memory for the rest of the session.
type Diary struct {
	Store    *RecordStore
	backend  Backend
	log      *zap.Logger
	warnings []string
}

func OpenDiary(backend Backend, log *zap.Logger) (*Diary, error) {
	if backend == nil {
		return nil, errors.New("diary backend is required")
	}
	d := &Diary{Store: NewRecordStore(), backend: backend, log: logger.OrNop(log)}
	entries, warnings, err := backend.Load()
	if err != nil {
		return nil, &PersistenceError{Op: "loading the food log", Err: err}
	}
	for _, e := range entries {
		if err := d.Store.Append(e); err != nil {
			warnings = append(warnings, fmt.Sprintf("entry %s skipped: %v", e.ID, err))
		}
	}
	d.warnings = warnings
	if len(warnings) > 0 {
		d.log.Warn("food log loaded with warnings", zap.Int("entries", d.Store.Len()), zap.Int("warnings", len(warnings)))
	}
	return d, nil
}

// Warnings are the problems found while loading the backend.
func (d *Diary) Warnings() []string {
	return append([]string(nil), d.warnings...)
}

// Log appends e to the store and the backend.
func (d *Diary) Log(e model.LoggedEntry) error {
	if err := d.Store.Append(e); err != nil {
		return err
	}
	if err := d.backend.Append(e); err != nil {
		d.log.Warn("logged entry kept in memory only", zap.String("entry_id", e.ID), zap.Error(err))
		return &PersistenceError{Op: "logging " + e.Food.Name, Err: err}
	}
	d.log.Debug("entry logged", zap.String("entry_id", e.ID), zap.String("date", string(e.Date)), zap.String("meal", string(e.Meal)))
	return nil
}

// RemoveAt removes the entry shown at index for (date, meal).
func (d *Diary) RemoveAt(date model.Date, meal model.Meal, index int) (model.LoggedEntry, error) {
	removed, err := d.Store.RemoveAt(date, meal, index)
	if err != nil {
		return removed, err
	}
	return removed, d.persistRemoval(removed)
}

// RemoveByID removes the entry with id from (date, meal).
func (d *Diary) RemoveByID(date model.Date, meal model.Meal, id string) (model.LoggedEntry, error) {
	removed, err := d.Store.RemoveByID(date, meal, id)
	if err != nil {
		return removed, err
	}
	return removed, d.persistRemoval(removed)
}

func (d *Diary) persistRemoval(removed model.LoggedEntry) error {
	if err := d.backend.Remove(removed); err != nil {
		d.log.Warn("entry removed in memory only", zap.String("entry_id", removed.ID), zap.Error(err))
		return &PersistenceError{Op: "removing " + removed.Food.Name, Err: err}
	}
	return nil
}
