package service

import (
	"iter"
	"slices"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/arthurssouza42/fit/internal/model"
)

// DailyLog groups logged entries by date and meal; each bucket keeps logging
// order.
type DailyLog map[model.Date]map[model.Meal][]model.LoggedEntry

// RecordStore owns a DailyLog. Mutations are serialized by a mutex so a
// store shared between callers never loses an update.
type RecordStore struct {
	mu  sync.RWMutex
	log DailyLog
}

func NewRecordStore() *RecordStore {
	return &RecordStore{log: DailyLog{}}
}

// Append adds e at the end of its (date, meal) bucket. Duplicate foods and
// quantities are allowed.
func (s *RecordStore) Append(e model.LoggedEntry) error {
	if err := validateLoggedEntry(e); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	meals, ok := s.log[e.Date]
	if !ok {
		meals = map[model.Meal][]model.LoggedEntry{}
		s.log[e.Date] = meals
	}
	meals[e.Meal] = append(meals[e.Meal], cloneLogged(e))
	return nil
}

// RemoveAt removes the entry at index within the (date, meal) bucket.
func (s *RecordStore) RemoveAt(date model.Date, meal model.Meal, index int) (model.LoggedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.log[date][meal]
	if index < 0 || index >= len(bucket) {
		return model.LoggedEntry{}, &NotFoundError{What: "entry", Ref: bucketRef(date, meal, "#"+strconv.Itoa(index))}
	}
	return s.removeLocked(date, meal, index), nil
}

// RemoveByID removes the entry with the given id from the (date, meal)
// bucket.
func (s *RecordStore) RemoveByID(date model.Date, meal model.Meal, id string) (model.LoggedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.log[date][meal]
	i := slices.IndexFunc(bucket, func(e model.LoggedEntry) bool { return e.ID == id })
	if i < 0 {
		return model.LoggedEntry{}, &NotFoundError{What: "entry", Ref: bucketRef(date, meal, id)}
	}
	return s.removeLocked(date, meal, i), nil
}

func (s *RecordStore) removeLocked(date model.Date, meal model.Meal, i int) model.LoggedEntry {
	bucket := s.log[date][meal]
	removed := bucket[i]
	bucket = slices.Delete(slices.Clone(bucket), i, i+1)
	if len(bucket) == 0 {
		delete(s.log[date], meal)
		if len(s.log[date]) == 0 {
			delete(s.log, date)
		}
	} else {
		s.log[date][meal] = bucket
	}
	return removed
}

// Find locates an entry by id anywhere in the store.
func (s *RecordStore) Find(id string) (model.LoggedEntry, bool) {
	for e := range s.AllEntries() {
		if e.ID == id {
			return e, true
		}
	}
	return model.LoggedEntry{}, false
}

// Entries returns the (date, meal) bucket in logging order. An empty meal
// returns the whole day in meal order.
func (s *RecordStore) Entries(date model.Date, meal model.Meal) []model.LoggedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.LoggedEntry
	for _, m := range selectMeals(meal) {
		for _, e := range s.log[date][m] {
			out = append(out, cloneLogged(e))
		}
	}
	return out
}

// Totals sums nutrients over the (date, meal) bucket, or over the whole day
// when meal is empty. Every nutrient is present in the result; an empty
// selection totals to zero.
func (s *RecordStore) Totals(date model.Date, meal model.Meal) model.Nutrients {
	return SumNutrients(s.Entries(date, meal))
}

// Dates lists the dates holding entries, oldest first.
func (s *RecordStore) Dates() []model.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Date, 0, len(s.log))
	for d := range s.log {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, meals := range s.log {
		for _, bucket := range meals {
			n += len(bucket)
		}
	}
	return n
}

// AllEntries yields every entry ordered by date, meal and logging order.
// Each call starts a fresh pass over the store.
func (s *RecordStore) AllEntries() iter.Seq[model.LoggedEntry] {
	return func(yield func(model.LoggedEntry) bool) {
		for _, d := range s.Dates() {
			for _, e := range s.Entries(d, "") {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// SumNutrients adds the nutrients of entries using decimal arithmetic so the
// sum of two-decimal values stays exact.
func SumNutrients(entries []model.LoggedEntry) model.Nutrients {
	sums := make(map[model.Nutrient]decimal.Decimal, len(model.AllNutrients))
	for _, e := range entries {
		for k, v := range e.Nutrients {
			sums[k] = sums[k].Add(decimal.NewFromFloat(v))
		}
	}
	out := model.ZeroNutrients()
	for k, v := range sums {
		out[k], _ = v.Float64()
	}
	return out
}

func selectMeals(meal model.Meal) []model.Meal {
	if meal == "" {
		return model.Meals
	}
	return []model.Meal{meal}
}

func validateLoggedEntry(e model.LoggedEntry) error {
	if e.ID == "" {
		return invalid("entry id", "is required")
	}
	if _, err := model.ParseDate(string(e.Date)); err != nil {
		return invalid("date", "%q is not a valid date (expected YYYY-MM-DD)", e.Date)
	}
	if !e.Meal.Valid() {
		return invalid("meal", "%q is not a known meal", e.Meal)
	}
	if !(e.QuantityGrams > 0) {
		return invalid("quantity", "must be > 0 g")
	}
	for k, v := range e.Nutrients {
		if err := validateNonNegativeFloat(string(k), v); err != nil {
			return err
		}
	}
	return nil
}

func cloneLogged(e model.LoggedEntry) model.LoggedEntry {
	e.Nutrients = e.Nutrients.Clone()
	if e.Portions != nil {
		v := *e.Portions
		e.Portions = &v
	}
	if e.Food.PortionGrams != nil {
		v := *e.Food.PortionGrams
		e.Food.PortionGrams = &v
	}
	return e
}

func bucketRef(date model.Date, meal model.Meal, ref string) string {
	return string(date) + "/" + string(meal) + "/" + ref
}
