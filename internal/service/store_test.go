package service_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

func TestRecordStoreTotalsPerMealAndDay(t *testing.T) {
	t.Parallel()
	s := service.NewRecordStore()
	for _, e := range []model.LoggedEntry{
		newEntry(t, arroz(), "2024-05-01", model.Lunch, 150),
		newEntry(t, feijao(), "2024-05-01", model.Lunch, 100),
		newEntry(t, arroz(), "2024-05-01", model.Dinner, 100),
		newEntry(t, arroz(), "2024-05-02", model.Lunch, 100),
	} {
		if err := s.Append(e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	lunch := s.Totals("2024-05-01", model.Lunch)
	if lunch[model.EnergyKcal] != 262 {
		t.Fatalf("expected lunch energy 262, got %v", lunch[model.EnergyKcal])
	}
	if lunch[model.ProteinG] != 8.7 {
		t.Fatalf("expected lunch protein 8.7, got %v", lunch[model.ProteinG])
	}
	day := s.Totals("2024-05-01", "")
	if day[model.EnergyKcal] != 386 {
		t.Fatalf("expected day energy 386, got %v", day[model.EnergyKcal])
	}
	if got := len(s.Entries("2024-05-01", "")); got != 3 {
		t.Fatalf("expected 3 entries on 2024-05-01, got %d", got)
	}
}

func TestRecordStoreEmptyTotalsAreZero(t *testing.T) {
	t.Parallel()
	totals := service.NewRecordStore().Totals("2024-05-01", model.Breakfast)
	for _, n := range model.AllNutrients {
		v, ok := totals[n]
		if !ok || v != 0 {
			t.Fatalf("expected %s present and zero, got %v (present=%v)", n, v, ok)
		}
	}
}

func TestRecordStoreAllowsDuplicates(t *testing.T) {
	t.Parallel()
	s := service.NewRecordStore()
	e := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	dup := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	if err := s.Append(e); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(dup); err != nil {
		t.Fatalf("append duplicate food: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}
}

func TestRecordStoreRejectsInvalidEntry(t *testing.T) {
	t.Parallel()
	s := service.NewRecordStore()
	e := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	e.QuantityGrams = 0
	var verr *service.ValidationError
	if err := s.Append(e); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	e = newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	e.Nutrients[model.FatG] = -1
	if err := s.Append(e); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for negative nutrient, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("invalid entries must not be stored")
	}
}

func TestRecordStoreRemoveKeepsTotalsConsistent(t *testing.T) {
	t.Parallel()
	s := service.NewRecordStore()
	a := newEntry(t, arroz(), "2024-05-01", model.Lunch, 150)
	b := newEntry(t, feijao(), "2024-05-01", model.Lunch, 80)
	c := newEntry(t, arroz(), "2024-05-01", model.Lunch, 60)
	for _, e := range []model.LoggedEntry{a, b, c} {
		if err := s.Append(e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	before := s.Totals("2024-05-01", model.Lunch)

	removed, err := s.RemoveAt("2024-05-01", model.Lunch, 1)
	if err != nil {
		t.Fatalf("remove at 1: %v", err)
	}
	if removed.ID != b.ID {
		t.Fatalf("expected to remove %s, removed %s", b.ID, removed.ID)
	}
	after := s.Totals("2024-05-01", model.Lunch)
	for _, n := range model.AllNutrients {
		want := service.Round2(before[n] - b.Nutrients.Get(n))
		if service.Round2(after[n]) != want {
			t.Fatalf("%s: expected %v after removal, got %v", n, want, after[n])
		}
	}
	left := s.Entries("2024-05-01", model.Lunch)
	if len(left) != 2 || left[0].ID != a.ID || left[1].ID != c.ID {
		t.Fatalf("unexpected remaining order: %+v", left)
	}
}

func TestRecordStoreStaleRemovalIsNotFound(t *testing.T) {
	t.Parallel()
	s := service.NewRecordStore()
	e := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	if err := s.Append(e); err != nil {
		t.Fatalf("append: %v", err)
	}

	var nf *service.NotFoundError
	if _, err := s.RemoveAt("2024-05-01", model.Lunch, 1); !errors.As(err, &nf) {
		t.Fatalf("expected not found for index 1, got %v", err)
	}
	if _, err := s.RemoveAt("2024-05-01", model.Dinner, 0); !errors.As(err, &nf) {
		t.Fatalf("expected not found for empty meal, got %v", err)
	}
	if _, err := s.RemoveByID("2024-05-01", model.Lunch, "missing"); !errors.As(err, &nf) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
	if _, err := s.RemoveByID("2024-05-02", model.Lunch, e.ID); !errors.As(err, &nf) {
		t.Fatalf("expected not found for wrong date, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("store changed by failed removals: %d entries", s.Len())
	}

	if _, err := s.RemoveByID("2024-05-01", model.Lunch, e.ID); err != nil {
		t.Fatalf("remove by id: %v", err)
	}
	if _, err := s.RemoveByID("2024-05-01", model.Lunch, e.ID); !errors.As(err, &nf) {
		t.Fatalf("expected not found on second removal, got %v", err)
	}
	if len(s.Dates()) != 0 {
		t.Fatalf("expected empty dates after removing the last entry, got %v", s.Dates())
	}
}

func TestRecordStoreAllEntriesOrderAndRestart(t *testing.T) {
	t.Parallel()
	s := service.NewRecordStore()
	inOrder := []model.LoggedEntry{
		newEntry(t, arroz(), "2024-04-30", model.Dinner, 100),
		newEntry(t, arroz(), "2024-05-01", model.Breakfast, 100),
		newEntry(t, feijao(), "2024-05-01", model.Lunch, 100),
		newEntry(t, arroz(), "2024-05-01", model.Lunch, 50),
		newEntry(t, arroz(), "2024-05-01", model.EveningSnack, 20),
	}
	for _, i := range []int{4, 2, 0, 3, 1} {
		if err := s.Append(inOrder[i]); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	// lunch keeps logging order: feijao was appended before the 50 g arroz
	want := []string{inOrder[0].ID, inOrder[1].ID, inOrder[2].ID, inOrder[3].ID, inOrder[4].ID}

	for pass := 0; pass < 2; pass++ {
		var got []string
		for e := range s.AllEntries() {
			got = append(got, e.ID)
		}
		if len(got) != len(want) {
			t.Fatalf("pass %d: expected %d entries, got %d", pass, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("pass %d: position %d expected %s, got %s", pass, i, want[i], got[i])
			}
		}
	}

	n := 0
	for range s.AllEntries() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("expected early stop after 2 entries, got %d", n)
	}
}

func TestRecordStoreEntriesAreCopies(t *testing.T) {
	t.Parallel()
	s := service.NewRecordStore()
	e := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	if err := s.Append(e); err != nil {
		t.Fatalf("append: %v", err)
	}
	got := s.Entries("2024-05-01", model.Lunch)
	got[0].Nutrients[model.EnergyKcal] = 9999
	if s.Totals("2024-05-01", model.Lunch)[model.EnergyKcal] != 124 {
		t.Fatalf("store was mutated through a returned entry")
	}
}

func TestRecordStoreConcurrentAppends(t *testing.T) {
	t.Parallel()
	s := service.NewRecordStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		e := newEntry(t, arroz(), "2024-05-01", model.Meals[i%len(model.Meals)], 10)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Append(e)
		}()
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Fatalf("expected 50 entries, got %d", s.Len())
	}
	if got := s.Totals("2024-05-01", "")[model.EnergyKcal]; got != 620 {
		t.Fatalf("expected 620 kcal, got %v", got)
	}
}
