package service_test

import (
	"errors"
	"testing"

	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

type memoryBackend struct {
	entries   []model.LoggedEntry
	warnings  []string
	loadErr   error
	appendErr error
	removeErr error
	appended  int
	removed   int
}

func (b *memoryBackend) Load() ([]model.LoggedEntry, []string, error) {
	return b.entries, b.warnings, b.loadErr
}

func (b *memoryBackend) Append(e model.LoggedEntry) error {
	if b.appendErr != nil {
		return b.appendErr
	}
	b.appended++
	return nil
}

func (b *memoryBackend) Remove(e model.LoggedEntry) error {
	if b.removeErr != nil {
		return b.removeErr
	}
	b.removed++
	return nil
}

func TestOpenDiaryLoadFailureIsPersistenceError(t *testing.T) {
	t.Parallel()
	_, err := service.OpenDiary(&memoryBackend{loadErr: errors.New("disk gone")}, nil)
	var perr *service.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestOpenDiarySkipsInvalidEntries(t *testing.T) {
	t.Parallel()
	good := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	bad := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	bad.Meal = "brunch"
	d, err := service.OpenDiary(&memoryBackend{
		entries:  []model.LoggedEntry{good, bad},
		warnings: []string{"line 4: row skipped"},
	}, nil)
	if err != nil {
		t.Fatalf("open diary: %v", err)
	}
	if d.Store.Len() != 1 {
		t.Fatalf("expected 1 loaded entry, got %d", d.Store.Len())
	}
	if got := len(d.Warnings()); got != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", got, d.Warnings())
	}
}

func TestDiaryKeepsChangesInMemoryWhenBackendFails(t *testing.T) {
	t.Parallel()
	backend := &memoryBackend{}
	d, err := service.OpenDiary(backend, nil)
	if err != nil {
		t.Fatalf("open diary: %v", err)
	}
	kept := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	if err := d.Log(kept); err != nil {
		t.Fatalf("log: %v", err)
	}

	backend.appendErr = errors.New("read-only file system")
	e := newEntry(t, feijao(), "2024-05-01", model.Lunch, 100)
	err = d.Log(e)
	var perr *service.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !errors.Is(err, backend.appendErr) {
		t.Fatalf("expected the backend error to be wrapped")
	}
	if _, ok := d.Store.Find(e.ID); !ok {
		t.Fatalf("entry must stay in memory after a failed write")
	}

	backend.removeErr = errors.New("read-only file system")
	_, err = d.RemoveByID("2024-05-01", model.Lunch, kept.ID)
	if !errors.As(err, &perr) {
		t.Fatalf("expected persistence error on remove, got %v", err)
	}
	if _, ok := d.Store.Find(kept.ID); ok {
		t.Fatalf("entry must be removed from memory even when the backend fails")
	}
}

func TestDiaryValidationErrorWritesNothing(t *testing.T) {
	t.Parallel()
	backend := &memoryBackend{}
	d, err := service.OpenDiary(backend, nil)
	if err != nil {
		t.Fatalf("open diary: %v", err)
	}
	e := newEntry(t, arroz(), "2024-05-01", model.Lunch, 100)
	e.QuantityGrams = -1
	var verr *service.ValidationError
	if err := d.Log(e); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if backend.appended != 0 || d.Store.Len() != 0 {
		t.Fatalf("invalid entry reached storage")
	}
}

func TestDiaryRemoveAtStaleIndex(t *testing.T) {
	t.Parallel()
	backend := &memoryBackend{}
	d, err := service.OpenDiary(backend, nil)
	if err != nil {
		t.Fatalf("open diary: %v", err)
	}
	var nf *service.NotFoundError
	if _, err := d.RemoveAt("2024-05-01", model.Lunch, 0); !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
	if backend.removed != 0 {
		t.Fatalf("backend must not be touched for a stale reference")
	}
}
