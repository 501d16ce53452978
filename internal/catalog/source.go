package catalog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Source keeps the catalog built from a reference file and rebuilds it only
// when the file's size or modification time changes.
type Source struct {
	path string
	opts Options

	mu      sync.Mutex
	cat     *Catalog
	size    int64
	modTime time.Time
}

func NewSource(path string, opts Options) *Source {
	if opts.Source == "" {
		opts.Source = path
	}
	return &Source{path: path, opts: opts}
}

func (s *Source) Path() string {
	return s.path
}

func (s *Source) Catalog() (*Catalog, error) {
	st, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat reference table: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cat != nil && st.Size() == s.size && st.ModTime().Equal(s.modTime) {
		return s.cat, nil
	}
	cat, err := LoadFile(s.path, s.opts)
	if err != nil {
		return nil, err
	}
	s.cat, s.size, s.modTime = cat, st.Size(), st.ModTime()
	return cat, nil
}
