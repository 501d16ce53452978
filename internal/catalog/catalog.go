package catalog

import (
	"fmt"
	"iter"
	"strings"

	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/textnorm"
)

// Catalog is the normalized reference table. It is never modified after
// construction, so it can be shared between readers without locking.
type Catalog struct {
	source   string
	entries  []model.CatalogEntry
	byID     map[string]int
	warnings []Warning
}

// Warning records a cell or row that was coerced or dropped while loading.
type Warning struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Column == "" {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return fmt.Sprintf("line %d, column %s: %s (value %q)", w.Line, w.Column, w.Message, w.Value)
}

// SchemaError reports required columns that are absent after header
// canonicalization.
type SchemaError struct {
	Source  string
	Missing []Column
}

func (e *SchemaError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, c := range e.Missing {
		names = append(names, string(c))
	}
	msg := "reference table is missing required column(s): " + strings.Join(names, ", ")
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	return msg
}

// New builds a catalog from entries that are already clean. Missing
// normalized names are derived from the raw names; IDs default to the row
// position.
func New(entries []model.CatalogEntry) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(entries))}
	for i, e := range entries {
		e = cloneEntry(e)
		e.RawName = strings.TrimSpace(e.RawName)
		if e.NormalizedName == "" {
			e.NormalizedName = textnorm.Fold(e.RawName)
		}
		if e.ID == "" {
			e.ID = rowID(i + 1)
		}
		if e.Nutrients == nil {
			e.Nutrients = model.Nutrients{}
		}
		c.add(e)
	}
	return c
}

func (c *Catalog) add(e model.CatalogEntry) {
	c.byID[e.ID] = len(c.entries)
	c.entries = append(c.entries, e)
}

func (c *Catalog) Source() string {
	return c.source
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// At returns a copy of the entry at position i.
func (c *Catalog) At(i int) model.CatalogEntry {
	return cloneEntry(c.entries[i])
}

func (c *Catalog) ByID(id string) (model.CatalogEntry, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return model.CatalogEntry{}, false
	}
	return cloneEntry(c.entries[i]), true
}

// All yields copies of the entries in catalog order.
func (c *Catalog) All() iter.Seq2[int, model.CatalogEntry] {
	return func(yield func(int, model.CatalogEntry) bool) {
		for i, e := range c.entries {
			if !yield(i, cloneEntry(e)) {
				return
			}
		}
	}
}

func (c *Catalog) Warnings() []Warning {
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

func cloneEntry(e model.CatalogEntry) model.CatalogEntry {
	if e.Nutrients != nil {
		e.Nutrients = e.Nutrients.Clone()
	}
	if e.PortionGrams != nil {
		v := *e.PortionGrams
		e.PortionGrams = &v
	}
	return e
}

func rowID(n int) string {
	return fmt.Sprintf("row-%d", n)
}
