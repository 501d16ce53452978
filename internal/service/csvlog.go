package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arthurssouza42/fit/internal/catalog"
	"github.com/arthurssouza42/fit/internal/model"
)

// DefaultLogDelimiter matches the reference tables the log is usually kept
// next to.
const DefaultLogDelimiter = ';'

var logNutrientHeaders = map[model.Nutrient]string{
	model.EnergyKcal:    "Energia (kcal)",
	model.ProteinG:      "Proteina (g)",
	model.FatG:          "Lipideos (g)",
	model.CarbohydrateG: "Carboidrato (g)",
	model.FiberG:        "Fibra (g)",
	model.SodiumMg:      "Sodio (mg)",
	model.CalciumMg:     "Calcio (mg)",
	model.IronMg:        "Ferro (mg)",
	model.CholesterolMg: "Colesterol (mg)",
}

var logRequiredColumns = []catalog.Column{catalog.ColumnDate, catalog.ColumnMeal, catalog.ColumnQuantity}

func logHeader() []string {
	header := []string{"Data", "Refeicao", "ID", "Alimento ID", "Alimento", "Quantidade (g)", "Porcoes", "Porcao (g)"}
	for _, n := range model.AllNutrients {
		header = append(header, logNutrientHeaders[n])
	}
	return append(header, "Registrado em")
}

// WriteLogCSV writes entries in the delimited log format: one row per entry
// with explicit Data and Refeicao columns.
func WriteLogCSV(w io.Writer, entries iter.Seq[model.LoggedEntry], delim rune) error {
	if delim == 0 {
		delim = DefaultLogDelimiter
	}
	cw := csv.NewWriter(w)
	cw.Comma = delim
	if err := cw.Write(logHeader()); err != nil {
		return fmt.Errorf("write log csv header: %w", err)
	}
	for e := range entries {
		if err := cw.Write(logRecord(e)); err != nil {
			return fmt.Errorf("write log csv row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush log csv: %w", err)
	}
	return nil
}

func logRecord(e model.LoggedEntry) []string {
	record := []string{
		string(e.Date),
		e.Meal.Label(),
		e.ID,
		e.Food.ID,
		e.Food.Name,
		formatAmount(e.QuantityGrams),
		formatOptional(e.Portions),
		formatOptional(e.Food.PortionGrams),
	}
	for _, n := range model.AllNutrients {
		record = append(record, formatAmount(e.Nutrients.Get(n)))
	}
	return append(record, e.LoggedAt.Format(time.RFC3339))
}

// ReadLogCSV parses the delimited log format. The date, meal and quantity
// columns are required; missing nutrient columns read as 0. Rows that cannot
// be used are skipped and reported as warnings.
func ReadLogCSV(r io.Reader) ([]model.LoggedEntry, []string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read log csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil, nil
	}
	reader := catalog.NewTableReader(bytes.NewReader(raw), catalog.DetectDelimiter(raw))
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read log csv header: %w", err)
	}
	index, _ := catalog.HeaderIndex(header)
	var missing []catalog.Column
	for _, c := range logRequiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &catalog.SchemaError{Source: "food log", Missing: missing}
	}

	var (
		entries  []model.LoggedEntry
		warnings []string
		seen     = map[string]bool{}
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				warnings = append(warnings, fmt.Sprintf("line %d: malformed row skipped: %v", perr.Line, perr.Err))
				continue
			}
			return nil, nil, fmt.Errorf("read log csv row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		e, rowWarnings, err := parseLogRecord(record, index)
		for _, w := range rowWarnings {
			warnings = append(warnings, fmt.Sprintf("line %d: %s", line, w))
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: row skipped: %v", line, err))
			continue
		}
		if seen[e.ID] {
			warnings = append(warnings, fmt.Sprintf("line %d: duplicate id %s replaced", line, e.ID))
			e.ID = uuid.NewString()
		}
		seen[e.ID] = true
		entries = append(entries, e)
	}
	return entries, warnings, nil
}

func parseLogRecord(record []string, index map[catalog.Column]int) (model.LoggedEntry, []string, error) {
	get := func(c catalog.Column) (string, bool) {
		i, ok := index[c]
		if !ok || i >= len(record) {
			return "", ok
		}
		return strings.TrimSpace(record[i]), true
	}
	var warnings []string

	rawDate, _ := get(catalog.ColumnDate)
	date, err := model.ParseDate(rawDate)
	if err != nil {
		return model.LoggedEntry{}, nil, err
	}
	rawMeal, _ := get(catalog.ColumnMeal)
	meal, err := model.ParseMeal(rawMeal)
	if err != nil {
		return model.LoggedEntry{}, nil, err
	}
	rawQty, _ := get(catalog.ColumnQuantity)
	qty, err := catalog.ParseAmount(rawQty)
	if err != nil || qty <= 0 {
		return model.LoggedEntry{}, nil, fmt.Errorf("invalid quantity %q", rawQty)
	}

	e := model.LoggedEntry{
		Date:          date,
		Meal:          meal,
		QuantityGrams: qty,
		Nutrients:     model.ZeroNutrients(),
	}
	e.ID, _ = get(catalog.ColumnID)
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Food.ID, _ = get(catalog.ColumnFoodID)
	e.Food.Name, _ = get(catalog.ColumnDescription)
	if v, ok := get(catalog.ColumnPortions); ok && v != "" {
		if p, err := catalog.ParseAmount(v); err == nil && p > 0 {
			e.Portions = &p
		} else {
			warnings = append(warnings, fmt.Sprintf("portions %q ignored", v))
		}
	}
	if v, ok := get(catalog.ColumnPortion); ok && v != "" {
		if g, err := catalog.ParseAmount(v); err == nil && g > 0 {
			e.Food.PortionGrams = &g
		}
	}
	for _, n := range model.AllNutrients {
		v, ok := get(catalog.NutrientColumn(n))
		if !ok {
			continue
		}
		amount, err := catalog.ParseAmount(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s %q read as 0: %v", n, v, err))
		}
		e.Nutrients[n] = amount
	}
	if v, ok := get(catalog.ColumnLoggedAt); ok && v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			e.LoggedAt = t
		}
	}
	if e.LoggedAt.IsZero() {
		e.LoggedAt, _ = time.ParseInLocation(model.DateLayout, string(date), time.Local)
	}
	return e, warnings, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatAmount(*v)
}

// CSVBackend keeps the food log in a delimited text file and rewrites the
// whole file on every change.
type CSVBackend struct {
	path  string
	delim rune

	mu      sync.Mutex
	entries []model.LoggedEntry
}

func NewCSVBackend(path string, delim rune) *CSVBackend {
	if delim == 0 {
		delim = DefaultLogDelimiter
	}
	return &CSVBackend{path: path, delim: delim}
}

func (b *CSVBackend) Path() string {
	return b.path
}

func (b *CSVBackend) Load() ([]model.LoggedEntry, []string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := os.Open(b.path)
	if errors.Is(err, os.ErrNotExist) {
		b.entries = nil
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open food log: %w", err)
	}
	defer f.Close()
	entries, warnings, err := ReadLogCSV(f)
	if err != nil {
		return nil, nil, err
	}
	b.entries = entries
	return slices.Clone(entries), warnings, nil
}

func (b *CSVBackend) Append(e model.LoggedEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := append(slices.Clone(b.entries), e)
	if err := b.write(next); err != nil {
		return err
	}
	b.entries = next
	return nil
}

func (b *CSVBackend) Remove(e model.LoggedEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := slices.DeleteFunc(slices.Clone(b.entries), func(x model.LoggedEntry) bool { return x.ID == e.ID })
	if err := b.write(next); err != nil {
		return err
	}
	b.entries = next
	return nil
}

func (b *CSVBackend) write(entries []model.LoggedEntry) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create food log directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".fit-log-*.csv")
	if err != nil {
		return fmt.Errorf("create temporary food log: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := WriteLogCSV(tmp, slices.Values(entries), b.delim); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temporary food log: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("replace food log: %w", err)
	}
	return nil
}
