package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/arthurssouza42/fit/internal/logger"
	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/textnorm"
)

type Options struct {
	// Delimiter of the table; 0 detects it from the header line.
	Delimiter rune
	// Source labels warnings and errors, usually the file path.
	Source string
	Logger *zap.Logger
}

var (
	errEmptyCell = errors.New("empty cell")
	errNotNumber = errors.New("not a number")
	errNegative  = errors.New("negative value")
)

func LoadFile(path string, opts Options) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference table: %w", err)
	}
	defer f.Close()
	if opts.Source == "" {
		opts.Source = path
	}
	return Normalize(f, opts)
}

// Normalize reads a delimited reference table and returns its catalog.
// Only a missing required column is fatal; bad rows and cells become
// warnings.
func Normalize(r io.Reader, opts Options) (*Catalog, error) {
	log := logger.OrNop(opts.Logger)
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read reference table: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	delim := opts.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(raw)
	}
	reader := NewTableReader(bytes.NewReader(raw), delim)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Source: opts.Source, Missing: RequiredColumns()}
	}
	if err != nil {
		return nil, fmt.Errorf("read reference table header: %w", err)
	}
	index, duplicates := HeaderIndex(header)

	var missing []Column
	for _, c := range RequiredColumns() {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: opts.Source, Missing: missing}
	}

	cat := &Catalog{source: opts.Source, byID: map[string]int{}}
	for _, h := range duplicates {
		cat.warnings = append(cat.warnings, Warning{Line: 1, Column: h, Message: "duplicate column ignored"})
	}

	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				cat.warnings = append(cat.warnings, Warning{Line: perr.Line, Message: "malformed row dropped: " + perr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("read reference table row %d: %w", row, err)
		}
		line, _ := reader.FieldPos(0)
		if entry, ok := normalizeRow(record, index, row, line, cat); ok {
			cat.add(entry)
		}
	}

	for _, w := range cat.warnings {
		log.Debug("reference table cell coerced",
			zap.String("source", opts.Source),
			zap.Int("line", w.Line),
			zap.String("column", w.Column),
			zap.String("value", w.Value),
			zap.String("reason", w.Message))
	}
	if len(cat.warnings) > 0 {
		log.Warn("reference table loaded with warnings",
			zap.String("source", opts.Source),
			zap.Int("entries", len(cat.entries)),
			zap.Int("warnings", len(cat.warnings)))
	}
	return cat, nil
}

func normalizeRow(record []string, index map[Column]int, row, line int, cat *Catalog) (model.CatalogEntry, bool) {
	name := strings.TrimSpace(cell(record, index, ColumnDescription))
	if name == "" {
		cat.warnings = append(cat.warnings, Warning{Line: line, Column: string(ColumnDescription), Message: "empty description, row dropped"})
		return model.CatalogEntry{}, false
	}

	entry := model.CatalogEntry{
		RawName:        name,
		NormalizedName: textnorm.Fold(name),
		Nutrients:      model.Nutrients{},
	}
	for _, n := range model.AllNutrients {
		col := NutrientColumn(n)
		if _, ok := index[col]; !ok {
			continue
		}
		value := cell(record, index, col)
		v, err := ParseAmount(value)
		if err != nil {
			cat.warnings = append(cat.warnings, Warning{Line: line, Column: string(col), Value: value, Message: err.Error() + ", using 0"})
		}
		entry.Nutrients[n] = v
	}

	if _, ok := index[ColumnPortion]; ok {
		value := cell(record, index, ColumnPortion)
		if strings.TrimSpace(value) != "" {
			v, err := ParseAmount(value)
			switch {
			case err != nil:
				cat.warnings = append(cat.warnings, Warning{Line: line, Column: string(ColumnPortion), Value: value, Message: err.Error() + ", portion ignored"})
			case v == 0:
				cat.warnings = append(cat.warnings, Warning{Line: line, Column: string(ColumnPortion), Value: value, Message: "portion must be > 0, portion ignored"})
			default:
				entry.PortionGrams = &v
			}
		}
	}

	entry.ID = rowID(row)
	if _, ok := index[ColumnID]; ok {
		if id := strings.TrimSpace(cell(record, index, ColumnID)); id != "" {
			if _, dup := cat.byID[id]; dup {
				cat.warnings = append(cat.warnings, Warning{Line: line, Column: string(ColumnID), Value: id, Message: "duplicate id, using row position"})
			} else {
				entry.ID = id
			}
		}
	}
	if _, dup := cat.byID[entry.ID]; dup {
		entry.ID = fmt.Sprintf("%s-%d", entry.ID, line)
	}
	return entry, true
}

func cell(record []string, index map[Column]int, c Column) string {
	i, ok := index[c]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// ParseAmount parses a non-negative number, accepting either "," or "." as
// the decimal separator ("2,6", "1.234,5", "1,234.5"). Failures return 0
// together with the reason.
func ParseAmount(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if s == "" {
		return 0, errEmptyCell
	}
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotNumber
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}

// NewTableReader returns a csv.Reader configured for the loose tables this
// package accepts: ragged rows and stray quotes are tolerated.
func NewTableReader(r io.Reader, delim rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader
}

// DetectDelimiter picks the most frequent of ';', ',' and tab on the first
// line, ignoring quoted text. Ties favor ';', the delimiter of the Brazilian
// reference tables.
func DetectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	counts := map[rune]int{}
	quoted := false
	for _, r := range string(line) {
		switch {
		case r == '"':
			quoted = !quoted
		case !quoted && (r == ';' || r == ',' || r == '\t'):
			counts[r]++
		}
	}
	best, bestCount := ',', 0
	for _, r := range []rune{';', ',', '\t'} {
		if counts[r] > bestCount {
			best, bestCount = r, counts[r]
		}
	}
	return best
}
