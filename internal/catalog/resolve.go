package catalog

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/textnorm"
)

const (
	DefaultMaxResults     = 10
	MaxResultsCap         = 50
	DefaultFuzzyThreshold = 0.4
)

type Tier string

const (
	TierExact     Tier = "exact"
	TierSubstring Tier = "substring"
	TierFuzzy     Tier = "fuzzy"
)

type Match struct {
	Entry model.CatalogEntry `json:"entry"`
	Tier  Tier               `json:"tier"`
	// Score is 1 for exact and substring matches and the similarity for
	// fuzzy ones.
	Score float64 `json:"score"`
}

type Resolver struct {
	Catalog *Catalog
	// FuzzyThreshold is the similarity a fuzzy match must exceed, on a 0-1
	// scale. Zero accepts any similarity above zero; a negative value means
	// DefaultFuzzyThreshold.
	FuzzyThreshold float64
}

func NewResolver(cat *Catalog, fuzzyThreshold float64) *Resolver {
	return &Resolver{Catalog: cat, FuzzyThreshold: fuzzyThreshold}
}

// Resolve returns the entries matching query, best first. Only the first
// non-empty tier of exact, substring and fuzzy matching is returned. Exact and
// substring matches keep catalog order; fuzzy matches are sorted by
// descending similarity with catalog order breaking ties.
func Resolve(query string, cat *Catalog, maxResults int) []model.CatalogEntry {
	matches := NewResolver(cat, DefaultFuzzyThreshold).Resolve(query, maxResults)
	out := make([]model.CatalogEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Entry)
	}
	return out
}

func (r *Resolver) Resolve(query string, maxResults int) []Match {
	q := textnorm.Fold(query)
	if q == "" || r.Catalog == nil {
		return nil
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxResultsCap {
		maxResults = MaxResultsCap
	}

	entries := r.Catalog.entries
	if out := r.collect(entries, maxResults, TierExact, func(name string) bool { return name == q }); len(out) > 0 {
		return out
	}
	if out := r.collect(entries, maxResults, TierSubstring, func(name string) bool { return strings.Contains(name, q) }); len(out) > 0 {
		return out
	}
	return r.fuzzy(entries, q, maxResults)
}

func (r *Resolver) collect(entries []model.CatalogEntry, limit int, tier Tier, match func(string) bool) []Match {
	var out []Match
	for _, e := range entries {
		if !match(e.NormalizedName) {
			continue
		}
		out = append(out, Match{Entry: cloneEntry(e), Tier: tier, Score: 1})
		if len(out) == limit {
			break
		}
	}
	return out
}

func (r *Resolver) fuzzy(entries []model.CatalogEntry, q string, limit int) []Match {
	threshold := r.FuzzyThreshold
	if threshold < 0 {
		threshold = DefaultFuzzyThreshold
	}
	type scored struct {
		pos   int
		score float64
	}
	qSorted := tokenSort(q)
	var hits []scored
	for i, e := range entries {
		score := similarityWithSorted(q, qSorted, e.NormalizedName)
		if score > threshold {
			hits = append(hits, scored{pos: i, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Match, 0, len(hits))
	for _, h := range hits {
		out = append(out, Match{Entry: cloneEntry(entries[h.pos]), Tier: TierFuzzy, Score: h.score})
	}
	return out
}

// Similarity scores two folded strings on a 0-1 scale. It is the better of
// the plain Levenshtein ratio and the ratio after sorting the words, so
// "integral arroz" and "arroz integral" score 1. Similarity(a, b) ==
// Similarity(b, a).
func Similarity(a, b string) float64 {
	return similarityWithSorted(a, tokenSort(a), b)
}

func similarityWithSorted(a, aSorted, b string) float64 {
	plain := ratio(a, b)
	if plain == 1 {
		return plain
	}
	if sorted := ratio(aSorted, tokenSort(b)); sorted > plain {
		return sorted
	}
	return plain
}

func ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func tokenSort(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}
