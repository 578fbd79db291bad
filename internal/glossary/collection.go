// Package glossary implements term lookup over an immutable, deduplicated
// glossary: fuzzy matching, the category/letter/query filter pipeline,
// debounced query control and slug navigation.
package glossary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/glossa/internal/models"
)

// Collection is a loaded, deduplicated working set of terms. It is never
// mutated after construction; a reload builds a new Collection.
type Collection struct {
	terms      []models.GlossaryTerm
	categories []models.FacetCount
	letters    []models.FacetCount
	source     string
	loadedAt   time.Time
	duplicates int
}

// NewCollection validates raw source records, drops case-insensitive
// duplicates (first wins) and indexes categories and letters. A record
// with an empty name makes the whole payload malformed.
func NewCollection(source string, raw []models.GlossaryTerm) (*Collection, error) {
	for i, t := range raw {
		if strings.TrimSpace(t.Name) == "" {
			return nil, &LoadError{
				Source: source,
				Err:    fmt.Errorf("record %d (id %q) has an empty name", i, t.ID),
			}
		}
	}

	terms := Deduplicate(raw)

	c := &Collection{
		terms:      terms,
		source:     source,
		loadedAt:   time.Now(),
		duplicates: len(raw) - len(terms),
	}
	c.categories = countFacet(terms, func(t models.GlossaryTerm) string { return t.Category })
	c.letters = countFacet(terms, func(t models.GlossaryTerm) string { return t.Letter() })
	return c, nil
}

func countFacet(terms []models.GlossaryTerm, value func(models.GlossaryTerm) string) []models.FacetCount {
	counts := make(map[string]int)
	for _, t := range terms {
		if v := value(t); v != "" {
			counts[v]++
		}
	}
	out := make([]models.FacetCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, models.FacetCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// Terms returns the working set in source order. Callers must not modify
// the returned slice.
func (c *Collection) Terms() []models.GlossaryTerm {
	return c.terms
}

// Len returns the number of terms.
func (c *Collection) Len() int {
	return len(c.terms)
}

// Categories returns the distinct categories, sorted, with term counts.
func (c *Collection) Categories() []models.FacetCount {
	return c.categories
}

// Letters returns the distinct initial letters, sorted, with term counts.
func (c *Collection) Letters() []models.FacetCount {
	return c.letters
}

// Source names the TermSource the collection was loaded from.
func (c *Collection) Source() string {
	return c.source
}

// LoadedAt is when the collection was built.
func (c *Collection) LoadedAt() time.Time {
	return c.loadedAt
}

// Duplicates is the number of source records dropped by deduplication.
func (c *Collection) Duplicates() int {
	return c.duplicates
}
