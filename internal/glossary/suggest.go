package glossary

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/bobmcallan/glossa/internal/models"
)

// DefaultSuggestLimit caps search-bar suggestions.
const DefaultSuggestLimit = 8

// termNames adapts a term slice to fuzzy.Source.
type termNames []models.GlossaryTerm

func (t termNames) String(i int) string { return t[i].Name }
func (t termNames) Len() int            { return len(t) }

// Suggest returns up to limit quick matches on term names for an
// as-you-type search bar. Characters of prefix must appear in order in the
// name; better matches come first. An empty prefix yields no suggestions.
func Suggest(prefix string, terms []models.GlossaryTerm, limit int) []models.Suggestion {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []models.Suggestion{}
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	matches := fuzzy.FindFrom(prefix, termNames(terms))
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]models.Suggestion, len(matches))
	for i, m := range matches {
		t := terms[m.Index]
		out[i] = models.Suggestion{
			Name:     t.Name,
			Slug:     Slug(t.Name),
			Category: t.Category,
			Matched:  m.MatchedIndexes,
		}
	}
	return out
}
