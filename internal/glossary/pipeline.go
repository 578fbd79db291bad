package glossary

import (
	"strings"

	"github.com/bobmcallan/glossa/internal/models"
)

// Result is the output of one filter pass.
type Result struct {
	Facets   models.Facets
	Matches  []Match
	Searched bool // a non-empty query was applied
}

// Terms returns the matched terms in result order.
func (r Result) Terms() []models.GlossaryTerm {
	out := make([]models.GlossaryTerm, len(r.Matches))
	for i, m := range r.Matches {
		out[i] = m.Term
	}
	return out
}

// Len returns the number of matches.
func (r Result) Len() int {
	return len(r.Matches)
}

// Pipeline narrows a term set by category, then letter, then fuzzy query.
type Pipeline struct {
	matcher *Matcher
}

// NewPipeline creates a Pipeline using m for the query pass. A nil matcher
// uses DefaultMatcherOptions.
func NewPipeline(m *Matcher) *Pipeline {
	if m == nil {
		m = NewMatcher(DefaultMatcherOptions())
	}
	return &Pipeline{matcher: m}
}

// Matcher returns the matcher used for the query pass.
func (p *Pipeline) Matcher() *Matcher {
	return p.matcher
}

// Apply filters terms by the set facets. Unset facets pass everything
// through. Without a query the result keeps collection order; with one it
// is ranked by the matcher.
func (p *Pipeline) Apply(terms []models.GlossaryTerm, f models.Facets) Result {
	narrowed := make([]models.GlossaryTerm, 0, len(terms))
	for _, t := range terms {
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Letter != "" && !strings.EqualFold(t.Letter(), f.Letter) {
			continue
		}
		narrowed = append(narrowed, t)
	}

	searched := strings.TrimSpace(f.Query) != ""
	var matches []Match
	if searched {
		matches = p.matcher.Rank(f.Query, narrowed)
	} else {
		matches = make([]Match, len(narrowed))
		for i, t := range narrowed {
			matches[i] = Match{Term: t, Index: i}
		}
	}
	return Result{Facets: f, Matches: matches, Searched: searched}
}
