package glossary

import (
	"math"
	"sort"
	"strings"

	"github.com/bobmcallan/glossa/internal/models"
)

// MatcherOptions tune approximate matching. A field matches when its score
// is at most Threshold; 0 demands an exact substring at Location, 1
// accepts anything.
type MatcherOptions struct {
	Threshold      float64
	Location       int
	Distance       int
	IgnoreLocation bool
}

// DefaultMatcherOptions tolerate roughly one typo in a short word.
func DefaultMatcherOptions() MatcherOptions {
	return MatcherOptions{
		Threshold: 0.3,
		Location:  0,
		Distance:  100,
	}
}

// Field identifies which term field produced a match.
type Field string

const (
	FieldName       Field = "name"
	FieldDefinition Field = "definition"
)

// Match is a scored term. Score is 0 for a perfect match and grows towards
// 1 as errors and distance from the expected location increase.
type Match struct {
	Term  models.GlossaryTerm
	Score float64
	Field Field
	Index int // position in the searched slice
}

// Matcher scores queries against term names and definitions.
type Matcher struct {
	opts MatcherOptions
}

// NewMatcher creates a Matcher. A negative threshold or distance falls back
// to the default.
func NewMatcher(opts MatcherOptions) *Matcher {
	def := DefaultMatcherOptions()
	if opts.Threshold < 0 {
		opts.Threshold = def.Threshold
	}
	if opts.Distance < 0 {
		opts.Distance = def.Distance
	}
	if opts.Location < 0 {
		opts.Location = 0
	}
	return &Matcher{opts: opts}
}

// Options returns the matcher configuration.
func (m *Matcher) Options() MatcherOptions {
	return m.opts
}

// Search returns the terms matching query, best first. An empty or
// whitespace-only query returns terms unchanged. No match yields an empty,
// non-nil slice.
func (m *Matcher) Search(query string, terms []models.GlossaryTerm) []models.GlossaryTerm {
	if strings.TrimSpace(query) == "" {
		return terms
	}
	matches := m.Rank(query, terms)
	out := make([]models.GlossaryTerm, len(matches))
	for i, mt := range matches {
		out[i] = mt.Term
	}
	return out
}

// Rank is Search with scores. An empty query ranks every term at score 0
// in input order.
func (m *Matcher) Rank(query string, terms []models.GlossaryTerm) []Match {
	pattern := []rune(Normalize(query))
	if len(pattern) == 0 {
		out := make([]Match, len(terms))
		for i, t := range terms {
			out[i] = Match{Term: t, Index: i}
		}
		return out
	}

	out := make([]Match, 0)
	for i, t := range terms {
		score, field, ok := m.scoreTerm(pattern, t)
		if !ok {
			continue
		}
		out = append(out, Match{Term: t, Score: score, Field: field, Index: i})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score < out[b].Score
	})
	return out
}

// Score returns the best field score of a single term, and whether it
// passes the threshold.
func (m *Matcher) Score(query string, term models.GlossaryTerm) (float64, bool) {
	pattern := []rune(Normalize(query))
	if len(pattern) == 0 {
		return 0, true
	}
	score, _, ok := m.scoreTerm(pattern, term)
	return score, ok
}

func (m *Matcher) scoreTerm(pattern []rune, t models.GlossaryTerm) (float64, Field, bool) {
	best := math.Inf(1)
	var field Field
	if s, ok := m.scoreField(pattern, t.Name); ok {
		best, field = s, FieldName
	}
	if s, ok := m.scoreField(pattern, t.Definition); ok && s < best {
		best, field = s, FieldDefinition
	}
	if field == "" {
		return 0, "", false
	}
	return best, field, true
}

func (m *Matcher) scoreField(pattern []rune, value string) (float64, bool) {
	text := []rune(Normalize(value))
	if len(text) == 0 {
		return 0, false
	}
	score := m.bestAlignment(pattern, text)
	return score, score <= m.opts.Threshold
}

// bestAlignment runs Sellers' approximate substring search: an edit
// distance table where the pattern may begin at any text offset for free.
// Each cell carries the text offset its alignment started at so the
// location penalty can be applied to the best end position.
func (m *Matcher) bestAlignment(pattern, text []rune) float64 {
	n := len(text)
	prev := make([]int, n+1)
	prevStart := make([]int, n+1)
	cur := make([]int, n+1)
	curStart := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = 0
		prevStart[j] = j
	}

	for i := 1; i <= len(pattern); i++ {
		cur[0] = i
		curStart[0] = 0
		for j := 1; j <= n; j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			d, s := prev[j-1]+cost, prevStart[j-1]
			if up := prev[j] + 1; up < d {
				d, s = up, prevStart[j]
			}
			if left := cur[j-1] + 1; left < d {
				d, s = left, curStart[j-1]
			}
			cur[j], curStart[j] = d, s
		}
		prev, cur = cur, prev
		prevStart, curStart = curStart, prevStart
	}

	best := math.Inf(1)
	for j := 0; j <= n; j++ {
		if s := m.score(prev[j], prevStart[j], len(pattern)); s < best {
			best = s
		}
	}
	return best
}

func (m *Matcher) score(errors, start, patternLen int) float64 {
	accuracy := float64(errors) / float64(patternLen)
	if m.opts.IgnoreLocation {
		return accuracy
	}
	proximity := start - m.opts.Location
	if proximity < 0 {
		proximity = -proximity
	}
	if m.opts.Distance == 0 {
		if proximity == 0 {
			return accuracy
		}
		return 1
	}
	return accuracy + float64(proximity)/float64(m.opts.Distance)
}
