package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TermID is a glossary term identifier. Source data may author ids as
// strings or integers; both decode into their string form.
type TermID string

// UnmarshalJSON accepts a JSON string or number.
func (id *TermID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = TermID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("term id must be a string or number: %s", string(data))
	}
	*id = TermID(n.String())
	return nil
}

// UnmarshalYAML accepts a YAML scalar of any kind.
func (id *TermID) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*id = ""
	case string:
		*id = TermID(t)
	case int:
		*id = TermID(strconv.Itoa(t))
	case float64:
		*id = TermID(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return fmt.Errorf("term id must be a string or number, got %T", v)
	}
	return nil
}

// GlossaryTerm is a single glossary entry.
type GlossaryTerm struct {
	ID         TermID   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Definition string   `json:"definition" yaml:"definition"`
	Category   string   `json:"category,omitempty" yaml:"category,omitempty"`
	Related    []string `json:"related,omitempty" yaml:"related,omitempty"`
}

// rawTerm mirrors the source record shape, which may carry the display
// name under "term" instead of "name".
type rawTerm struct {
	ID         TermID   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Term       string   `json:"term" yaml:"term"`
	Definition string   `json:"definition" yaml:"definition"`
	Category   string   `json:"category" yaml:"category"`
	Related    []string `json:"related" yaml:"related"`
}

func (r rawTerm) toTerm() GlossaryTerm {
	name := r.Name
	if strings.TrimSpace(name) == "" {
		name = r.Term
	}
	return GlossaryTerm{
		ID:         r.ID,
		Name:       name,
		Definition: r.Definition,
		Category:   r.Category,
		Related:    r.Related,
	}
}

// UnmarshalJSON decodes a term, accepting "term" as an alias for "name".
func (t *GlossaryTerm) UnmarshalJSON(data []byte) error {
	var r rawTerm
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*t = r.toTerm()
	return nil
}

// UnmarshalYAML decodes a term, accepting "term" as an alias for "name".
func (t *GlossaryTerm) UnmarshalYAML(unmarshal func(any) error) error {
	var r rawTerm
	if err := unmarshal(&r); err != nil {
		return err
	}
	*t = r.toTerm()
	return nil
}

// Letter returns the upper-cased first rune of the name, or "" for an empty name.
func (t GlossaryTerm) Letter() string {
	name := strings.TrimSpace(t.Name)
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Facets are the three independent filter dimensions of a directory query.
// The zero value selects everything.
type Facets struct {
	Category string `json:"category,omitempty"`
	Letter   string `json:"letter,omitempty"`
	Query    string `json:"query,omitempty"`
}

// IsZero reports whether no facet is set.
func (f Facets) IsZero() bool {
	return f.Category == "" && f.Letter == "" && strings.TrimSpace(f.Query) == ""
}

// Validate checks that Letter, when set, is a single non-space character.
// Any rune that can start a name is accepted, so every value listed by the
// letters index is also a valid filter.
func (f Facets) Validate() error {
	if f.Letter == "" {
		return nil
	}
	if utf8.RuneCountInString(f.Letter) != 1 {
		return fmt.Errorf("letter must be a single character, got %q", f.Letter)
	}
	r, _ := utf8.DecodeRuneInString(f.Letter)
	if r == utf8.RuneError || unicode.IsSpace(r) {
		return fmt.Errorf("letter must not be blank, got %q", f.Letter)
	}
	return nil
}

// TermSummary is a directory listing entry.
type TermSummary struct {
	ID       TermID  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Category string  `json:"category,omitempty"`
	Preview  string  `json:"preview"`
	Expanded bool    `json:"expanded"` // false when Preview is a truncation of the definition
	Score    float64 `json:"score,omitempty"`
}

// RelatedRef is a cross-reference from a term detail. Exists is false for
// dangling references, which render as plain text.
type RelatedRef struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Exists bool   `json:"exists"`
}

// TermDetail is the single-term view.
type TermDetail struct {
	ID         TermID       `json:"id"`
	Name       string       `json:"name"`
	Slug       string       `json:"slug"`
	Definition string       `json:"definition"`
	Category   string       `json:"category,omitempty"`
	Related    []RelatedRef `json:"related"`
	Directory  string       `json:"directory"`
}

// DirectoryPage is one page of a filtered directory listing.
type DirectoryPage struct {
	Facets   Facets        `json:"facets"`
	Searched bool          `json:"searched"` // a non-empty query was applied
	Total    int           `json:"total"`    // matches before paging
	Offset   int           `json:"offset"`
	Count    int           `json:"count"`
	Terms    []TermSummary `json:"terms"`
}

// FacetCount is a category or letter with the number of terms carrying it.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Suggestion is a quick search-bar match.
type Suggestion struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Category string `json:"category,omitempty"`
	Matched  []int  `json:"matched,omitempty"` // indexes of matched characters in Name
}
