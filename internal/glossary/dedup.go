package glossary

import "github.com/bobmcallan/glossa/internal/models"

// Deduplicate returns terms with one entry per case-insensitive name. The
// first occurrence wins and survivors keep their relative order. The input
// slice is not modified.
func Deduplicate(terms []models.GlossaryTerm) []models.GlossaryTerm {
	seen := make(map[string]struct{}, len(terms))
	out := make([]models.GlossaryTerm, 0, len(terms))
	for _, t := range terms {
		key := foldKey(t.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
