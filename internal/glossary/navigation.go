package glossary

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bobmcallan/glossa/internal/models"
)

// DirectoryPath is the route of the directory listing, the way back from a
// missing term.
const DirectoryPath = "/glossary"

// Slug encodes a term name as a single URL path segment.
func Slug(name string) string {
	return url.PathEscape(name)
}

// TermPath returns the detail route for a term name.
func TermPath(name string) string {
	return DirectoryPath + "/" + Slug(name)
}

// Resolve decodes slug and returns the first term whose name matches it
// case-insensitively, using the same key as Deduplicate. It returns an error wrapping ErrNotFound when the
// slug is malformed or matches nothing.
func Resolve(slug string, terms []models.GlossaryTerm) (models.GlossaryTerm, error) {
	name, err := url.PathUnescape(slug)
	if err != nil {
		return models.GlossaryTerm{}, fmt.Errorf("%w: malformed slug %q", ErrNotFound, slug)
	}
	key := foldKey(name)
	if key == "" {
		return models.GlossaryTerm{}, fmt.Errorf("%w: empty slug", ErrNotFound)
	}
	for _, t := range terms {
		if foldKey(t.Name) == key {
			return t, nil
		}
	}
	return models.GlossaryTerm{}, fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(name))
}

// ResolveRelated maps related names to references, flagging those that
// resolve to no term.
func ResolveRelated(related []string, terms []models.GlossaryTerm) []models.RelatedRef {
	out := make([]models.RelatedRef, 0, len(related))
	for _, name := range related {
		ref := models.RelatedRef{Name: name, Slug: Slug(name)}
		if t, err := Resolve(ref.Slug, terms); err == nil {
			ref.Exists = true
			ref.Slug = Slug(t.Name)
		}
		out = append(out, ref)
	}
	return out
}

// Detail builds the single-term view.
func Detail(t models.GlossaryTerm, terms []models.GlossaryTerm) models.TermDetail {
	return models.TermDetail{
		ID:         t.ID,
		Name:       t.Name,
		Slug:       Slug(t.Name),
		Definition: t.Definition,
		Category:   t.Category,
		Related:    ResolveRelated(t.Related, terms),
		Directory:  DirectoryPath,
	}
}
