package glossary

import (
	"strings"

	"github.com/bobmcallan/glossa/internal/models"
)

// PreviewWords is how many words of a definition a directory entry shows
// before "Read More".
const PreviewWords = 18

// Preview returns the first PreviewWords words of definition followed by
// "...", and whether the definition was shown in full.
func Preview(definition string) (string, bool) {
	words := strings.Fields(definition)
	if len(words) <= PreviewWords {
		return strings.Join(words, " "), true
	}
	return strings.Join(words[:PreviewWords], " ") + "...", false
}

// Summarize converts matches to directory entries. Scores are included
// only when a query ranked them.
func Summarize(matches []Match, searched bool) []models.TermSummary {
	out := make([]models.TermSummary, len(matches))
	for i, m := range matches {
		preview, full := Preview(m.Term.Definition)
		out[i] = models.TermSummary{
			ID:       m.Term.ID,
			Name:     m.Term.Name,
			Slug:     Slug(m.Term.Name),
			Category: m.Term.Category,
			Preview:  preview,
			Expanded: full,
		}
		if searched {
			out[i].Score = m.Score
		}
	}
	return out
}
