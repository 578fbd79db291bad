package mcptools

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/glossa/internal/models"
)

func formatDirectoryPage(page *models.DirectoryPage) string {
	var sb strings.Builder

	sb.WriteString("# Glossary")
	if page.Facets.Query != "" {
		sb.WriteString(fmt.Sprintf(": \"%s\"", page.Facets.Query))
	}
	sb.WriteString("\n\n")

	var filters []string
	if page.Facets.Category != "" {
		filters = append(filters, "category "+page.Facets.Category)
	}
	if page.Facets.Letter != "" {
		filters = append(filters, "letter "+strings.ToUpper(page.Facets.Letter))
	}
	if len(filters) > 0 {
		sb.WriteString(fmt.Sprintf("Filtered by %s.\n\n", strings.Join(filters, ", ")))
	}

	if page.Total == 0 {
		if page.Searched {
			sb.WriteString("No terms match. Try fewer words or a different spelling.\n")
		} else {
			sb.WriteString("No terms in this selection.\n")
		}
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Showing %d of %d terms.\n\n", page.Count, page.Total))
	for _, t := range page.Terms {
		sb.WriteString(fmt.Sprintf("- **%s**", t.Name))
		if t.Category != "" {
			sb.WriteString(fmt.Sprintf(" _(%s)_", t.Category))
		}
		sb.WriteString(": " + t.Preview + "\n")
	}
	return sb.String()
}

func formatTermDetail(d *models.TermDetail) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", d.Name))
	if d.Category != "" {
		sb.WriteString(fmt.Sprintf("**Category:** %s\n\n", d.Category))
	}
	sb.WriteString(d.Definition + "\n")

	if len(d.Related) > 0 {
		sb.WriteString("\n## Related\n\n")
		for _, r := range d.Related {
			if r.Exists {
				sb.WriteString(fmt.Sprintf("- %s (`%s`)\n", r.Name, r.Slug))
			} else {
				sb.WriteString(fmt.Sprintf("- %s\n", r.Name))
			}
		}
	}
	return sb.String()
}

func formatFacets(categories, letters []models.FacetCount) string {
	var sb strings.Builder

	sb.WriteString("# Glossary Categories\n\n")
	sb.WriteString("| Category | Terms |\n")
	sb.WriteString("|----------|-------|\n")
	for _, c := range categories {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", c.Value, c.Count))
	}

	sb.WriteString("\n## Letters\n\n")
	parts := make([]string, 0, len(letters))
	for _, l := range letters {
		parts = append(parts, fmt.Sprintf("%s (%d)", l.Value, l.Count))
	}
	sb.WriteString(strings.Join(parts, " · ") + "\n")
	return sb.String()
}
