package interfaces

import (
	"context"

	"github.com/bobmcallan/glossa/internal/glossary"
	"github.com/bobmcallan/glossa/internal/models"
)

// GlossaryService serves lookups over the currently loaded collection
type GlossaryService interface {
	// Load fetches the collection if none is loaded yet and returns it.
	// Failures are *glossary.LoadError.
	Load(ctx context.Context) (*glossary.Collection, error)

	// Reload fetches a fresh collection and swaps it in. The previous
	// collection stays active when the fetch fails.
	Reload(ctx context.Context) (*glossary.Collection, error)

	// Directory returns one page of the filtered listing
	Directory(ctx context.Context, facets models.Facets, offset, limit int) (*models.DirectoryPage, error)

	// Term resolves a slug to its detail view; glossary.ErrNotFound when missing
	Term(ctx context.Context, slug string) (*models.TermDetail, error)

	// Suggest returns quick name matches for a search bar
	Suggest(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error)

	// Categories and Letters list the facet values with counts
	Categories(ctx context.Context) ([]models.FacetCount, error)
	Letters(ctx context.Context) ([]models.FacetCount, error)

	// NewView creates a live search session bound to the collection loaded
	// at mount time
	NewView() *glossary.View
}
