// Package interfaces defines service contracts for Glossa
package interfaces

import (
	"context"

	"github.com/bobmcallan/glossa/internal/models"
)

// TermSource supplies the raw glossary records. Records are returned as
// authored: duplicates and ordering are left to the caller.
type TermSource interface {
	// Name identifies the source in logs and load errors
	Name() string

	// Fetch reads the full collection
	Fetch(ctx context.Context) ([]models.GlossaryTerm, error)
}

// TermStore is a TermSource that can be written to.
type TermStore interface {
	TermSource

	// Seed replaces the stored collection with terms, keeping their order.
	// Returns the number of records written.
	Seed(ctx context.Context, terms []models.GlossaryTerm) (int, error)

	// Count returns the number of stored records
	Count(ctx context.Context) (int, error)

	Close() error
}
