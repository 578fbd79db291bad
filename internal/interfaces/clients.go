package interfaces

import (
	"context"

	"github.com/bobmcallan/glossa/internal/models"
)

// VideoClient searches the community's video channel
type VideoClient interface {
	// SearchVideos returns channel videos relevant to query
	SearchVideos(ctx context.Context, query string) (*models.VideoSearchResult, error)

	// Configured reports whether the client has credentials
	Configured() bool
}
