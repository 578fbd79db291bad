package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/glossa/internal/common"
	"github.com/bobmcallan/glossa/internal/interfaces"
	"github.com/bobmcallan/glossa/internal/storage/embedded"
	"github.com/bobmcallan/glossa/internal/storage/surrealdb"
)

// Source type constants.
const (
	SourceEmbedded  = "embedded"
	SourceFile      = "file"
	SourceHTTP      = "http"
	SourceSurrealDB = "surrealdb"
)

// NewTermSource creates the term source named by glossary.source.
// Supported sources: "embedded" (default), "file", "http", "surrealdb".
// A SurrealDB source holds a connection; callers should close it through
// CloseSource.
func NewTermSource(ctx context.Context, logger *common.Logger, config *common.Config) (interfaces.TermSource, error) {
	source := config.Glossary.Source
	if source == "" {
		source = SourceEmbedded
	}

	switch source {
	case SourceEmbedded:
		return embedded.NewSource(), nil

	case SourceFile:
		if config.Glossary.Path == "" {
			return nil, fmt.Errorf("file source requires glossary.path")
		}
		return NewFileSource(logger, config.Glossary.Path), nil

	case SourceHTTP:
		if config.Glossary.URL == "" {
			return nil, fmt.Errorf("http source requires glossary.url")
		}
		return NewHTTPSource(config.Glossary.URL,
			WithHTTPLogger(logger),
			WithHTTPTimeout(config.Clients.HTTP.GetTimeout()),
			WithHTTPRateLimit(config.Clients.HTTP.RateLimit),
		), nil

	case SourceSurrealDB:
		return surrealdb.NewTermStore(ctx, logger, &config.Storage)

	default:
		return nil, fmt.Errorf("unknown glossary source: %s (supported: embedded, file, http, surrealdb)", source)
	}
}

// CloseSource releases resources held by sources that keep connections.
func CloseSource(source interfaces.TermSource) error {
	if store, ok := source.(interfaces.TermStore); ok {
		return store.Close()
	}
	return nil
}
