// Package glossary provides the term lookup service over a swappable,
// immutable collection.
package glossary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/glossa/internal/common"
	core "github.com/bobmcallan/glossa/internal/glossary"
	"github.com/bobmcallan/glossa/internal/interfaces"
	"github.com/bobmcallan/glossa/internal/metrics"
	"github.com/bobmcallan/glossa/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Service implements GlossaryService
type Service struct {
	source   interfaces.TermSource
	pipeline *core.Pipeline
	logger   *common.Logger
	metrics  *metrics.Recorder

	quiet        time.Duration
	suggestLimit int
	pageSize     int

	loadMu  sync.Mutex
	mu      sync.RWMutex
	current *core.Collection
}

// Option configures the service
type Option func(*Service)

// WithMetrics records loads and searches on m
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithQuietPeriod sets the live-search debounce for views
func WithQuietPeriod(d time.Duration) Option {
	return func(s *Service) {
		s.quiet = d
	}
}

// WithSuggestLimit sets the default number of suggestions
func WithSuggestLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.suggestLimit = n
		}
	}
}

// WithPageSize sets the default directory page size
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// NewService creates a new glossary service. Nothing is fetched until the
// first Load.
func NewService(source interfaces.TermSource, matcher *core.Matcher, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		source:       source,
		pipeline:     core.NewPipeline(matcher),
		logger:       logger,
		quiet:        core.DefaultQuietPeriod,
		suggestLimit: core.DefaultSuggestLimit,
		pageSize:     DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the active collection, fetching it on first use.
func (s *Service) Load(ctx context.Context) (*core.Collection, error) {
	s.mu.RLock()
	col := s.current
	s.mu.RUnlock()
	if col != nil {
		return col, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	// Another caller may have loaded while we waited.
	s.mu.RLock()
	col = s.current
	s.mu.RUnlock()
	if col != nil {
		return col, nil
	}
	return s.fetchLocked(ctx)
}

// Reload fetches a fresh collection and swaps it in. On failure the
// previous collection stays active.
func (s *Service) Reload(ctx context.Context) (*core.Collection, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.fetchLocked(ctx)
}

func (s *Service) fetchLocked(ctx context.Context) (*core.Collection, error) {
	name := s.source.Name()
	start := time.Now()

	raw, err := s.source.Fetch(ctx)
	if err != nil {
		err = &core.LoadError{Source: name, Err: err}
		s.metrics.ObserveLoad(name, 0, 0, err)
		s.logger.Error().Err(err).Str("source", name).Msg("Glossary load failed")
		return nil, err
	}

	col, err := core.NewCollection(name, raw)
	if err != nil {
		s.metrics.ObserveLoad(name, 0, 0, err)
		s.logger.Error().Err(err).Str("source", name).Msg("Glossary payload rejected")
		return nil, err
	}

	s.mu.Lock()
	s.current = col
	s.mu.Unlock()

	s.metrics.ObserveLoad(name, col.Len(), col.Duplicates(), nil)
	s.logger.Info().
		Str("source", name).
		Int("terms", col.Len()).
		Int("duplicates", col.Duplicates()).
		Int("categories", len(col.Categories())).
		Dur("elapsed", time.Since(start)).
		Msg("Glossary loaded")
	return col, nil
}

// Directory returns one page of terms matching facets. Query text is
// sanitised before matching.
func (s *Service) Directory(ctx context.Context, facets models.Facets, offset, limit int) (*models.DirectoryPage, error) {
	if err := facets.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidFacet, err)
	}
	facets.Query = common.SanitizeInput(facets.Query)

	col, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	res := s.pipeline.Apply(col.Terms(), facets)
	s.metrics.ObserveSearch("directory", res.Searched, res.Len())

	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	matches := res.Matches
	if offset > len(matches) {
		offset = len(matches)
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	terms := core.Summarize(matches[offset:end], res.Searched)

	return &models.DirectoryPage{
		Facets:   facets,
		Searched: res.Searched,
		Total:    len(matches),
		Offset:   offset,
		Count:    len(terms),
		Terms:    terms,
	}, nil
}

// Term resolves a slug to the term's detail view.
func (s *Service) Term(ctx context.Context, slug string) (*models.TermDetail, error) {
	col, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	t, err := core.Resolve(slug, col.Terms())
	if err != nil {
		return nil, err
	}
	d := core.Detail(t, col.Terms())
	return &d, nil
}

// Suggest returns up to limit quick name matches; limit <= 0 uses the
// configured default.
func (s *Service) Suggest(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error) {
	col, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.suggestLimit
	}
	out := core.Suggest(common.SanitizeInput(prefix), col.Terms(), limit)
	s.metrics.ObserveSearch("suggest", prefix != "", len(out))
	return out, nil
}

func (s *Service) Categories(ctx context.Context) ([]models.FacetCount, error) {
	col, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return col.Categories(), nil
}

func (s *Service) Letters(ctx context.Context) ([]models.FacetCount, error) {
	col, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return col.Letters(), nil
}

// NewView creates a live search session. The view takes whichever
// collection is active when it mounts and keeps it until it closes.
func (s *Service) NewView() *core.View {
	return core.NewView(s.Load, s.pipeline, core.WithQuietPeriod(s.quiet))
}

// SourceName identifies the configured term source.
func (s *Service) SourceName() string {
	return s.source.Name()
}

// Ensure Service implements GlossaryService
var _ interfaces.GlossaryService = (*Service)(nil)
