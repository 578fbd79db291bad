package glossary

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/glossa/internal/common"
	core "github.com/bobmcallan/glossa/internal/glossary"
	"github.com/bobmcallan/glossa/internal/metrics"
	"github.com/bobmcallan/glossa/internal/models"
)

// stubSource serves a fixed term list, or an error, and counts fetches.
type stubSource struct {
	mu      sync.Mutex
	terms   []models.GlossaryTerm
	err     error
	fetches atomic.Int32
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) ([]models.GlossaryTerm, error) {
	s.fetches.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.GlossaryTerm(nil), s.terms...), nil
}

func (s *stubSource) set(terms []models.GlossaryTerm, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms, s.err = terms, err
}

func fixtureTerms() []models.GlossaryTerm {
	return []models.GlossaryTerm{
		{ID: "1", Name: "DeFi", Definition: "Decentralized finance", Category: "Finance", Related: []string{"DEX", "Liquidity Pool"}},
		{ID: "2", Name: "defi", Definition: "dup"},
		{ID: "3", Name: "DAO", Definition: "Decentralized autonomous organisation", Category: "Governance"},
		{ID: "4", Name: "Derivatives", Definition: "Contracts on an underlying asset", Category: "Finance"},
		{ID: "5", Name: "Liquidity Pool", Definition: "Tokens locked for trading", Category: "Finance"},
		{ID: "6", Name: "Blockchain", Definition: "A distributed ledger", Category: "Technology"},
	}
}

func newTestService(src *stubSource, opts ...Option) *Service {
	return NewService(src, core.NewMatcher(core.DefaultMatcherOptions()), common.NewSilentLogger(), opts...)
}

func TestService_LoadOnceAndDeduplicates(t *testing.T) {
	src := &stubSource{terms: fixtureTerms()}
	svc := newTestService(src)
	ctx := context.Background()

	col, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, col.Len())
	assert.Equal(t, "Decentralized finance", col.Terms()[0].Definition)

	again, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, col, again)
	assert.Equal(t, int32(1), src.fetches.Load())
}

func TestService_ConcurrentLoadFetchesOnce(t *testing.T) {
	src := &stubSource{terms: fixtureTerms()}
	svc := newTestService(src)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Load(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.fetches.Load())
}

func TestService_LoadErrorIsTyped(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	rec := metrics.NewRecorder()
	svc := newTestService(src, WithMetrics(rec))

	_, err := svc.Load(context.Background())

	require.Error(t, err)
	var le *core.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "stub", le.Source)

	_, err = svc.Directory(context.Background(), models.Facets{}, 0, 0)
	assert.True(t, core.IsLoadError(err))
}

func TestService_ReloadSwapsAndKeepsOldOnFailure(t *testing.T) {
	src := &stubSource{terms: fixtureTerms()}
	svc := newTestService(src)
	ctx := context.Background()

	first, err := svc.Load(ctx)
	require.NoError(t, err)

	src.set([]models.GlossaryTerm{{ID: "1", Name: "Gas"}}, nil)
	second, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Len())
	assert.Equal(t, 5, first.Len(), "old collection is immutable")

	src.set(nil, errors.New("gone"))
	_, err = svc.Reload(ctx)
	require.Error(t, err)

	current, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, second, current)
}

func TestService_ReloadRejectsEmptyName(t *testing.T) {
	src := &stubSource{terms: []models.GlossaryTerm{{ID: "1", Name: ""}}}
	svc := newTestService(src)

	_, err := svc.Load(context.Background())
	assert.True(t, core.IsLoadError(err))
}

func TestService_Directory(t *testing.T) {
	svc := newTestService(&stubSource{terms: fixtureTerms()})
	ctx := context.Background()

	page, err := svc.Directory(ctx, models.Facets{Category: "Finance", Letter: "D"}, 0, 0)
	require.NoError(t, err)
	assert.False(t, page.Searched)
	assert.Equal(t, 2, page.Total)
	require.Equal(t, 2, page.Count)
	assert.Equal(t, "DeFi", page.Terms[0].Name)
	assert.Equal(t, "Derivatives", page.Terms[1].Name)

	page, err = svc.Directory(ctx, models.Facets{Query: "blokchain"}, 0, 0)
	require.NoError(t, err)
	assert.True(t, page.Searched)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, "Blockchain", page.Terms[0].Name)

	page, err = svc.Directory(ctx, models.Facets{Query: "zzzzqqq"}, 0, 0)
	require.NoError(t, err)
	assert.True(t, page.Searched)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Terms)
}

func TestService_DirectoryPaging(t *testing.T) {
	svc := newTestService(&stubSource{terms: fixtureTerms()})
	ctx := context.Background()

	page, err := svc.Directory(ctx, models.Facets{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.Offset)
	require.Equal(t, 2, page.Count)
	assert.Equal(t, "DAO", page.Terms[0].Name)

	page, err = svc.Directory(ctx, models.Facets{}, 99, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Offset)
	assert.Zero(t, page.Count)
}

func TestService_DirectoryInvalidLetter(t *testing.T) {
	svc := newTestService(&stubSource{terms: fixtureTerms()})

	_, err := svc.Directory(context.Background(), models.Facets{Letter: "AB"}, 0, 0)
	assert.ErrorIs(t, err, core.ErrInvalidFacet)
}

func TestService_DirectoryDigitLetter(t *testing.T) {
	terms := append(fixtureTerms(), models.GlossaryTerm{ID: "7", Name: "51% Attack", Definition: "Majority hash power", Category: "Security"})
	svc := newTestService(&stubSource{terms: terms})
	ctx := context.Background()

	letters, err := svc.Letters(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.FacetCount{Value: "5", Count: 1}, letters[0])

	page, err := svc.Directory(ctx, models.Facets{Letter: letters[0].Value}, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Terms, 1)
	assert.Equal(t, "51% Attack", page.Terms[0].Name)
}

func TestService_DirectorySanitizesQuery(t *testing.T) {
	svc := newTestService(&stubSource{terms: fixtureTerms()})

	page, err := svc.Directory(context.Background(), models.Facets{Query: "<script>dao</script>"}, 0, 0)
	require.NoError(t, err)
	assert.NotContains(t, page.Facets.Query, "<")
}

func TestService_Term(t *testing.T) {
	svc := newTestService(&stubSource{terms: fixtureTerms()})
	ctx := context.Background()

	d, err := svc.Term(ctx, "defi")
	require.NoError(t, err)
	assert.Equal(t, models.TermID("1"), d.ID)
	require.Len(t, d.Related, 2)
	assert.False(t, d.Related[0].Exists)
	assert.True(t, d.Related[1].Exists)
	assert.Equal(t, "Liquidity%20Pool", d.Related[1].Slug)

	_, err = svc.Term(ctx, "Smart%20Contract")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_SuggestAndFacets(t *testing.T) {
	svc := newTestService(&stubSource{terms: fixtureTerms()}, WithSuggestLimit(1))
	ctx := context.Background()

	got, err := svc.Suggest(ctx, "d", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.FacetCount{
		{Value: "Finance", Count: 3},
		{Value: "Governance", Count: 1},
		{Value: "Technology", Count: 1},
	}, cats)

	letters, err := svc.Letters(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", letters[0].Value)
}

func TestService_ViewKeepsCollectionAcrossReload(t *testing.T) {
	src := &stubSource{terms: fixtureTerms()}
	svc := newTestService(src)
	ctx := context.Background()

	v := svc.NewView()
	defer v.Close()
	require.NoError(t, v.Mount(ctx))
	assert.Equal(t, 5, v.State().Total)

	src.set([]models.GlossaryTerm{{ID: "1", Name: "Gas"}}, nil)
	_, err := svc.Reload(ctx)
	require.NoError(t, err)

	require.NoError(t, v.Clear())
	assert.Equal(t, 5, v.State().Total)
}
