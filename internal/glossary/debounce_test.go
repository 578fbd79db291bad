package glossary

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bobmcallan/glossa/internal/models"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock hands out timers that only fire when told to.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Fire runs every timer that is still armed.
func (c *fakeClock) Fire() int {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
	return len(due)
}

type recorder struct {
	mu      sync.Mutex
	results []Result
}

func (r *recorder) publish(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) all() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

func newTestController(clock *fakeClock, rec *recorder) *QueryController {
	return NewQueryController(sampleTerms(), NewPipeline(nil), rec.publish, WithAfterFunc(clock.AfterFunc))
}

func TestQueryController_BurstRunsOnePassWithLastValue(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	c := newTestController(clock, rec)
	defer c.Close()

	for _, q := range []string{"b", "bl", "blo", "blok", "blokchain"} {
		c.SetQuery(q)
	}
	assert.True(t, c.Pending())
	assert.Empty(t, rec.all())

	assert.Equal(t, 1, clock.Fire())

	results := rec.all()
	require.Len(t, results, 1)
	assert.Equal(t, "blokchain", results[0].Facets.Query)
	assert.True(t, results[0].Searched)
	assert.Equal(t, "Blockchain", results[0].Terms()[0].Name)
	assert.False(t, c.Pending())
}

func TestQueryController_UsesQuietPeriod(t *testing.T) {
	clock := &fakeClock{}
	c := NewQueryController(nil, nil, nil, WithAfterFunc(clock.AfterFunc), WithQuietPeriod(300*time.Millisecond))
	defer c.Close()

	c.SetQuery("gas")

	require.Len(t, clock.timers, 1)
	assert.Equal(t, 300*time.Millisecond, clock.timers[0].d)
}

func TestQueryController_StaleTimerNeverPublishes(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	c := newTestController(clock, rec)
	defer c.Close()

	c.SetQuery("dao")
	c.SetQuery("defi")
	clock.Fire()
	require.Len(t, rec.all(), 1)

	// A timer that fired despite being stopped must be ignored.
	clock.timers[0].f()

	results := rec.all()
	require.Len(t, results, 1)
	assert.Equal(t, "defi", results[0].Facets.Query)
}

func TestQueryController_FacetChangeSupersedesPendingQuery(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	c := newTestController(clock, rec)
	defer c.Close()

	c.SetQuery("token")
	c.SetCategory("Finance")

	results := rec.all()
	require.Len(t, results, 1)
	assert.Equal(t, models.Facets{Category: "Finance", Query: "token"}, results[0].Facets)
	assert.Equal(t, []string{"Token"}, names(results[0].Terms()))
	assert.False(t, c.Pending())

	assert.Zero(t, clock.Fire())
	assert.Len(t, rec.all(), 1)
}

func TestQueryController_LetterAndClear(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	c := newTestController(clock, rec)
	defer c.Close()

	require.NoError(t, c.SetLetter("d"))
	assert.Error(t, c.SetLetter("DE"))
	c.Clear()

	results := rec.all()
	require.Len(t, results, 2)
	assert.Equal(t, []string{"DeFi", "DAO", "Derivatives"}, names(results[0].Terms()))
	assert.Equal(t, len(sampleTerms()), results[1].Len())
	assert.Equal(t, models.Facets{}, c.Facets())
}

func TestQueryController_NoPublishAfterClose(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	c := newTestController(clock, rec)

	c.SetQuery("gas")
	c.Close()
	c.Close()

	assert.False(t, c.Pending())
	clock.Fire()
	c.SetQuery("more")
	c.SetCategory("Finance")
	assert.Empty(t, rec.all())
}

func TestQueryController_RealTimerNoLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	done := make(chan Result, 1)
	c := NewQueryController(sampleTerms(), nil, func(r Result) { done <- r }, WithQuietPeriod(10*time.Millisecond))

	c.SetQuery("con")
	c.SetQuery("consensus")

	select {
	case r := <-done:
		assert.Equal(t, "consensus", r.Facets.Query)
		assert.Equal(t, "Consensus", r.Terms()[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced pass never ran")
	}
	c.Close()
}
