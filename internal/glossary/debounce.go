package glossary

import (
	"sync"
	"time"

	"github.com/bobmcallan/glossa/internal/models"
)

// DefaultQuietPeriod is how long query input must pause before a pass runs.
const DefaultQuietPeriod = 250 * time.Millisecond

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ControllerOption configures a QueryController.
type ControllerOption func(*QueryController)

// WithQuietPeriod sets the debounce interval for query text.
func WithQuietPeriod(d time.Duration) ControllerOption {
	return func(c *QueryController) {
		if d > 0 {
			c.quiet = d
		}
	}
}

// WithAfterFunc replaces the timer source.
func WithAfterFunc(fn AfterFunc) ControllerOption {
	return func(c *QueryController) {
		if fn != nil {
			c.after = fn
		}
	}
}

// QueryController turns a stream of facet changes into filter passes.
// Query text is debounced; category, letter and clear apply at once. Every
// change bumps a generation and only the pass for the current generation
// publishes, so an older query can never overwrite a newer result. Passes
// are serialised.
type QueryController struct {
	terms    []models.GlossaryTerm
	pipeline *Pipeline
	publish  func(Result)
	quiet    time.Duration
	after    AfterFunc

	passMu sync.Mutex

	mu      sync.Mutex
	facets  models.Facets
	gen     uint64
	timer   Timer
	pending bool
	closed  bool
}

// NewQueryController creates a controller over a fixed term set. publish
// receives every result that is still current when its pass completes. It
// runs with passes serialised and must not call Close.
func NewQueryController(terms []models.GlossaryTerm, pipeline *Pipeline, publish func(Result), opts ...ControllerOption) *QueryController {
	if pipeline == nil {
		pipeline = NewPipeline(nil)
	}
	if publish == nil {
		publish = func(Result) {}
	}
	c := &QueryController{
		terms:    terms,
		pipeline: pipeline,
		publish:  publish,
		quiet:    DefaultQuietPeriod,
		after:    realAfterFunc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQuery records new query text and schedules a pass after the quiet
// period, replacing any pass still waiting.
func (c *QueryController) SetQuery(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.facets.Query = text
	gen := c.bumpLocked()
	c.pending = true
	c.timer = c.after(c.quiet, func() { c.run(gen) })
}

// SetCategory selects a category (empty clears it) and runs a pass now.
func (c *QueryController) SetCategory(category string) {
	c.applyNow(func(f *models.Facets) { f.Category = category })
}

// SetLetter selects an initial letter (empty clears it) and runs a pass
// now. An invalid letter leaves the facets unchanged.
func (c *QueryController) SetLetter(letter string) error {
	if err := (models.Facets{Letter: letter}).Validate(); err != nil {
		return err
	}
	c.applyNow(func(f *models.Facets) { f.Letter = letter })
	return nil
}

// Clear resets every facet and runs a pass now.
func (c *QueryController) Clear() {
	c.applyNow(func(f *models.Facets) { *f = models.Facets{} })
}

// Refresh runs a pass now with the current facets.
func (c *QueryController) Refresh() {
	c.applyNow(func(*models.Facets) {})
}

// Facets returns the latest facet values, including query text whose pass
// has not run yet.
func (c *QueryController) Facets() models.Facets {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facets
}

// Pending reports whether a pass is scheduled or running.
func (c *QueryController) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Close cancels any scheduled pass and waits for a running one to finish.
// Nothing is published after Close returns.
func (c *QueryController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.pending = false
	c.bumpLocked()
	c.mu.Unlock()

	// Wait out an in-flight pass.
	c.passMu.Lock()
	c.passMu.Unlock() //nolint:staticcheck
}

func (c *QueryController) applyNow(change func(*models.Facets)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	change(&c.facets)
	gen := c.bumpLocked()
	c.pending = true
	c.mu.Unlock()

	c.run(gen)
}

// bumpLocked starts a new generation and stops the waiting timer.
func (c *QueryController) bumpLocked() uint64 {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	return c.gen
}

func (c *QueryController) run(gen uint64) {
	c.passMu.Lock()
	defer c.passMu.Unlock()

	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	facets := c.facets
	c.mu.Unlock()

	res := c.pipeline.Apply(c.terms, facets)

	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.pending = false
	c.mu.Unlock()

	c.publish(res)
}
