package glossary

import (
	"context"
	"errors"
	"sync"

	"github.com/bobmcallan/glossa/internal/models"
)

// ErrNotReady is returned by View input methods before a successful Mount.
var ErrNotReady = errors.New("glossary view is not ready")

// Status is the load state of a View.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
	StatusClosed  Status = "closed"
)

// ViewState is a snapshot of everything a client renders. Version grows
// with every published snapshot.
type ViewState struct {
	Version    uint64               `json:"version"`
	Status     Status               `json:"status"`
	Error      string               `json:"error,omitempty"`
	Facets     models.Facets        `json:"facets"`
	Searching  bool                 `json:"searching"`
	Searched   bool                 `json:"searched"`
	Total      int                  `json:"total"`
	Terms      []models.TermSummary `json:"terms"`
	Categories []models.FacetCount  `json:"categories,omitempty"`
	Letters    []models.FacetCount  `json:"letters,omitempty"`
}

// Loader fetches the collection a View works on.
type Loader func(ctx context.Context) (*Collection, error)

// View is one live search session: it loads a collection once, owns a
// QueryController over it and pushes state snapshots to subscribers. It
// holds its collection for its whole lifetime; reloads elsewhere do not
// affect it.
type View struct {
	load     Loader
	pipeline *Pipeline
	opts     []ControllerOption

	ctx    context.Context
	cancel context.CancelFunc

	notifyMu sync.Mutex

	mu       sync.Mutex
	state    ViewState
	ctrl     *QueryController
	subs     map[int]func(ViewState)
	nextSub  int
	cleanups []func()

	closeOnce sync.Once
}

// NewView creates an unmounted view. Controller options apply to the
// controller created on Mount.
func NewView(load Loader, pipeline *Pipeline, opts ...ControllerOption) *View {
	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		load:     load,
		pipeline: pipeline,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		state:    ViewState{Status: StatusLoading, Terms: []models.TermSummary{}},
		subs:     make(map[int]func(ViewState)),
	}
}

// Mount loads the collection and runs the initial pass. A load failure
// leaves the view in StatusError and is returned. Cancelling ctx or
// closing the view abandons the load without touching state.
func (v *View) Mount(ctx context.Context) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		select {
		case <-v.ctx.Done():
			stop()
		case <-ctx.Done():
		}
	}()

	v.mu.Lock()
	if v.state.Status == StatusClosed {
		v.mu.Unlock()
		return context.Canceled
	}
	v.state.Status = StatusLoading
	v.mu.Unlock()
	v.notify()

	col, err := v.load(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		v.mu.Lock()
		if v.state.Status == StatusClosed {
			v.mu.Unlock()
			return context.Canceled
		}
		v.state.Status = StatusError
		v.state.Error = err.Error()
		v.mu.Unlock()
		v.notify()
		return err
	}

	ctrl := NewQueryController(col.Terms(), v.pipeline, v.onResult, v.opts...)

	v.mu.Lock()
	if v.state.Status == StatusClosed {
		v.mu.Unlock()
		ctrl.Close()
		return context.Canceled
	}
	v.ctrl = ctrl
	v.state.Status = StatusReady
	v.state.Error = ""
	v.state.Categories = col.Categories()
	v.state.Letters = col.Letters()
	v.cleanups = append(v.cleanups, ctrl.Close)
	v.mu.Unlock()

	ctrl.Refresh()
	return nil
}

// SetQuery feeds typed or transcribed text; the pass runs after the quiet
// period.
func (v *View) SetQuery(text string) error {
	ctrl, err := v.controller()
	if err != nil {
		return err
	}
	ctrl.SetQuery(text)
	v.notify()
	return nil
}

// SetCategory applies a category facet immediately.
func (v *View) SetCategory(category string) error {
	ctrl, err := v.controller()
	if err != nil {
		return err
	}
	ctrl.SetCategory(category)
	return nil
}

// SetLetter applies a letter facet immediately.
func (v *View) SetLetter(letter string) error {
	ctrl, err := v.controller()
	if err != nil {
		return err
	}
	return ctrl.SetLetter(letter)
}

// Clear resets all facets immediately.
func (v *View) Clear() error {
	ctrl, err := v.controller()
	if err != nil {
		return err
	}
	ctrl.Clear()
	return nil
}

// State returns the current snapshot.
func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Subscribe registers fn for every published snapshot and returns a func
// that removes it. fn is called with snapshots in version order and must
// not call back into the view.
func (v *View) Subscribe(fn func(ViewState)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// OnClose registers fn to run once when the view closes. Cleanups run in
// reverse registration order. Registering on a closed view runs fn at once.
func (v *View) OnClose(fn func()) {
	v.mu.Lock()
	if v.state.Status == StatusClosed {
		v.mu.Unlock()
		fn()
		return
	}
	v.cleanups = append(v.cleanups, fn)
	v.mu.Unlock()
}

// Close cancels an in-progress Mount, stops the controller and runs every
// cleanup exactly once. Safe to call repeatedly.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		v.cancel()

		v.mu.Lock()
		v.state.Status = StatusClosed
		cleanups := v.cleanups
		v.cleanups = nil
		v.subs = make(map[int]func(ViewState))
		v.mu.Unlock()

		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	})
}

func (v *View) controller() (*QueryController, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ctrl == nil || v.state.Status != StatusReady {
		return nil, ErrNotReady
	}
	return v.ctrl, nil
}

func (v *View) onResult(res Result) {
	v.mu.Lock()
	v.state.Facets = res.Facets
	v.state.Searched = res.Searched
	v.state.Total = res.Len()
	v.state.Terms = Summarize(res.Matches, res.Searched)
	v.mu.Unlock()
	v.notify()
}

func (v *View) snapshotLocked() ViewState {
	s := v.state
	if v.ctrl != nil && s.Status == StatusReady {
		s.Searching = v.ctrl.Pending()
		s.Facets.Query = v.ctrl.Facets().Query
	}
	return s
}

func (v *View) notify() {
	v.notifyMu.Lock()
	defer v.notifyMu.Unlock()

	v.mu.Lock()
	if v.state.Status == StatusClosed {
		v.mu.Unlock()
		return
	}
	v.state.Version++
	snap := v.snapshotLocked()
	subs := make([]func(ViewState), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
