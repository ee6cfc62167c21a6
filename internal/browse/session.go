package browse

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/facets"
	"github.com/popguide/catalog-server/internal/filtering"
	"github.com/popguide/catalog-server/internal/paging"
)

var (
	// ErrSessionNotFound is returned when no session has the given id
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionClosed is returned for operations on a closed session
	ErrSessionClosed = errors.New("session closed")

	// ErrListenerActive is returned when a session already has a scroll listener
	ErrListenerActive = errors.New("scroll listener already registered")
)

// View is a read-only snapshot of a session's outputs
type View struct {
	ID            string           `json:"id"`
	Generation    uint64           `json:"generation"`
	FilteredCount int              `json:"filtered_count"`
	VisibleCount  int              `json:"visible_count"`
	HasMore       bool             `json:"has_more"`
	State         *filtering.State `json:"state"`
	Items         []*catalog.Item  `json:"items"`
}

// Session is one browsing view over the catalog
type Session struct {
	id     string
	source SnapshotSource
	cfg    *settings

	mu         sync.Mutex
	state      *filtering.State
	snap       *catalog.Snapshot
	memoState  *filtering.State
	result     []*catalog.Item
	pager      *paging.Paginator
	listener   *Listener
	closed     bool
	lastActive time.Time
}

// NewSession opens a session with the all-empty filter state
func NewSession(source SnapshotSource, opts ...Option) *Session {
	return newSession(uuid.NewString(), source, newSettings(opts))
}

func newSession(id string, source SnapshotSource, cfg *settings) *Session {
	s := &Session{
		id:         id,
		source:     source,
		cfg:        cfg,
		state:      filtering.Empty(),
		pager:      paging.New(cfg.pageSize, cfg.threshold),
		lastActive: cfg.clock(),
	}
	s.refresh()
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// SetSearchTerm replaces the search term
func (s *Session) SetSearchTerm(text string) error {
	return s.dispatch(filtering.SetSearchTerm(text))
}

// ToggleFacetValue flips value in a facet's selection
func (s *Session) ToggleFacetValue(facet filtering.Facet, value string) error {
	return s.dispatch(filtering.ToggleFacetValue(facet, value))
}

// SetVaultedMode replaces the vaulted mode
func (s *Session) SetVaultedMode(mode filtering.VaultedMode) error {
	return s.dispatch(filtering.SetVaultedMode(mode))
}

// SetYear replaces the year constraint; "" clears it
func (s *Session) SetYear(year string) error {
	return s.dispatch(filtering.SetYear(year))
}

// ClearFilters returns to the all-empty filter state
func (s *Session) ClearFilters() error {
	return s.dispatch(filtering.Clear())
}

func (s *Session) dispatch(a filtering.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	next, err := filtering.Reduce(s.state, a)
	if err != nil {
		return err
	}
	s.state = next
	s.touch()
	s.refresh()
	return nil
}

// State returns the current filter state
func (s *Session) State() *filtering.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FilteredCount returns the length of the filtered result
func (s *Session) FilteredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.refresh()
	return len(s.result)
}

// VisibleItems returns the visible prefix of the filtered result
func (s *Session) VisibleItems() []*catalog.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.refresh()
	return paging.Window(s.result, s.pager.Visible())
}

// FacetOptions returns every facet's options with whole-catalog counts
func (s *Session) FacetOptions() map[facets.Key][]facets.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.refresh()
	return s.cfg.facets.For(s.snap).All()
}

// View returns all outputs under one lock
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.refresh()
	return s.view()
}

func (s *Session) view() View {
	return View{
		ID:            s.id,
		Generation:    s.snap.Generation(),
		FilteredCount: len(s.result),
		VisibleCount:  s.pager.Visible(),
		HasMore:       s.pager.HasMore(),
		State:         s.state,
		Items:         paging.Window(s.result, s.pager.Visible()),
	}
}

// Listen registers the session's scroll listener. Only one listener may be
// active; the caller must Close it when the view is torn down.
func (s *Session) Listen() (*Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.listener != nil {
		return nil, ErrListenerActive
	}
	s.listener = &Listener{session: s}
	return s.listener, nil
}

// Close tears the session down and releases its listener. It is safe to call
// more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.listener != nil {
		s.listener.closed.Store(true)
		s.listener = nil
	}
	s.result = nil
}

// Closed reports whether the session was closed
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// LastActive returns when the session was last read or updated
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// grow handles a scroll event delivered by l. It returns whether the window grew.
func (s *Session) grow(l *Listener, pos *paging.Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.listener != l {
		return false
	}
	s.touch()
	s.refresh()
	if pos == nil {
		return s.pager.Grow()
	}
	return s.pager.Scroll(*pos)
}

func (s *Session) touch() {
	s.lastActive = s.cfg.clock()
}

// refresh recomputes the result when the snapshot or state identity changed
// and resets the window. Must be called with mu held.
func (s *Session) refresh() {
	if s.closed {
		return
	}
	snap := s.source.Current()
	if snap == s.snap && s.state == s.memoState {
		return
	}

	start := time.Now()
	result := s.cfg.engine.Apply(snap, s.state)
	s.cfg.metrics.RecordFilterDuration(context.Background(), "session", time.Since(start))

	s.snap = snap
	s.memoState = s.state
	s.result = result
	s.pager.Reset(len(result))
}
