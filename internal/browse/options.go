// Package browse implements stateful browsing sessions over the catalog.
//
// A Session owns one FilterState and one visible window. Every operation on a
// session is serialized, so a filter change always resets the window before a
// later scroll event is processed. Results are memoized on the identities of
// the catalog snapshot and the filter state; a session notices a replaced
// snapshot on its next operation and starts its window over.
package browse

import (
	"time"

	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/facets"
	"github.com/popguide/catalog-server/internal/filtering"
	"github.com/popguide/catalog-server/internal/paging"
	"github.com/popguide/catalog-server/internal/telemetry"
)

// DefaultIdleTimeout is how long an untouched session survives in a Manager
const DefaultIdleTimeout = 30 * time.Minute

// SnapshotSource provides the active catalog snapshot
type SnapshotSource interface {
	// Current returns the active snapshot, never nil
	Current() *catalog.Snapshot
}

// Option configures sessions and managers
type Option func(*settings)

type settings struct {
	classifier  *classify.Classifier
	engine      filtering.Engine
	facets      *facets.Cache
	pageSize    int
	threshold   float64
	idleTimeout time.Duration
	metrics     *telemetry.BrowseMetrics
	clock       func() time.Time
}

func newSettings(opts []Option) *settings {
	s := &settings{
		pageSize:    paging.DefaultPageSize,
		threshold:   paging.DefaultScrollThreshold,
		idleTimeout: DefaultIdleTimeout,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.classifier == nil {
		s.classifier = classify.New()
	}
	if s.engine == nil {
		s.engine = filtering.NewDefaultEngine(s.classifier)
	}
	if s.facets == nil {
		s.facets = facets.NewCache(s.classifier)
	}
	return s
}

// WithClassifier sets the status classifier shared by the engine and facet cache
func WithClassifier(c *classify.Classifier) Option {
	return func(s *settings) {
		s.classifier = c
	}
}

// WithEngine sets the filter engine
func WithEngine(e filtering.Engine) Option {
	return func(s *settings) {
		s.engine = e
	}
}

// WithFacetCache shares a facet cache between sessions
func WithFacetCache(c *facets.Cache) Option {
	return func(s *settings) {
		s.facets = c
	}
}

// WithPageSize sets the window page size
func WithPageSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithScrollThreshold sets the near-bottom threshold in pixels
func WithScrollThreshold(px float64) Option {
	return func(s *settings) {
		if px > 0 {
			s.threshold = px
		}
	}
}

// WithIdleTimeout sets how long a managed session may stay untouched
func WithIdleTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}

// WithMetrics sets the browse metrics
func WithMetrics(m *telemetry.BrowseMetrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithClock sets the time source used for idle tracking
func WithClock(clock func() time.Time) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}
