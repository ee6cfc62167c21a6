// Package classify derives status labels and display badges from raw catalog
// fields and the evaluation time. Labels are not stored on items; an item may
// carry several labels at once and no precedence between them is defined.
package classify

import (
	"strings"
	"time"

	"github.com/popguide/catalog-server/internal/catalog"
)

// Label is a derived status label
type Label string

const (
	// All is the status option that matches every item. It is never part of a derived Set.
	All Label = "All"

	ComingSoon     Label = "Coming Soon"
	NewReleases    Label = "New Releases"
	FunkoExclusive Label = "Funko Exclusive"
	PreOrder       Label = "Pre-Order"
	InStock        Label = "In Stock"
	SoldOut        Label = "Sold Out"
)

// Labels lists every derivable label in vocabulary order
var Labels = []Label{ComingSoon, NewReleases, FunkoExclusive, PreOrder, InStock, SoldOut}

// DefaultRecencyWindow is the trailing window, in months, in which an
// unvaulted item counts as a new release
const DefaultRecencyWindow = 3

// Set is a set of derived labels
type Set uint8

func bit(l Label) Set {
	for i, known := range Labels {
		if known == l {
			return 1 << i
		}
	}
	return 0
}

// Has reports whether the set contains the label
func (s Set) Has(l Label) bool {
	b := bit(l)
	return b != 0 && s&b != 0
}

// Matches reports whether a status facet value selects an item with this set.
// "All" selects everything; unrecognized values select nothing.
func (s Set) Matches(value string) bool {
	if Label(value) == All {
		return true
	}
	return s.Has(Label(value))
}

// Labels returns the members of the set in vocabulary order
func (s Set) Labels() []Label {
	out := make([]Label, 0, len(Labels))
	for _, l := range Labels {
		if s.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Classifier derives labels relative to a clock
type Classifier struct {
	clock        func() time.Time
	windowMonths int
}

// Option configures a Classifier
type Option func(*Classifier)

// WithClock sets the time source used for recency rules
func WithClock(clock func() time.Time) Option {
	return func(c *Classifier) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRecencyWindow sets the new release window in months
func WithRecencyWindow(months int) Option {
	return func(c *Classifier) {
		if months > 0 {
			c.windowMonths = months
		}
	}
}

// New creates a classifier using the wall clock and a three month window
func New(opts ...Option) *Classifier {
	c := &Classifier{
		clock:        time.Now,
		windowMonths: DefaultRecencyWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns rules bound to the current instant. Every item in one
// filtering pass should be classified with the same Rules value.
func (c *Classifier) Now() Rules {
	return c.At(c.clock())
}

// At returns rules bound to the given instant
func (c *Classifier) At(now time.Time) Rules {
	return Rules{
		now:         now,
		recentSince: now.AddDate(0, -c.windowMonths, 0),
	}
}

// Rules classifies items at a fixed evaluation time
type Rules struct {
	now         time.Time
	recentSince time.Time
}

// Classify returns every label the item satisfies
func (r Rules) Classify(item *catalog.Item) Set {
	var s Set

	if item.RawStatus == catalog.RawStatusComingSoon || item.HasSource(catalog.SourceComingSoon) {
		s |= bit(ComingSoon)
	}
	if item.HasSource(catalog.SourceNewReleases) || (r.isRecent(item) && !item.IsVaulted) {
		s |= bit(NewReleases)
	}
	if containsFold(item.Edition, "exclusive") ||
		containsFold(item.Fandom, "funko") ||
		containsFold(item.Category, "exclusive") {
		s |= bit(FunkoExclusive)
	}
	if item.RawStatus == catalog.RawStatusPreOrder || containsFold(item.Edition, "pre-order") {
		s |= bit(PreOrder)
	}
	if !item.IsVaulted && item.RawStatus != catalog.RawStatusSoldOut && item.RawStatus != catalog.RawStatusComingSoon {
		s |= bit(InStock)
	}
	if item.IsVaulted || item.RawStatus == catalog.RawStatusSoldOut {
		s |= bit(SoldOut)
	}

	return s
}

// isRecent is inclusive at the window boundary
func (r Rules) isRecent(item *catalog.Item) bool {
	return !item.CreatedAt.IsZero() && !item.CreatedAt.Before(r.recentSince)
}

func containsFold(field, sub string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), sub)
}
