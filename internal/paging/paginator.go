// Package paging implements the growing visible window over a filtered result.
package paging

const (
	// DefaultPageSize is the initial window size and the growth step
	DefaultPageSize = 24

	// DefaultScrollThreshold is the distance in pixels from the end of the
	// content at which a scroll counts as near the bottom
	DefaultScrollThreshold = 200
)

// Position describes a scroll event in pixels
type Position struct {
	ScrollTop      float64 `json:"scroll_top"`
	ViewportHeight float64 `json:"viewport_height"`
	ContentHeight  float64 `json:"content_height"`
}

// NearBottom reports whether the viewport end is within threshold of the content end
func (p Position) NearBottom(threshold float64) bool {
	return p.ScrollTop+p.ViewportHeight >= p.ContentHeight-threshold
}

// Paginator tracks how many results are visible.
//
// The window starts at the page size and grows by one page per near-bottom
// event until it covers the whole result. It never shrinks except on Reset.
// A Paginator is not safe for concurrent use.
type Paginator struct {
	pageSize  int
	threshold float64

	visible int
	total   int

	// grownAt is the content height of the last growth, used to ignore
	// repeated events fired before the new page is laid out
	grownAt  float64
	hasGrown bool
}

// New creates a paginator. Non-positive arguments select the defaults.
func New(pageSize int, threshold float64) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if threshold <= 0 {
		threshold = DefaultScrollThreshold
	}
	return &Paginator{
		pageSize:  pageSize,
		threshold: threshold,
		visible:   pageSize,
	}
}

// Reset starts the window over for a result of the given length
func (p *Paginator) Reset(total int) {
	p.visible = p.pageSize
	p.total = max(total, 0)
	p.grownAt = 0
	p.hasGrown = false
}

// Grow extends the window by one page, saturating at the result length.
// It reports whether the window changed.
func (p *Paginator) Grow() bool {
	if p.visible >= p.total {
		return false
	}
	p.visible = min(p.visible+p.pageSize, p.total)
	return true
}

// Scroll handles a scroll event. It grows the window when the position is
// near the bottom, at most once per content height.
func (p *Paginator) Scroll(pos Position) bool {
	if !pos.NearBottom(p.threshold) {
		return false
	}
	if p.hasGrown && pos.ContentHeight == p.grownAt {
		return false
	}
	if !p.Grow() {
		return false
	}
	p.grownAt = pos.ContentHeight
	p.hasGrown = true
	return true
}

// Visible returns the number of visible results
func (p *Paginator) Visible() int {
	return min(p.visible, p.total)
}

// HasMore reports whether growing would reveal more results
func (p *Paginator) HasMore() bool {
	return p.visible < p.total
}

// Window returns the visible prefix of items
func Window[T any](items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	if n < 0 {
		n = 0
	}
	return items[:n:n]
}
