package browse

import (
	"sync/atomic"

	"github.com/popguide/catalog-server/internal/paging"
)

// Listener delivers scroll events to a session. Events sent after Close, or
// after the session is closed, are dropped.
type Listener struct {
	session *Session
	closed  atomic.Bool
}

// NearBottom reports that the host observed the viewport near the end of the
// content. It returns whether the visible window grew.
func (l *Listener) NearBottom() bool {
	if l.closed.Load() {
		return false
	}
	return l.session.grow(l, nil)
}

// Scroll delivers a raw scroll position. The window grows when the position
// is within the threshold of the content end, once per content height.
func (l *Listener) Scroll(pos paging.Position) bool {
	if l.closed.Load() {
		return false
	}
	return l.session.grow(l, &pos)
}

// Close deregisters the listener. It is safe to call more than once and
// another listener may be registered afterwards.
func (l *Listener) Close() {
	if l.closed.Swap(true) {
		return
	}
	s := l.session
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == l {
		s.listener = nil
	}
}

// Closed reports whether the listener was closed
func (l *Listener) Closed() bool {
	return l.closed.Load()
}
