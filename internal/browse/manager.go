package browse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/popguide/catalog-server/internal/paging"
)

// managed is a session hosted by a Manager together with the scroll listener
// the manager holds for it
type managed struct {
	session  *Session
	listener *Listener
}

// Manager hosts sessions for remote clients. Each hosted session has its
// listener registered for its whole lifetime and released on Close or reap.
type Manager struct {
	source SnapshotSource
	cfg    *settings

	mu       sync.RWMutex
	sessions map[string]*managed
}

// NewManager creates a session manager. Options apply to every session.
func NewManager(source SnapshotSource, opts ...Option) *Manager {
	return &Manager{
		source:   source,
		cfg:      newSettings(opts),
		sessions: make(map[string]*managed),
	}
}

// Create opens a new session
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	s := newSession(uuid.NewString(), m.source, m.cfg)
	l, err := s.Listen()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID()] = &managed{session: s, listener: l}
	count := len(m.sessions)
	m.mu.Unlock()

	m.cfg.metrics.SessionOpened(ctx)
	slog.Info("Browse session opened", "session_id", s.ID(), "active_sessions", count)
	return s, nil
}

// Get returns an open session
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry.session, nil
}

// Scroll delivers a scroll event to a session through its listener. A nil
// position is a bare near-bottom event.
func (m *Manager) Scroll(id string, pos *paging.Position) (View, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return View{}, ErrSessionNotFound
	}

	if pos == nil {
		entry.listener.NearBottom()
	} else {
		entry.listener.Scroll(*pos)
	}
	if entry.session.Closed() {
		return View{}, ErrSessionClosed
	}
	return entry.session.View(), nil
}

// Close tears down a session and releases its listener
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	m.release(ctx, entry)
	slog.Info("Browse session closed", "session_id", id)
	return nil
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap closes sessions idle for longer than the idle timeout and returns how
// many were closed
func (m *Manager) Reap(ctx context.Context) int {
	cutoff := m.cfg.clock().Add(-m.cfg.idleTimeout)

	m.mu.Lock()
	var stale []*managed
	for id, entry := range m.sessions {
		if entry.session.LastActive().Before(cutoff) {
			stale = append(stale, entry)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, entry := range stale {
		m.release(ctx, entry)
		slog.Info("Reaped idle browse session", "session_id", entry.session.ID())
	}
	return len(stale)
}

// Run reaps idle sessions every interval until ctx is cancelled, then closes
// every remaining session
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = m.cfg.idleTimeout / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.CloseAll(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			if n := m.Reap(ctx); n > 0 {
				slog.Debug("Session janitor pass complete", "reaped", n, "active_sessions", m.Len())
			}
		}
	}
}

// CloseAll tears down every hosted session
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	entries := m.sessions
	m.sessions = make(map[string]*managed)
	m.mu.Unlock()

	for _, entry := range entries {
		m.release(ctx, entry)
	}
	if len(entries) > 0 {
		slog.Info("Closed all browse sessions", "count", len(entries))
	}
}

func (m *Manager) release(ctx context.Context, entry *managed) {
	entry.listener.Close()
	entry.session.Close()
	m.cfg.metrics.SessionClosed(ctx)
}
