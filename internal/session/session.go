package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-forecast-state/internal/editor"
	"github.com/i474232898/weather-forecast-state/internal/metrics"
	"github.com/i474232898/weather-forecast-state/internal/weather"
)

// ErrNotFound is returned when no session exists for an identifier.
var ErrNotFound = errors.New("session not found")

// Session is one client's view state: its own view service and editor,
// sharing the store with every other session.
type Session struct {
	ID     uuid.UUID
	View   *weather.Service
	Editor *editor.Coordinator

	revision atomic.Uint64
	lastSeen atomic.Int64
	sub      weather.Subscription
}

// RequestRender bumps the render revision so clients know to redraw.
func (s *Session) RequestRender() {
	s.revision.Add(1)
}

// Revision returns the number of render requests so far.
func (s *Session) Revision() uint64 {
	return s.revision.Load()
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// close detaches the session from its view service.
func (s *Session) close() {
	s.sub.Unsubscribe()
	s.View.Close()
}

// Manager creates and tracks sessions over a single shared store.
type Manager struct {
	store   weather.Store
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates a Manager. m may be nil.
func NewManager(store weather.Store, log zerolog.Logger, m *metrics.Metrics) *Manager {
	return &Manager{
		store:    store,
		log:      log.With().Str("component", "sessions").Logger(),
		metrics:  m,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a session and performs its initial fetch.
// The returned bool is the fetch outcome.
func (m *Manager) Create(ctx context.Context) (*Session, bool) {
	var opts []weather.Option
	if m.metrics != nil {
		opts = append(opts, weather.WithObserver(m.metrics))
	}

	s := &Session{ID: uuid.New()}
	s.View = weather.NewService(m.store, m.log.With().Str("session", s.ID.String()).Logger(), opts...)
	s.Editor = editor.New(s, s.View)
	s.sub = s.View.Subscribe(s.RequestRender)
	s.touch(m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()
	m.setGauge(n)

	ok := s.View.Fetch(ctx)
	m.log.Info().Str("session", s.ID.String()).Bool("fetched", ok).Msg("session created")
	return s, ok
}

// Get returns the session for id and marks it as active.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Close tears down the session for id.
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.close()
	m.setGauge(n)
	m.log.Info().Str("session", id.String()).Msg("session closed")
	return nil
}

// Sweep closes sessions idle for longer than maxIdle and returns how many were removed.
// Sessions with a visible editor are kept so a waiting caller is never stranded.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	now := m.now()

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince(now) > maxIdle && !s.Editor.Visible() {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		m.setGauge(n)
		m.log.Info().Int("removed", len(expired)).Int("remaining", n).Msg("swept idle sessions")
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) setGauge(n int) {
	if m.metrics != nil {
		m.metrics.SetSessions(n)
	}
}
