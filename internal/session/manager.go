package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"callintake/internal/chips"
	"callintake/internal/metrics"
	"callintake/internal/model"
)

// Option configures a Manager
type Option func(*Manager)

// WithThreshold sets the auto-confirm confidence for new boards
func WithThreshold(threshold float64) Option {
	return func(m *Manager) { m.threshold = threshold }
}

// WithDebounce sets the input-stability pause
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) { m.debounce = d }
}

// WithTTL sets how long an idle session is kept
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// WithMetrics records session counts and chip transitions
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithClock overrides the clock used for idle tracking
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager owns the open sessions
type Manager struct {
	classifier Classifier
	threshold  float64
	debounce   time.Duration
	ttl        time.Duration
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager
func NewManager(classifier Classifier, opts ...Option) *Manager {
	m := &Manager{
		classifier: classifier,
		threshold:  chips.DefaultThreshold,
		debounce:   400 * time.Millisecond,
		ttl:        time.Hour,
		logger:     zerolog.Nop(),
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a new session
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	board := chips.NewBoard(m.threshold,
		chips.WithClock(m.classifier.Today),
		chips.WithMetrics(m.metrics),
		chips.WithLogger(m.logger),
	)
	s := newSession(id, board, m.classifier, m.debounce, m.now, m.logger)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.metrics.SessionOpened()
	m.logger.Info().Str("session", id).Msg("session opened")
	return s
}

// Get returns an open session
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	}
	return s, nil
}

// Close closes and forgets a session
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	}
	s.Close()
	m.metrics.SessionClosed()
	m.logger.Info().Str("session", id).Msg("session closed")
	return nil
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict closes sessions idle for longer than the TTL and returns how many
func (m *Manager) Evict() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
		m.metrics.SessionClosed()
		m.logger.Info().Str("session", s.ID).Msg("evicted idle session")
	}
	return len(idle)
}

// Run evicts idle sessions periodically until ctx is done, then closes the rest
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.CloseAll()
			return
		case <-ticker.C:
			m.Evict()
		}
	}
}

// CloseAll closes every session
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
		m.metrics.SessionClosed()
	}
}
