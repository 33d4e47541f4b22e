// Package session keeps one table engine per dashboard session for the
// HTTP API.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/table"
)

// ErrSessionNotFound is returned for unknown or evicted sessions that cannot
// be rebuilt.
var ErrSessionNotFound = errors.New("session not found")

// EngineFactory builds an empty engine for a session. Notifications of the
// engine must go to notifier.
type EngineFactory func(sessionID string, notifier table.Notifier) *table.Engine

// Session is one dashboard: its engine and undrained notifications.
type Session struct {
	ID     string
	Engine *table.Engine
	Inbox  *Inbox

	mu         sync.Mutex
	lastAccess time.Time
	closed     bool
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastAccess = now
	s.mu.Unlock()
}

func (s *Session) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed reports whether the session was ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// LastAccess reports when the session was last used.
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// ManagerConfig bundles collaborators of a Manager.
type ManagerConfig struct {
	NewEngine EngineFactory
	// Settings is optional; without it evicted sessions are gone.
	Settings SettingsStore
	TTL      time.Duration
	Logger   *zap.Logger
	Clock    func() time.Time
}

// Manager owns live sessions.
type Manager struct {
	newEngine EngineFactory
	settings  SettingsStore
	ttl       time.Duration
	logger    *zap.Logger
	clock     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager constructs a manager.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		newEngine: cfg.NewEngine,
		settings:  cfg.Settings,
		ttl:       cfg.TTL,
		logger:    cfg.Logger,
		clock:     cfg.Clock,
		sessions:  make(map[string]*Session),
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	return m
}

// Create starts a session and loads the ticket collection into it.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	s := m.build(uuid.NewString())
	if err := s.Engine.Load(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session_id", s.ID))
	m.Persist(ctx, s)
	return s, nil
}

// Get returns a live session. A session evicted from memory is rebuilt from
// its stored settings when a settings store is configured.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.touch(m.clock())
		return s, nil
	}
	if m.settings == nil {
		return nil, ErrSessionNotFound
	}

	settings, found, err := m.settings.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	s = m.build(id)
	if err := s.Engine.Load(ctx); err != nil {
		return nil, err
	}
	if err := s.Engine.Restore(settings); err != nil {
		m.logger.Warn("discarding stored session settings", zap.String("session_id", id), zap.Error(err))
	}

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		s = existing
	} else {
		m.sessions[id] = s
	}
	m.mu.Unlock()
	m.logger.Info("session restored", zap.String("session_id", id))
	return s, nil
}

// Persist saves the session's view settings. Ended sessions are skipped so
// their settings cannot bring them back. Failures are only logged.
func (m *Manager) Persist(ctx context.Context, s *Session) {
	if m.settings == nil || s.Closed() {
		return
	}
	if err := m.settings.Save(ctx, s.ID, s.Engine.Settings()); err != nil {
		m.logger.Warn("persist session settings", zap.String("session_id", s.ID), zap.Error(err))
	}
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed. Their stored settings expire on their own.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.clock().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.sessions {
		if s.LastAccess().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close ends a session and forgets its settings.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.markClosed()
	}

	if m.settings != nil {
		if err := m.settings.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete session settings: %w", err)
		}
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

func (m *Manager) build(id string) *Session {
	inbox := &Inbox{}
	return &Session{
		ID:         id,
		Engine:     m.newEngine(id, inbox),
		Inbox:      inbox,
		lastAccess: m.clock(),
	}
}
