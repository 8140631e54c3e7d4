package session

import (
	"container/list"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Manager hosts the Context of every live browser session and expires idle
// ones, flushing their bindings.
type Manager struct {
	mu sync.Mutex

	// All sessions by ID
	sessions map[string]*list.Element

	// Sessions in LRU order (front = most recently active)
	lru *list.List

	tracker *Tracker
	config  ManagerConfig
	logger  *slog.Logger

	// now is overrideable for tests.
	now func() time.Time

	// Lifecycle
	done    chan struct{}
	stopped bool
}

type managedSession struct {
	ctx        *Context
	lastActive time.Time
}

// ManagerConfig configures the session manager.
type ManagerConfig struct {
	// MaxSessions is the maximum number of live sessions. 0 means unlimited.
	// Default: 10000.
	MaxSessions int

	// EvictOnLimit evicts the least recently active session instead of
	// failing when MaxSessions is reached.
	EvictOnLimit bool

	// IdleTimeout is how long a session may go without a rerun before it is
	// expired and its bindings flushed.
	// Default: 30 minutes.
	IdleTimeout time.Duration

	// CleanupInterval is how often idle sessions are swept.
	// Default: 1 minute.
	CleanupInterval time.Duration
}

// DefaultManagerConfig returns a ManagerConfig with sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxSessions:     10000,
		IdleTimeout:     30 * time.Minute,
		CleanupInterval: 1 * time.Minute,
	}
}

// Error types for session management.
var (
	// ErrMaxSessionsReached is returned when MaxSessions is reached and
	// eviction is disabled.
	ErrMaxSessionsReached = errors.New("maximum session limit reached")

	// ErrManagerStopped is returned when operations are attempted on a stopped manager.
	ErrManagerStopped = errors.New("session manager is stopped")

	// ErrSessionEnded is returned when a rerun acquires a session that was
	// removed, expired or evicted after it was looked up.
	ErrSessionEnded = errors.New("session ended")
)

// NewManager creates a session manager and starts its cleanup loop.
func NewManager(tracker *Tracker, config ManagerConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultManagerConfig()
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = defaults.IdleTimeout
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}

	m := &Manager{
		sessions: make(map[string]*list.Element),
		lru:      list.New(),
		tracker:  tracker,
		config:   config,
		logger:   logger.With("component", "session_manager"),
		now:      time.Now,
		done:     make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// GetOrCreate returns the Context for id, creating it if needed, and marks
// the session active.
func (m *Manager) GetOrCreate(id string) (*Context, error) {
	m.mu.Lock()

	if m.stopped {
		m.mu.Unlock()
		return nil, ErrManagerStopped
	}

	now := m.now()
	if elem, ok := m.sessions[id]; ok {
		ms := elem.Value.(*managedSession)
		ms.lastActive = now
		m.lru.MoveToFront(elem)
		m.mu.Unlock()
		return ms.ctx, nil
	}

	var evicted *Context
	if m.config.MaxSessions > 0 && len(m.sessions) >= m.config.MaxSessions {
		if !m.config.EvictOnLimit {
			m.mu.Unlock()
			return nil, ErrMaxSessionsReached
		}
		evicted = m.evictOldestLocked()
	}

	ms := &managedSession{
		ctx:        NewContext(id),
		lastActive: now,
	}
	m.sessions[id] = m.lru.PushFront(ms)
	m.mu.Unlock()

	if evicted != nil {
		n := m.flush(evicted)
		m.logger.Debug("evicted session",
			"session_id", evicted.id,
			"flushed", n,
			"reason", "session_limit")
	}
	return ms.ctx, nil
}

// Get returns the Context for id, or nil.
func (m *Manager) Get(id string) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	if elem, ok := m.sessions[id]; ok {
		return elem.Value.(*managedSession).ctx
	}
	return nil
}

// Touch marks the session active without creating it.
func (m *Manager) Touch(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if elem, ok := m.sessions[id]; ok {
		elem.Value.(*managedSession).lastActive = m.now()
		m.lru.MoveToFront(elem)
	}
}

// Remove ends the session and flushes its pending bindings.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	elem, ok := m.sessions[id]
	if ok {
		m.removeLocked(elem)
	}
	m.mu.Unlock()

	if ok {
		m.flush(elem.Value.(*managedSession).ctx)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) removeLocked(elem *list.Element) {
	ms := elem.Value.(*managedSession)
	delete(m.sessions, ms.ctx.id)
	m.lru.Remove(elem)
}

// evictOldestLocked removes the least recently active session and returns
// its context for flushing outside the lock.
func (m *Manager) evictOldestLocked() *Context {
	elem := m.lru.Back()
	if elem == nil {
		return nil
	}
	m.removeLocked(elem)
	return elem.Value.(*managedSession).ctx
}

// flush ends sc and sweeps its bindings once any rerun in progress has
// finished.
func (m *Manager) flush(sc *Context) int {
	sc.Lock()
	defer sc.Unlock()
	sc.ended = true
	return m.tracker.Flush(sc)
}

// cleanupLoop periodically expires idle sessions.
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.expireIdle()
		case <-m.done:
			return
		}
	}
}

// expireIdle removes sessions idle for longer than IdleTimeout and returns
// how many were expired.
func (m *Manager) expireIdle() int {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return 0
	}

	cutoff := m.now().Add(-m.config.IdleTimeout)
	var expired []*Context
	for elem := m.lru.Back(); elem != nil; {
		ms := elem.Value.(*managedSession)
		if ms.lastActive.After(cutoff) {
			break
		}
		prev := elem.Prev()
		m.removeLocked(elem)
		expired = append(expired, ms.ctx)
		elem = prev
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	flushed := 0
	for _, sc := range expired {
		flushed += m.flush(sc)
	}

	if len(expired) > 0 {
		m.logger.Debug("expired idle sessions",
			"count", len(expired),
			"flushed", flushed,
			"remaining", remaining)
	}
	return len(expired)
}

// Shutdown stops the manager and flushes the bindings of every session.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()

	if m.stopped {
		m.mu.Unlock()
		return nil
	}

	m.stopped = true
	close(m.done)

	all := make([]*Context, 0, len(m.sessions))
	for elem := m.lru.Front(); elem != nil; elem = elem.Next() {
		all = append(all, elem.Value.(*managedSession).ctx)
	}
	m.sessions = make(map[string]*list.Element)
	m.lru.Init()
	m.mu.Unlock()

	flushed := 0
	for _, sc := range all {
		if err := ctx.Err(); err != nil {
			return err
		}
		flushed += m.flush(sc)
	}

	m.logger.Info("session manager stopped",
		"sessions", len(all),
		"flushed", flushed)
	return nil
}
