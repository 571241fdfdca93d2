package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session: not found")

// Manager tracks live page sessions and expires idle ones.
type Manager struct {
	opts    Options
	timeout time.Duration
	log     *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Controller
}

// NewManager returns a Manager that expires sessions idle for longer than timeout.
func NewManager(opts Options, timeout time.Duration) *Manager {
	return &Manager{
		opts:     opts,
		timeout:  timeout,
		log:      opts.Logger,
		sessions: make(map[string]*Controller),
	}
}

// Create starts a new page session.
func (m *Manager) Create() *Controller {
	id := uuid.NewString()
	c := NewController(id, m.opts)

	m.mu.Lock()
	m.sessions[id] = c
	m.mu.Unlock()

	m.log.Debug("created session", zap.String("session", id))
	return c
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// Delete removes and tears down a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	c, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		c.Close()
		m.log.Debug("deleted session", zap.String("session", id))
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the timeout and returns how
// many were removed. Sessions with a connected browser channel live until
// the channel closes.
func (m *Manager) Sweep() int {
	now := m.opts.Clock.Now()

	m.mu.RLock()
	var expired []string
	for id, c := range m.sessions {
		if c.Attached() {
			continue
		}
		if now.Sub(c.LastUsed()) > m.timeout {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.Delete(id)
	}
	if len(expired) > 0 {
		m.log.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then shuts every session down.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Shutdown()
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Shutdown tears down every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Controller)
	m.mu.Unlock()

	for _, c := range sessions {
		c.Close()
	}
}
