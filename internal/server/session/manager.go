package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/google/uuid"
)

// Manager owns the live sessions of one server process.
type Manager struct {
	validity time.Duration
	logger   logging.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Context
}

func NewManager(validity time.Duration, logger logging.Logger) *Manager {
	return &Manager{
		validity: validity,
		logger:   logger.With("module", "sessions"),
		now:      time.Now,
		sessions: make(map[string]*Context),
	}
}

// Validity is how long a session lives after Start.
func (m *Manager) Validity() time.Duration { return m.validity }

// Start creates a fresh anonymous session.
func (m *Manager) Start() *Context {
	c := newContext(uuid.NewString(), m.now(), m.validity)

	m.mu.Lock()
	m.sessions[c.ID] = c
	m.mu.Unlock()

	return c
}

// Get returns the session for id. Unknown and expired sessions yield
// common.ErrSessionNotFound.
func (m *Manager) Get(id string) (*Context, error) {
	m.mu.RLock()
	c, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || c.expired(m.now()) {
		return nil, common.ErrSessionNotFound
	}
	return c, nil
}

// End discards the session. Ending an unknown session is a no-op.
func (m *Manager) End(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len is the number of sessions held, expired ones included until swept.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, c := range m.sessions {
		if c.expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug(ctx, "expired sessions swept", "count", n)
			}
		}
	}
}
