// internal/service/session_registry.go
package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vanhieuhoaiphu/currency-converter/internal/metrics"
)

// SessionRegistry tracks open sessions so they can be torn down together.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	metrics  *metrics.ConverterMetrics
	logger   *zap.Logger
}

func NewSessionRegistry(m *metrics.ConverterMetrics, logger *zap.Logger) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		metrics:  m,
		logger:   logger,
	}
}

// Add registers a session
func (r *SessionRegistry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID()] = s
	r.metrics.SessionsTotal.Inc()
	r.metrics.ActiveSessions.Set(float64(len(r.sessions)))
}

// Get looks a session up by ID
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Remove closes and forgets a session. Unknown IDs are ignored.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
		r.metrics.ActiveSessions.Set(float64(len(r.sessions)))
	}
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every open session, used on shutdown.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.metrics.ActiveSessions.Set(0)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	r.logger.Info("closed all sessions", zap.Int("count", len(sessions)))
}
