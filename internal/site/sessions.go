package site

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/visualgallery/internal/gallery"
)

// Session is one browser's gallery. Events for a session run one at a
// time under mu, so the controller sees them in order.
type Session struct {
	ID string

	mu       sync.Mutex
	ctrl     *gallery.Controller
	lastSeen time.Time
}

// Do runs fn against the session's controller and returns the resulting snapshot.
func (s *Session) Do(fn func(g *gallery.Controller)) gallery.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if fn != nil {
		fn(s.ctrl)
	}
	return s.ctrl.Snapshot()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionStore holds live sessions in memory.
type SessionStore struct {
	catalog *gallery.Catalog
	ttl     time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store; sessions idle longer than ttl are swept.
func NewSessionStore(catalog *gallery.Catalog, ttl time.Duration) *SessionStore {
	return &SessionStore{
		catalog:  catalog,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id if it exists.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Create starts a new session with a fresh controller.
func (s *SessionStore) Create() *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		ctrl:     gallery.NewController(s.catalog),
		lastSeen: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Transient returns a fresh session that is not stored.
func (s *SessionStore) Transient() *Session {
	return &Session{
		ctrl:     gallery.NewController(s.catalog),
		lastSeen: time.Now(),
	}
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many went.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until ctx is done.
func (s *SessionStore) Run(ctx context.Context, logger *zap.Logger) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				logger.Debug("expired gallery sessions", zap.Int("count", n), zap.Int("live", s.Len()))
			}
		}
	}
}
