package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leolearn/leo-web/internal/models"
)

// SessionRegistry holds the server side of every live session.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRegistry creates a registry whose sessions live for ttl.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]models.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a new session for userID.
func (r *SessionRegistry) Create(userID string) models.Session {
	now := r.now()
	session := models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return session
}

// Get returns a live session. Expired sessions are reported as absent.
func (r *SessionRegistry) Get(id string) (models.Session, bool) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || session.Expired(r.now()) {
		return models.Session{}, false
	}
	return session, true
}

// Delete ends a session. Unknown IDs are ignored.
func (r *SessionRegistry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// PurgeExpired drops every expired session and returns how many were removed.
func (r *SessionRegistry) PurgeExpired() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
