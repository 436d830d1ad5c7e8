package memory

import (
	"sync"
	"time"

	"isit-trivia/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(playerID string, create func(playerID string) *app.Session) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[playerID]
	if !ok {
		session = create(playerID)
		s.sessions[playerID] = session
	}
	session.Attach()
	return session
}

func (s *SessionStore) Get(playerID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[playerID]
	return session, ok
}

func (s *SessionStore) DeleteIfEmpty(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[playerID]
	if !ok || session.Connections() > 0 {
		return false
	}
	delete(s.sessions, playerID)
	return true
}

func (s *SessionStore) EvictIdle(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var evicted []string
	for playerID, session := range s.sessions {
		if session.IdleSince(cutoff) {
			delete(s.sessions, playerID)
			evicted = append(evicted, playerID)
		}
	}
	return evicted
}

// Len reports how many players have a session.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
