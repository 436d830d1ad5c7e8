package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"isit-trivia/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Engines are stateful and owned by this process, so sessions still live
//     in a local map.
//   - Redis holds a liveness marker per player so other instances (or an
//     operator) can see who is playing where.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
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
	s.touch(playerID)
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
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
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
	if len(evicted) > 0 {
		keys := make([]string, len(evicted))
		for i, playerID := range evicted {
			keys[i] = s.key(playerID)
		}
		_ = s.client.Del(context.Background(), keys...).Err()
	}
	return evicted
}

// best-effort liveness marker
func (s *SessionStore) touch(playerID string) {
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
}

func (s *SessionStore) key(playerID string) string {
	return "isit:session:" + playerID
}
