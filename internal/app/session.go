package app

import (
	"sync"
	"time"
)

// Session is one player's game. The mutex serializes requests arriving from
// several connections of the same player; engines are never shared.
type Session struct {
	playerID string
	now      func() time.Time

	mu     sync.Mutex
	engine *Engine

	// guards lastSeen and conns; never held while the engine works
	stateMu  sync.Mutex
	lastSeen time.Time
	conns    int
}

// NewSession wraps engine for playerID.
func NewSession(playerID string, engine *Engine) *Session {
	return NewSessionWithClock(playerID, engine, time.Now)
}

// NewSessionWithClock stamps requests with now instead of the wall clock.
func NewSessionWithClock(playerID string, engine *Engine, now func() time.Time) *Session {
	return &Session{
		playerID: playerID,
		now:      now,
		engine:   engine,
		lastSeen: now(),
	}
}

// PlayerID identifies the session owner.
func (s *Session) PlayerID() string {
	return s.playerID
}

// LastSeen is the time of the most recent request or connection change.
func (s *Session) LastSeen() time.Time {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.lastSeen
}

// Attach counts one more open connection for the player.
func (s *Session) Attach() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.conns++
	s.lastSeen = s.now()
}

// Detach releases one connection and returns how many remain.
func (s *Session) Detach() int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.conns > 0 {
		s.conns--
	}
	s.lastSeen = s.now()
	return s.conns
}

// Connections is the number of attached connections.
func (s *Session) Connections() int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.conns
}

// IdleSince reports whether the session has not been used since cutoff.
func (s *Session) IdleSince(cutoff time.Time) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.lastSeen.Before(cutoff)
}

func (s *Session) touch() {
	s.stateMu.Lock()
	s.lastSeen = s.now()
	s.stateMu.Unlock()
}

// with runs fn while holding the session lock.
func (s *Session) with(fn func(e *Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return fn(s.engine)
}
