// Package session owns the per-session state surrounding the resolution
// engine: the recent-query history and the browse pagination cursor. State
// is keyed by an opaque session identity supplied by the auth layer and is
// never shared across sessions.
package session

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/medinfo/medinfo-api/internal/engine"
)

const (
	defaultTTL      = 30 * time.Minute
	cleanupInterval = 10 * time.Minute
)

type state struct {
	mu      sync.Mutex
	history []string
	query   string
	page    int
}

// Store keeps session state in memory with TTL eviction. Nothing here is
// persisted beyond the session lifetime.
type Store struct {
	mu       sync.Mutex
	sessions *cache.Cache
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		sessions: cache.New(ttl, cleanupInterval),
		ttl:      ttl,
	}
}

func (s *Store) get(sessionID string) *state {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.sessions.Get(sessionID); ok {
		st := v.(*state)
		s.sessions.Set(sessionID, st, s.ttl)
		return st
	}
	st := &state{page: 1}
	s.sessions.Set(sessionID, st, s.ttl)
	return st
}

// RecordQuery applies the recency-list update for one successful text
// search. Updates from the same session are serialized; the returned slice
// is a copy the caller owns.
func (s *Store) RecordQuery(sessionID, query string) []string {
	st := s.get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	st.history = engine.RecordQuery(st.history, query)
	return append([]string(nil), st.history...)
}

// History returns the session's recent queries, most-recent-first.
func (s *Store) History(sessionID string) []string {
	st := s.get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	return append([]string(nil), st.history...)
}

// BrowseCursor resolves the page to serve for a browse request. A change of
// the active filter query always resets the cursor to page 1; otherwise the
// requested page becomes the cursor. Clamping against the result size is the
// engine's job.
func (s *Store) BrowseCursor(sessionID, query string, requested int) int {
	st := s.get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if query != st.query {
		st.query = query
		st.page = 1
		return 1
	}
	if requested < 1 {
		requested = 1
	}
	st.page = requested
	return requested
}
