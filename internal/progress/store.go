// Package progress tracks per-session gamification state: total duck clicks,
// the set of distinct ducks a session has rated, and the badges it has
// already earned. State lives for the cookie session only and is never
// persisted.
package progress

import (
	"sync"
	"time"
)

type Session struct {
	TotalClicks  int
	RatedImages  map[string]bool
	EarnedBadges map[string]bool
	LastSeen     time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
	go s.sweepStale()
	return s
}

// track returns the session entry, creating a fully-initialized one on first
// touch. Callers never see a partially-populated session.
func (s *Store) track(id string) *Session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{
			RatedImages:  make(map[string]bool),
			EarnedBadges: make(map[string]bool),
		}
		s.sessions[id] = sess
	}
	sess.LastSeen = time.Now()
	return sess
}

// RecordClicks ratchets the session's click counter to reported and returns
// the new total. The counter never decreases, so stale client reports are
// harmless.
func (s *Store) RecordClicks(id string, reported int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.track(id)
	if reported > sess.TotalClicks {
		sess.TotalClicks = reported
	}
	return sess.TotalClicks
}

// RecordRated adds imageKey to the session's distinct-rated set and returns
// the set size. Rating the same duck twice does not grow the count.
func (s *Store) RecordRated(id, imageKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.track(id)
	sess.RatedImages[imageKey] = true
	return len(sess.RatedImages)
}

// Earned returns a copy of the session's earned-badge set.
func (s *Store) Earned(id string) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.track(id)
	out := make(map[string]bool, len(sess.EarnedBadges))
	for name := range sess.EarnedBadges {
		out[name] = true
	}
	return out
}

// MarkEarned records a badge award. Awards are permanent for the session's
// lifetime; marking twice is a no-op.
func (s *Store) MarkEarned(id, badgeName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track(id).EarnedBadges[badgeName] = true
}

// Clicks returns the session's current click total.
func (s *Store) Clicks(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track(id).TotalClicks
}

// RatedCount returns the session's distinct-rated count.
func (s *Store) RatedCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.track(id).RatedImages)
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, sess := range s.sessions {
			if now.Sub(sess.LastSeen) > s.ttl {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}
