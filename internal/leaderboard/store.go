package leaderboard

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"duckhub/internal/jsonstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Entry struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Clicks     int       `json:"clicks"`
	DucksRated int       `json:"ducksRated"`
	LastActive time.Time `json:"lastActive"`
}

// Store holds one leaderboard entry per session, persisted as a single JSON
// document. Stats only ever ratchet upward on sync, so stale or out-of-order
// client reports cannot shrink anyone's numbers.
type Store struct {
	mu     sync.Mutex
	bySess map[string]*Entry
	file   *jsonstore.File
	logger *zap.SugaredLogger
}

func NewStore(file *jsonstore.File, logger *zap.SugaredLogger) *Store {
	s := &Store{
		bySess: make(map[string]*Entry),
		file:   file,
		logger: logger,
	}
	if err := file.Load(&s.bySess); err != nil {
		logger.Warnw("loading leaderboard store", "error", err)
		s.bySess = make(map[string]*Entry)
	}
	if s.bySess == nil {
		s.bySess = make(map[string]*Entry)
	}
	return s
}

// GetOrCreate returns the session's entry, generating a pseudonymous
// username and persisting a zero-stat entry on first call.
func (s *Store) GetOrCreate(sessionID string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.bySess[sessionID]; ok {
		return *e, nil
	}

	username, err := GenerateUsername()
	if err != nil {
		return Entry{}, fmt.Errorf("generating username: %w", err)
	}
	e := &Entry{
		ID:         uuid.New().String(),
		Username:   username,
		LastActive: time.Now(),
	}
	s.bySess[sessionID] = e
	s.save()
	return *e, nil
}

// Sync max-merges the reported stats into the session's entry. Either field
// may lag the stored value; neither ever decreases.
func (s *Store) Sync(sessionID string, clicks, ducksRated int) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.bySess[sessionID]
	if !ok {
		username, err := GenerateUsername()
		if err != nil {
			return Entry{}, fmt.Errorf("generating username: %w", err)
		}
		e = &Entry{ID: uuid.New().String(), Username: username}
		s.bySess[sessionID] = e
	}

	if clicks > e.Clicks {
		e.Clicks = clicks
	}
	if ducksRated > e.DucksRated {
		e.DucksRated = ducksRated
	}
	e.LastActive = time.Now()
	s.save()
	return *e, nil
}

// List returns all entries ranked by clicks descending, ties broken by
// ducksRated descending. Rank is the 1-based position in the slice.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.bySess))
	for _, e := range s.bySess {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Clicks != out[j].Clicks {
			return out[i].Clicks > out[j].Clicks
		}
		return out[i].DucksRated > out[j].DucksRated
	})
	return out
}

func (s *Store) save() {
	if err := s.file.Save(s.bySess); err != nil {
		s.logger.Errorw("saving leaderboard store", "error", err)
	}
}
