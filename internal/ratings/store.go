package ratings

import (
	"errors"
	"math"
	"sync"

	"duckhub/internal/jsonstore"

	"go.uber.org/zap"
)

var ErrValidation = errors.New("invalid rating")

const (
	MinRating = 1
	MaxRating = 10
)

type Summary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Store keeps every rating ever submitted, keyed by image URL, and persists
// the whole document after each write. The mutex serializes the
// read-modify-write cycle so concurrent raters cannot lose updates.
type Store struct {
	mu     sync.Mutex
	byKey  map[string][]int
	file   *jsonstore.File
	logger *zap.SugaredLogger
}

func NewStore(file *jsonstore.File, logger *zap.SugaredLogger) *Store {
	s := &Store{
		byKey:  make(map[string][]int),
		file:   file,
		logger: logger,
	}
	if err := file.Load(&s.byKey); err != nil {
		// Degrade to an empty store rather than refusing to start.
		logger.Warnw("loading ratings store", "error", err)
		s.byKey = make(map[string][]int)
	}
	if s.byKey == nil {
		s.byKey = make(map[string][]int)
	}
	return s
}

// Record appends a rating for imageKey and returns the updated summary.
func (s *Store) Record(imageKey string, rating int) (Summary, error) {
	if imageKey == "" {
		return Summary{}, ErrValidation
	}
	if rating < MinRating || rating > MaxRating {
		return Summary{}, ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byKey[imageKey] = append(s.byKey[imageKey], rating)
	if err := s.file.Save(s.byKey); err != nil {
		s.logger.Errorw("saving ratings store", "error", err)
	}
	return summarize(s.byKey[imageKey]), nil
}

// Get returns the summary for imageKey, zero-valued when unknown.
func (s *Store) Get(imageKey string) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.byKey[imageKey])
}

func summarize(values []int) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	avg := float64(sum) / float64(len(values))
	return Summary{
		Average: math.Round(avg*10) / 10,
		Count:   len(values),
	}
}
