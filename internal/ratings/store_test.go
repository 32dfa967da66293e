package ratings

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"duckhub/internal/jsonstore"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	file := jsonstore.New(filepath.Join(t.TempDir(), "ratings.json"))
	return NewStore(file, zap.NewNop().Sugar())
}

func TestRecord_FirstRating(t *testing.T) {
	s := newTestStore(t)

	sum, err := s.Record("/ducks/mallard.jpg", 7)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if sum.Average != 7.0 {
		t.Errorf("Average = %v, want 7.0", sum.Average)
	}
	if sum.Count != 1 {
		t.Errorf("Count = %d, want 1", sum.Count)
	}
}

func TestRecord_AverageRoundsToOneDecimal(t *testing.T) {
	s := newTestStore(t)

	s.Record("/ducks/mallard.jpg", 5)
	sum, err := s.Record("/ducks/mallard.jpg", 3)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if sum.Average != 4.0 {
		t.Errorf("Average = %v, want 4.0", sum.Average)
	}
	if sum.Count != 2 {
		t.Errorf("Count = %d, want 2", sum.Count)
	}

	// 5, 3, 2 -> 3.333... -> 3.3
	sum, _ = s.Record("/ducks/mallard.jpg", 2)
	if sum.Average != 3.3 {
		t.Errorf("Average = %v, want 3.3", sum.Average)
	}
}

func TestRecord_RejectsOutOfRange(t *testing.T) {
	s := newTestStore(t)

	for _, rating := range []int{0, 11, -1} {
		if _, err := s.Record("/ducks/mallard.jpg", rating); !errors.Is(err, ErrValidation) {
			t.Errorf("Record(%d) error = %v, want ErrValidation", rating, err)
		}
	}
}

func TestRecord_RejectsEmptyKey(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Record("", 5); !errors.Is(err, ErrValidation) {
		t.Errorf("Record with empty key error = %v, want ErrValidation", err)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	s := newTestStore(t)

	sum := s.Get("/ducks/nope.jpg")
	if sum.Average != 0 || sum.Count != 0 {
		t.Errorf("Get() = %+v, want zero summary", sum)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.json")
	logger := zap.NewNop().Sugar()

	s := NewStore(jsonstore.New(path), logger)
	s.Record("/ducks/mallard.jpg", 8)
	s.Record("/ducks/mallard.jpg", 6)

	reopened := NewStore(jsonstore.New(path), logger)
	sum := reopened.Get("/ducks/mallard.jpg")
	if sum.Count != 2 {
		t.Errorf("Count after reopen = %d, want 2", sum.Count)
	}
	if sum.Average != 7.0 {
		t.Errorf("Average after reopen = %v, want 7.0", sum.Average)
	}
}

func TestRecord_ConcurrentAccess(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Record("/ducks/mallard.jpg", 5)
		}()
	}
	wg.Wait()

	sum := s.Get("/ducks/mallard.jpg")
	if sum.Count != 50 {
		t.Errorf("concurrent Count = %d, want 50", sum.Count)
	}
}

func TestNewStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(jsonstore.New(path), zap.NewNop().Sugar())

	if sum := s.Get("/ducks/mallard.jpg"); sum.Count != 0 {
		t.Errorf("Count after corrupt load = %d, want 0", sum.Count)
	}
	sum, err := s.Record("/ducks/mallard.jpg", 8)
	if err != nil {
		t.Fatalf("Record() after corrupt load error: %v", err)
	}
	if sum.Count != 1 || sum.Average != 8.0 {
		t.Errorf("Record() after corrupt load = %+v, want count 1 average 8.0", sum)
	}
}
