package leaderboard

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"duckhub/internal/jsonstore"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	file := jsonstore.New(filepath.Join(t.TempDir(), "leaderboard.json"))
	return NewStore(file, zap.NewNop().Sugar())
}

func TestGenerateUsername_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z]+#\d{3}$`)
	for i := 0; i < 100; i++ {
		name, err := GenerateUsername()
		if err != nil {
			t.Fatalf("GenerateUsername() error: %v", err)
		}
		if !pattern.MatchString(name) {
			t.Errorf("GenerateUsername() = %q, want name#NNN format", name)
		}
	}
}

func TestGetOrCreate_NewEntry(t *testing.T) {
	s := newTestStore(t)

	e, err := s.GetOrCreate("sess1")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	if e.ID == "" {
		t.Error("entry ID should not be empty")
	}
	if e.Username == "" {
		t.Error("entry Username should not be empty")
	}
	if e.Clicks != 0 || e.DucksRated != 0 {
		t.Errorf("new entry stats = %d/%d, want 0/0", e.Clicks, e.DucksRated)
	}
}

func TestGetOrCreate_StableAcrossCalls(t *testing.T) {
	s := newTestStore(t)

	first, _ := s.GetOrCreate("sess1")
	second, _ := s.GetOrCreate("sess1")

	if first.ID != second.ID {
		t.Errorf("ID changed across calls: %q vs %q", first.ID, second.ID)
	}
	if first.Username != second.Username {
		t.Errorf("Username changed across calls: %q vs %q", first.Username, second.Username)
	}
}

func TestSync_Ratchet(t *testing.T) {
	s := newTestStore(t)
	s.GetOrCreate("sess1")

	e, err := s.Sync("sess1", 10, 3)
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if e.Clicks != 10 || e.DucksRated != 3 {
		t.Errorf("stats = %d/%d, want 10/3", e.Clicks, e.DucksRated)
	}

	// Lower reports never decrease stored stats.
	e, _ = s.Sync("sess1", 5, 1)
	if e.Clicks != 10 || e.DucksRated != 3 {
		t.Errorf("stats after stale sync = %d/%d, want 10/3", e.Clicks, e.DucksRated)
	}

	// A mixed report ratchets each field independently.
	e, _ = s.Sync("sess1", 4, 7)
	if e.Clicks != 10 || e.DucksRated != 7 {
		t.Errorf("stats after mixed sync = %d/%d, want 10/7", e.Clicks, e.DucksRated)
	}
}

func TestSync_CreatesMissingEntry(t *testing.T) {
	s := newTestStore(t)

	e, err := s.Sync("fresh", 2, 1)
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if e.Username == "" {
		t.Error("Sync should create an entry with a username")
	}
	if e.Clicks != 2 {
		t.Errorf("Clicks = %d, want 2", e.Clicks)
	}
}

func TestList_Ranking(t *testing.T) {
	s := newTestStore(t)

	s.Sync("a", 5, 2)
	s.Sync("b", 5, 4)
	s.Sync("c", 9, 0)

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("List() size = %d, want 3", len(list))
	}
	if list[0].Clicks != 9 {
		t.Errorf("rank 1 clicks = %d, want 9", list[0].Clicks)
	}
	// Tie on clicks broken by ducksRated desc: b before a.
	if list[1].DucksRated != 4 {
		t.Errorf("rank 2 ducksRated = %d, want 4 (tie-break)", list[1].DucksRated)
	}
	if list[2].DucksRated != 2 {
		t.Errorf("rank 3 ducksRated = %d, want 2", list[2].DucksRated)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	logger := zap.NewNop().Sugar()

	s := NewStore(jsonstore.New(path), logger)
	created, _ := s.GetOrCreate("sess1")
	s.Sync("sess1", 42, 7)

	reopened := NewStore(jsonstore.New(path), logger)
	e, _ := reopened.GetOrCreate("sess1")
	if e.ID != created.ID {
		t.Errorf("ID after reopen = %q, want %q", e.ID, created.ID)
	}
	if e.Clicks != 42 || e.DucksRated != 7 {
		t.Errorf("stats after reopen = %d/%d, want 42/7", e.Clicks, e.DucksRated)
	}
}

func TestNewStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(jsonstore.New(path), zap.NewNop().Sugar())

	if entries := s.List(); len(entries) != 0 {
		t.Errorf("List() after corrupt load = %d entries, want 0", len(entries))
	}
	e, err := s.GetOrCreate("sess-1")
	if err != nil {
		t.Fatalf("GetOrCreate() after corrupt load error: %v", err)
	}
	if e.ID == "" || e.Username == "" {
		t.Errorf("GetOrCreate() after corrupt load = %+v, want populated entry", e)
	}
}
