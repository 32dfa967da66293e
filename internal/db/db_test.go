package db

import (
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		database.conn.Exec("DELETE FROM duck_events")
		database.Close()
	})
	return database
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestBatchRecordEvents(t *testing.T) {
	database := getTestDB(t)

	events := []Event{
		{SessionID: "s1", Kind: EventClick, ClickCount: 1, OccurredAt: time.Now()},
		{SessionID: "s1", Kind: EventRating, ImageKey: "/ducks/a.jpg", Rating: 8, OccurredAt: time.Now()},
	}
	if err := database.BatchRecordEvents(events); err != nil {
		t.Fatalf("BatchRecordEvents() error: %v", err)
	}

	var count int
	err := database.conn.QueryRow(`SELECT COUNT(*) FROM duck_events WHERE session_id = 's1'`).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("event count = %d, want 2", count)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	// Must not panic.
	r.Record(Event{SessionID: "s1", Kind: EventClick})
}

func TestRecorder_FlushesBatch(t *testing.T) {
	database := getTestDB(t)
	r := NewRecorder(database, zap.NewNop().Sugar())

	for i := 0; i < 10; i++ {
		r.Record(Event{SessionID: "batch", Kind: EventClick, ClickCount: i + 1})
	}

	// The ticker flushes within 500ms.
	time.Sleep(time.Second)

	var count int
	err := database.conn.QueryRow(`SELECT COUNT(*) FROM duck_events WHERE session_id = 'batch'`).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != 10 {
		t.Errorf("flushed event count = %d, want 10", count)
	}
}
