package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	EventClick  = "click"
	EventRating = "rating"
)

type Event struct {
	SessionID  string
	Kind       string
	ImageKey   string
	Rating     int
	ClickCount int
	OccurredAt time.Time
}

func (d *DB) BatchRecordEvents(events []Event) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO duck_events (session_id, kind, image_key, rating, click_count, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.SessionID, ev.Kind, ev.ImageKey, ev.Rating, ev.ClickCount, ev.OccurredAt); err != nil {
			return fmt.Errorf("recording event in batch: %w", err)
		}
	}

	return tx.Commit()
}

// Recorder buffers activity events and flushes them to Postgres in batches.
// A nil Recorder swallows everything, so callers don't need to check whether
// a database is configured.
type Recorder struct {
	db     *DB
	buffer chan Event
	logger *zap.SugaredLogger
}

const (
	bufferSize    = 1000
	batchSize     = 50
	flushInterval = 500 * time.Millisecond
)

func NewRecorder(db *DB, logger *zap.SugaredLogger) *Recorder {
	r := &Recorder{
		db:     db,
		buffer: make(chan Event, bufferSize),
		logger: logger,
	}
	go r.run()
	return r
}

// Record queues an event without blocking. Events are dropped when the
// buffer is full.
func (r *Recorder) Record(ev Event) {
	if r == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	select {
	case r.buffer <- ev:
	default:
		r.logger.Warn("event buffer full, dropping event")
	}
}

func (r *Recorder) run() {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.db.BatchRecordEvents(batch); err != nil {
			r.logger.Errorw("flushing event batch", "error", err, "size", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-r.buffer:
			batch = append(batch, ev)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
