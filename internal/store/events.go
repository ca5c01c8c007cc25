package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/leolearn/leo-web/internal/models"
)

// EventStore keeps the activity log.
type EventStore interface {
	Append(ctx context.Context, event models.Event) error
	// RecentByUser returns up to limit events for userID, newest first.
	RecentByUser(ctx context.Context, userID string, limit int) ([]models.Event, error)
}

// MemoryEventStore keeps the newest events in a fixed-size ring.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events []models.Event
	next   int // slot the next Append writes
	max    int
}

// NewMemoryEventStore creates a store that retains at most max events.
func NewMemoryEventStore(max int) *MemoryEventStore {
	if max <= 0 {
		max = 1000
	}
	return &MemoryEventStore{events: make([]models.Event, 0, max), max: max}
}

func (s *MemoryEventStore) Append(_ context.Context, event models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.events) < s.max {
		s.events = append(s.events, event)
	} else {
		s.events[s.next] = event
	}
	s.next = (s.next + 1) % s.max
	return nil
}

func (s *MemoryEventStore) RecentByUser(_ context.Context, userID string, limit int) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Event
	n := len(s.events)
	for i := 0; i < n && len(out) < limit; i++ {
		e := s.events[(s.next-1-i+2*n)%n]
		if e.UserID != nil && *e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// SQLiteEventStore persists events in the events table.
type SQLiteEventStore struct {
	db *sql.DB
}

// NewSQLiteEventStore creates a SQLiteEventStore on a migrated database.
func NewSQLiteEventStore(db *sql.DB) *SQLiteEventStore {
	return &SQLiteEventStore{db: db}
}

func (s *SQLiteEventStore) Append(ctx context.Context, event models.Event) error {
	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO events (id, type, level, message, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, event.ID, event.Type, event.Level, event.Message, event.UserID, event.CreatedAt.UnixNano())
	return err
}

func (s *SQLiteEventStore) RecentByUser(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, level, message, user_id, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			event     models.Event
			createdAt int64
		)
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.UserID, &createdAt); err != nil {
			return nil, err
		}
		event.CreatedAt = time.Unix(0, createdAt).UTC()
		events = append(events, event)
	}
	return events, rows.Err()
}
