package models

import "time"

// Event represents an entry in a user's activity log.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "user.registered", "query.failed"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	UserID    *string   `json:"userId,omitempty"` // Nil for anonymous activity
	CreatedAt time.Time `json:"createdAt"`
}

// Event types recorded by the application.
const (
	EventUserRegistered = "user.registered"
	EventSessionStarted = "session.started"
	EventSessionEnded   = "session.ended"
	EventQueryFailed    = "query.failed"
)
