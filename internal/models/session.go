package models

import "time"

// Session binds a signed session token to exactly one user.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionToken is the signed value handed to the browser.
type SessionToken struct {
	Value     string
	UserID    string
	ExpiresAt time.Time
}
