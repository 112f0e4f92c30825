package entities

import (
	"time"
)

// Session is the server-side record for an issued access token.
// A token is only accepted while its session record exists; logout
// removes the record.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity is the authenticated caller carried in a request context
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
