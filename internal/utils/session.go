package utils

import "time"

// SessionData is what the middleware needs to know about a stored session,
// decoupled from the auth package's gorm model.
type SessionData struct {
	UserID    string
	ExpiresAt time.Time
}
