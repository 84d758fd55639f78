package model

import "time"

// Session is the record of which user is logged in for a browsing context
type Session struct {
	User      User // never carries a password
	CreatedAt time.Time
}

// Age returns how long the session has existed at the given instant
func (s Session) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}

// AuthState is delivered to auth-state listeners whenever the session changes
type AuthState struct {
	User            *User
	IsAuthenticated bool
}
