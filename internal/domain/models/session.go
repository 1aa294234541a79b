package models

import "time"

// SessionLifetime is the absolute expiry for persistent sessions.
const SessionLifetime = 24 * time.Hour

// Session is the typed per-browser-cookie record. It is constructed whole
// by the authenticator and the cleanup flow, never mutated field-by-field
// from scattered call sites.
type Session struct {
	Authenticated bool
	MockMode      bool
	Persistent    bool
	IssuedAt      time.Time
}

// Expired reports whether the absolute session lifetime has passed.
func (s Session) Expired(now time.Time) bool {
	if !s.Authenticated {
		return false
	}
	return now.After(s.IssuedAt.Add(SessionLifetime))
}
