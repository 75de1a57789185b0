package models

// Session represents an access-gate session opened by a successful unlock.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// IssuedAt is the Unix timestamp when the session was opened.
	IssuedAt int64

	// ExpiresAt is the Unix timestamp after which the session token is rejected.
	ExpiresAt int64
}
