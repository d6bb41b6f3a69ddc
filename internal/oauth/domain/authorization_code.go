package domain

import "time"

// AuthorizationCode is the single-use credential of the authorization_code
// grant. Valid flips from true to false exactly once.
type AuthorizationCode struct {
	ID          string
	CodeHash    string
	ClientID    string
	UserID      string
	RedirectURI string
	Scope       string
	State       string
	Valid       bool
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (c AuthorizationCode) Expired(now time.Time) bool { return !now.Before(c.ExpiresAt) }
