package domain

import "time"

const TokenTypeBearer = "Bearer"

// AccessToken is the stored record of an issued access token. Token holds
// the opaque value only on the instance returned at issuance.
type AccessToken struct {
	ID               string
	Token            string `json:"-"`
	TokenHash        string
	ClientID         string
	UserID           string
	Scope            string
	TokenType        string
	GrantType        GrantType
	RefreshTokenHash string
	Valid            bool
	IssuedAt         time.Time
	ExpiresIn        time.Duration
}

func (t AccessToken) ExpiresAt() time.Time { return t.IssuedAt.Add(t.ExpiresIn) }

func (t AccessToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt()) }

// RefreshToken is the stored record of a refresh token. A zero ExpiresAt
// means the token does not expire.
type RefreshToken struct {
	ID        string
	Token     string `json:"-"`
	TokenHash string
	ClientID  string
	UserID    string
	Scope     string
	Valid     bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (t RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// TokenPair is what the token endpoint returns on success.
type TokenPair struct {
	AccessToken  string
	TokenType    string
	ExpiresIn    time.Duration
	RefreshToken string // empty when no refresh token was issued
	Scope        string
}
