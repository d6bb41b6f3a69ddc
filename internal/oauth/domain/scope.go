package domain

import "time"

// Scope is a named permission unit with optional per-grant token lifetimes.
// Zero durations mean "not set"; the server default applies.
type Scope struct {
	Name             string
	Description      string
	CCExpiresIn      time.Duration // access tokens from client_credentials
	PassExpiresIn    time.Duration // access tokens issued on behalf of a user
	RefreshExpiresIn time.Duration // refresh tokens
	RefreshEligible  bool          // client_credentials may also receive a refresh token
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AccessTTL returns the access token lifetime override for grant, if any.
func (s Scope) AccessTTL(grant GrantType) time.Duration {
	if grant == GrantClientCredentials {
		return s.CCExpiresIn
	}
	return s.PassExpiresIn
}
