package domain

// GrantType is one of the four supported OAuth 2.0 credential exchanges.
type GrantType string

const (
	GrantClientCredentials GrantType = "client_credentials"
	GrantPassword          GrantType = "password"
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantRefreshToken      GrantType = "refresh_token"
)

// TokenRequest is the transport-agnostic shape of a token endpoint call.
// Only the fields of the selected grant are read.
type TokenRequest struct {
	GrantType    GrantType
	ClientID     string
	ClientSecret string
	Scope        string // comma-delimited, optional

	Code        string // authorization_code
	RedirectURI string // authorization_code

	Username string // password
	Password string // password

	RefreshToken string // refresh_token
}

// AuthorizationRequest asks for an authorization code on behalf of an
// already authenticated resource owner.
type AuthorizationRequest struct {
	ResponseType string // must be "code"
	ClientID     string
	RedirectURI  string
	Scope        string
	State        string
	UserID       string
}
