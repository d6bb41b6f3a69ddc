package oauthsdk

// ============================================================================
// OAuth2 Types
// ============================================================================

// ErrorResponse is the RFC 6749 section 5.2 error body.
type ErrorResponse struct {
	// Error is the OAuth2 error code (e.g., "invalid_request", "invalid_grant")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description,omitempty"`
}

// TokenResponse is the body of a successful token endpoint call.
type TokenResponse struct {
	// AccessToken is the opaque bearer token
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int64 `json:"expires_in"`

	// RefreshToken is omitted when no refresh token was issued
	RefreshToken string `json:"refresh_token,omitempty"`

	// Scope is the comma-delimited granted scope
	Scope string `json:"scope"`
}

// AuthCodeRequest asks for an authorization code on behalf of a resource
// owner the caller has already authenticated.
type AuthCodeRequest struct {
	ResponseType string `json:"response_type"`
	ClientID     string `json:"client_id"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	Scope        string `json:"scope,omitempty"`
	State        string `json:"state,omitempty"`
	UserID       string `json:"user_id"`
}

// AuthCodeResponse carries the issued code and the redirect URI with the
// code and state query parameters appended.
type AuthCodeResponse struct {
	Code        string `json:"code"`
	State       string `json:"state,omitempty"`
	RedirectURI string `json:"redirect_uri"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ============================================================================
// Client Types
// ============================================================================

// RegisterClientRequest registers a new client application.
type RegisterClientRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Scope is the comma-delimited list of scopes the client may request
	Scope       string `json:"scope"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

// RegisterClientResponse is returned once at registration. The secret is not
// recoverable afterwards.
type RegisterClientResponse struct {
	ClientInfo
	ClientSecret string `json:"client_secret"`
}

// UpdateClientRequest changes a client. Nil fields are left untouched.
type UpdateClientRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Scope       *string `json:"scope,omitempty"`

	// Status is "active" or "inactive"
	Status *string `json:"status,omitempty"`
}

// ClientInfo describes a registered client. It never carries the secret.
type ClientInfo struct {
	ID          string `json:"client_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Scope       string `json:"scope"`
	Status      string `json:"status"`
	RedirectURI string `json:"redirect_uri,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ListClientsResponse contains all registered clients, newest first.
type ListClientsResponse struct {
	Clients []ClientInfo `json:"clients"`
}

// ============================================================================
// Scope Types
// ============================================================================

// ScopeInfo describes a scope. Lifetimes are in seconds; zero means the
// server default applies.
type ScopeInfo struct {
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	CCExpiresIn      int64  `json:"cc_expires_in"`
	PassExpiresIn    int64  `json:"pass_expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	RefreshEligible  bool   `json:"refresh_eligible"`
}

// ListScopesResponse contains scopes ordered by name.
type ListScopesResponse struct {
	Scopes []ScopeInfo `json:"scopes"`
}

// ============================================================================
// User Types
// ============================================================================

// CreateUserRequest registers a resource owner for the password grant.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserInfo describes a resource owner. It never carries the password hash.
type UserInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz includes Checks).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	// Database indicates the storage backend connection status
	Database string `json:"database"`
}
