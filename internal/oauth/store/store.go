package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConsumed is returned by the Consume operations when the record
	// exists but was already consumed, revoked or rotated.
	ErrConsumed = errors.New("store: already consumed")
)

// Store is the root data access interface implemented by every backend
// (memory, sqlite, postgres, and the redis-cached decorator). It is split into
// sub-repositories so call sites only see the operations they need.
//
// Codes and tokens are addressed by their fingerprint (cryptox.FingerprintToken),
// never by the opaque value.
type Store interface {
	Clients() Clients
	Scopes() Scopes
	AuthorizationCodes() AuthorizationCodes
	AccessTokens() AccessTokens
	RefreshTokens() RefreshTokens
	Users() Users

	// ApplyMigrations brings the schema up to date. No-op for memory.
	ApplyMigrations(ctx context.Context) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

type Clients interface {
	// FindClientCredentials returns the client registered under id.
	FindClientCredentials(ctx context.Context, id string) (domain.ClientApplication, error)

	// ListClients returns all clients ordered by creation (newest first).
	ListClients(ctx context.Context) ([]domain.ClientApplication, error)

	// CreateClient inserts a new client. ErrAlreadyExists on id clash.
	CreateClient(ctx context.Context, c domain.ClientApplication) error

	UpdateClientStatus(ctx context.Context, id string, status domain.ClientStatus) error
	UpdateClientScope(ctx context.Context, id string, scope string) error
	UpdateClientName(ctx context.Context, id, name, description string) error
}

type Scopes interface {
	FindScope(ctx context.Context, name string) (domain.Scope, error)

	// GetAllScopes returns every registered scope ordered by name.
	GetAllScopes(ctx context.Context) ([]domain.Scope, error)

	// CreateScope inserts a scope. ErrAlreadyExists when the name is taken.
	CreateScope(ctx context.Context, s domain.Scope) error

	// UpdateScope replaces description, lifetimes and refresh eligibility.
	UpdateScope(ctx context.Context, s domain.Scope) error

	DeleteScope(ctx context.Context, name string) error
}

type AuthorizationCodes interface {
	CreateAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error

	// FindAuthorizationCode returns the code whatever its validity.
	FindAuthorizationCode(ctx context.Context, codeHash string) (domain.AuthorizationCode, error)

	// ConsumeAuthorizationCode flips Valid from true to false as one
	// indivisible step and returns the record as it was before the flip.
	// Exactly one of any number of concurrent callers succeeds; the others
	// get ErrConsumed. ErrNotFound when no such code exists.
	ConsumeAuthorizationCode(ctx context.Context, codeHash string) (domain.AuthorizationCode, error)

	// DeleteExpiredAuthorizationCodes removes codes that expired before now.
	DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) error
}

type AccessTokens interface {
	StoreAccessToken(ctx context.Context, t domain.AccessToken) error

	FindAccessToken(ctx context.Context, tokenHash string) (domain.AccessToken, error)

	// RevokeAccessToken clears the token from active use. Revoking an
	// already revoked token returns ErrConsumed.
	RevokeAccessToken(ctx context.Context, tokenHash string) error

	DeleteExpiredAccessTokens(ctx context.Context, now time.Time) error
}

type RefreshTokens interface {
	StoreRefreshToken(ctx context.Context, t domain.RefreshToken) error

	FindRefreshToken(ctx context.Context, tokenHash string) (domain.RefreshToken, error)

	// ConsumeRefreshToken has the same contract as ConsumeAuthorizationCode.
	ConsumeRefreshToken(ctx context.Context, tokenHash string) (domain.RefreshToken, error)

	// DeleteExpiredRefreshTokens removes tokens with an expiry before now.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error
}

type Users interface {
	FindUserByUsername(ctx context.Context, username string) (domain.User, error)
	CreateUser(ctx context.Context, u domain.User) error
}
