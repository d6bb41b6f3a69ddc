package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/pkg/slogx"
)

// DefaultStoreTimeout bounds the storage work of a single exchange.
const DefaultStoreTimeout = 5 * time.Second

// GrantEngine turns a token request into a token pair. It holds no mutable
// state of its own; single-use guarantees come from the store's consume
// primitives.
type GrantEngine struct {
	Clients *ClientService
	Scopes  *ScopeService
	Tokens  *TokenService
	Users   UserAuthenticator

	// RotateRefreshTokens consumes the presented refresh token and issues a
	// replacement on every refresh_token grant.
	RotateRefreshTokens bool

	// StoreTimeout bounds each exchange. Expiry surfaces as ErrServerError.
	StoreTimeout time.Duration

	Tracer trace.Tracer
}

func (e *GrantEngine) tracer() trace.Tracer {
	if e.Tracer != nil {
		return e.Tracer
	}
	return defaultTracer()
}

// Exchange runs the grant selected by req.GrantType. Requests missing a
// parameter the grant needs are rejected before any storage access.
func (e *GrantEngine) Exchange(ctx context.Context, req domain.TokenRequest) (_ *domain.TokenPair, err error) {
	ctx, span := e.tracer().Start(ctx, "oauth.token_exchange", trace.WithAttributes(
		attribute.String(AttrGrantType, string(req.GrantType)),
		attribute.String(AttrClientID, req.ClientID),
	))
	defer func() { endSpan(span, err) }()
	l := slogx.FromContext(ctx).With(
		slog.String("grant_type", string(req.GrantType)),
		slog.String("client_id", req.ClientID),
	)

	if err := validate(req); err != nil {
		l.Info("token request rejected", slog.String("error", Code(err).Error()), slog.String("reason", Description(err)))
		return nil, err
	}

	timeout := e.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var pair *domain.TokenPair
	switch req.GrantType {
	case domain.GrantClientCredentials:
		pair, err = e.clientCredentials(ctx, req)
	case domain.GrantPassword:
		pair, err = e.password(ctx, req)
	case domain.GrantAuthorizationCode:
		pair, err = e.authorizationCode(ctx, req)
	case domain.GrantRefreshToken:
		pair, err = e.refreshToken(ctx, req)
	}
	if err != nil {
		if Code(err) == ErrServerError {
			l.Error("token exchange failed", slog.Any("error", err))
		} else {
			l.Info("token request rejected", slog.String("error", Code(err).Error()), slog.String("reason", Description(err)))
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.String(AttrScope, pair.Scope),
		attribute.Int64(AttrExpiresIn, int64(pair.ExpiresIn/time.Second)),
		attribute.Bool(AttrRefresh, pair.RefreshToken != ""),
	)
	l.Info("token issued", slog.String("scope", pair.Scope), slog.Bool("refresh_token", pair.RefreshToken != ""))
	return pair, nil
}

// validate checks that the fields the selected grant needs are present.
func validate(req domain.TokenRequest) error {
	switch req.GrantType {
	case "":
		return describe(ErrInvalidRequest, "grant_type is required")
	case domain.GrantClientCredentials:
	case domain.GrantPassword:
		if req.Username == "" || req.Password == "" {
			return describe(ErrInvalidRequest, "username and password are required")
		}
	case domain.GrantAuthorizationCode:
		if req.Code == "" {
			return describe(ErrInvalidRequest, "code is required")
		}
		if req.RedirectURI == "" {
			return describe(ErrInvalidRequest, "redirect_uri is required")
		}
	case domain.GrantRefreshToken:
		if req.RefreshToken == "" {
			return describe(ErrInvalidRequest, "refresh_token is required")
		}
	default:
		return describe(ErrUnsupportedGrantType, "grant_type %q is not supported", req.GrantType)
	}

	if req.ClientID == "" || req.ClientSecret == "" {
		return describe(ErrInvalidClient, "client credentials are required")
	}
	return nil
}

// clientCredentials: the client authentication is the whole grant. A refresh
// token is only issued when every granted scope is flagged eligible.
func (e *GrantEngine) clientCredentials(ctx context.Context, req domain.TokenRequest) (*domain.TokenPair, error) {
	client, err := e.Clients.Authenticate(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, err
	}

	scope, err := ResolveClientScope(req.Scope, client)
	if err != nil {
		return nil, err
	}

	eligible, err := e.Scopes.RefreshEligible(ctx, scope)
	if err != nil {
		return nil, err
	}
	if eligible {
		return e.Tokens.IssueTokenPair(ctx, client, scope, domain.GrantClientCredentials, "")
	}

	at, err := e.Tokens.IssueAccessToken(ctx, client, scope, domain.GrantClientCredentials, "", "")
	if err != nil {
		return nil, err
	}
	return pairOf(at, ""), nil
}

func (e *GrantEngine) password(ctx context.Context, req domain.TokenRequest) (*domain.TokenPair, error) {
	client, err := e.Clients.Authenticate(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, err
	}

	if e.Users == nil {
		return nil, describe(ErrUnsupportedGrantType, "password grant is not enabled")
	}
	user, err := e.Users.AuthenticateUser(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	scope, err := ResolveClientScope(req.Scope, client)
	if err != nil {
		return nil, err
	}

	return e.Tokens.IssueTokenPair(ctx, client, scope, domain.GrantPassword, user.ID)
}

// authorizationCode ignores req.Scope: the pair carries the code's scope.
func (e *GrantEngine) authorizationCode(ctx context.Context, req domain.TokenRequest) (*domain.TokenPair, error) {
	client, err := e.Clients.Authenticate(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, err
	}

	code, err := e.Tokens.RedeemAuthorizationCode(ctx, req.Code, client.ID, req.RedirectURI)
	if err != nil {
		return nil, err
	}

	return e.Tokens.IssueTokenPair(ctx, client, code.Scope, domain.GrantAuthorizationCode, code.UserID)
}

// refreshToken issues a new access token, optionally for a narrower scope.
// Without rotation the presented refresh token stays valid and none is
// returned.
func (e *GrantEngine) refreshToken(ctx context.Context, req domain.TokenRequest) (*domain.TokenPair, error) {
	client, err := e.Clients.Authenticate(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, err
	}

	rt, err := e.Tokens.LookupRefreshToken(ctx, req.RefreshToken, client.ID)
	if err != nil {
		return nil, err
	}

	scope, err := NarrowScope(req.Scope, rt.Scope)
	if err != nil {
		return nil, err
	}

	if !e.RotateRefreshTokens {
		at, err := e.Tokens.IssueAccessToken(ctx, client, scope, domain.GrantRefreshToken, rt.UserID, rt.TokenHash)
		if err != nil {
			return nil, err
		}
		return pairOf(at, ""), nil
	}

	next, err := e.Tokens.RotateRefreshToken(ctx, client, rt)
	if err != nil {
		return nil, err
	}
	at, err := e.Tokens.IssueAccessToken(ctx, client, scope, domain.GrantRefreshToken, rt.UserID, next.TokenHash)
	if err != nil {
		return nil, err
	}
	return pairOf(at, next.Token), nil
}
